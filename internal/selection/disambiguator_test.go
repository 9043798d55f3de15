package selection

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testDelay = 20 * time.Millisecond

// settle is long enough for any pending testDelay timer to have fired.
const settle = 6 * testDelay

type intentRecorder struct {
	mu      sync.Mutex
	intents []Intent
}

func (r *intentRecorder) sink(intent Intent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, intent)
}

func (r *intentRecorder) snapshot() []Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Intent, len(r.intents))
	copy(out, r.intents)
	return out
}

func TestSingleClickEmitsOneDeleteIntent(t *testing.T) {
	recorder := &intentRecorder{}
	d := New(testDelay, recorder.sink)

	d.RowSelected(7)
	time.Sleep(settle)

	assert.Equal(t, []Intent{{Kind: IntentDelete, RowID: 7}}, recorder.snapshot())
}

func TestDoubleClickEmitsOneUpdateIntent(t *testing.T) {
	recorder := &intentRecorder{}
	d := New(testDelay, recorder.sink)

	// First click of the double click raises a selection, then the
	// activation arrives before the debounce window closes.
	d.RowSelected(7)
	d.RowActivated(7)
	time.Sleep(settle)

	assert.Equal(t, []Intent{{Kind: IntentUpdate, RowID: 7}}, recorder.snapshot(),
		"activation must win and the delete path must never run")
}

func TestReselectionRestartsDebounce(t *testing.T) {
	recorder := &intentRecorder{}
	d := New(testDelay, recorder.sink)

	d.RowSelected(1)
	time.Sleep(testDelay / 2)
	d.RowSelected(2)
	time.Sleep(settle)

	assert.Equal(t, []Intent{{Kind: IntentDelete, RowID: 2}}, recorder.snapshot(),
		"only the most recent selection may resolve")
}

func TestClearCancelsPendingDecision(t *testing.T) {
	recorder := &intentRecorder{}
	d := New(testDelay, recorder.sink)

	d.RowSelected(7)
	d.Clear()
	time.Sleep(settle)

	assert.Empty(t, recorder.snapshot())
}

func TestEmptySelectionBehavesLikeClear(t *testing.T) {
	recorder := &intentRecorder{}
	d := New(testDelay, recorder.sink)

	d.RowSelected(7)
	d.RowSelected(0)
	time.Sleep(settle)

	assert.Empty(t, recorder.snapshot())
}

func TestIdleActivationResolvesToUpdate(t *testing.T) {
	recorder := &intentRecorder{}
	d := New(testDelay, recorder.sink)

	d.RowActivated(9)

	assert.Equal(t, []Intent{{Kind: IntentUpdate, RowID: 9}}, recorder.snapshot())
}

func TestIdleActivationWithoutRowIsNoOp(t *testing.T) {
	recorder := &intentRecorder{}
	d := New(testDelay, recorder.sink)

	d.RowActivated(0)
	time.Sleep(settle)

	assert.Empty(t, recorder.snapshot())
}

func TestActivationAfterTimerFiredIsFreshGesture(t *testing.T) {
	recorder := &intentRecorder{}
	d := New(testDelay, recorder.sink)

	d.RowSelected(3)
	time.Sleep(settle)
	d.RowActivated(3)

	assert.Equal(t, []Intent{
		{Kind: IntentDelete, RowID: 3},
		{Kind: IntentUpdate, RowID: 3},
	}, recorder.snapshot())
}

func TestEveryGestureResolvesExactlyOnce(t *testing.T) {
	recorder := &intentRecorder{}
	d := New(testDelay, recorder.sink)

	// Three complete gestures: click, double click, click.
	d.RowSelected(1)
	time.Sleep(settle)

	d.RowSelected(2)
	d.RowActivated(2)
	time.Sleep(settle)

	d.RowSelected(3)
	time.Sleep(settle)

	assert.Equal(t, []Intent{
		{Kind: IntentDelete, RowID: 1},
		{Kind: IntentUpdate, RowID: 2},
		{Kind: IntentDelete, RowID: 3},
	}, recorder.snapshot())
}

func TestDefaultsApplied(t *testing.T) {
	d := New(0, nil)
	assert.Equal(t, DefaultDelay, d.delay)

	// A nil sink must not panic when a decision resolves.
	d.RowSelected(1)
	d.RowActivated(1)
}
