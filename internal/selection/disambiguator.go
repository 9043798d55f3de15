// Package selection resolves the click / double-click ambiguity of a list
// UI. A single click must eventually arm the delete action, a double click
// must open the edit form, and one physical gesture must never trigger
// both. The first click of a double click also raises a selection event, so
// the single-click decision is parked behind a short debounce timer that
// the double click cancels.
package selection

import (
	"sync"
	"time"
)

// IntentKind classifies the resolved user intent.
type IntentKind string

const (
	// IntentUpdate : the row should be loaded into the edit form.
	IntentUpdate IntentKind = "update"
	// IntentDelete : the row should be armed for a confirmed delete.
	IntentDelete IntentKind = "delete"
)

// Intent is the single high-level action resolved from a gesture.
type Intent struct {
	Kind  IntentKind
	RowID uint
}

// Sink receives resolved intents, on whichever goroutine resolved them.
type Sink func(Intent)

// DefaultDelay is the debounce window separating a single click from the
// first half of a double click.
const DefaultDelay = 250 * time.Millisecond

// Disambiguator is a two-state machine: idle, or holding one pending
// single-click decision behind a timer. All transitions are serialized by
// the mutex; the timer callback re-checks the generation counter under the
// same mutex, so a canceled timer can never emit.
type Disambiguator struct {
	mu      sync.Mutex
	delay   time.Duration
	sink    Sink
	pending *time.Timer
	row     uint
	gen     uint64
}

// New creates a disambiguator delivering intents to sink after the given
// debounce delay (DefaultDelay when delay <= 0).
func New(delay time.Duration, sink Sink) *Disambiguator {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if sink == nil {
		sink = func(Intent) {}
	}
	return &Disambiguator{delay: delay, sink: sink}
}

// RowSelected records a click on a row and (re)starts the debounce window.
// Only the most recent selection matters: an earlier pending decision is
// discarded without emitting anything. A zero row id means the selection
// was emptied and behaves like Clear.
func (d *Disambiguator) RowSelected(rowID uint) {
	if rowID == 0 {
		d.Clear()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	d.row = rowID
	gen := d.gen
	d.pending = time.AfterFunc(d.delay, func() { d.timerFired(gen) })
}

// RowActivated resolves a double click. The pending single-click timer is
// canceled before the update intent is emitted, so the delete path cannot
// also run. Delivered while idle (out-of-order activation), it still
// resolves to an update for the given row; without a row it is a no-op.
func (d *Disambiguator) RowActivated(rowID uint) {
	d.mu.Lock()
	pendingRow := d.row
	d.cancelLocked()
	d.mu.Unlock()

	row := rowID
	if row == 0 {
		row = pendingRow
	}
	if row == 0 {
		return
	}
	d.sink(Intent{Kind: IntentUpdate, RowID: row})
}

// Clear drops any pending decision without emitting an intent.
func (d *Disambiguator) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// timerFired runs the single-click decision when the debounce window
// closes without an activation.
func (d *Disambiguator) timerFired(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		// Canceled or superseded after scheduling; a stale timer must
		// not emit.
		d.mu.Unlock()
		return
	}
	row := d.row
	d.pending = nil
	d.row = 0
	d.gen++
	d.mu.Unlock()

	d.sink(Intent{Kind: IntentDelete, RowID: row})
}

func (d *Disambiguator) cancelLocked() {
	d.gen++
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.row = 0
}
