package controller

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"

	"github.com/open-telco/telebill/internal/models"
	"github.com/open-telco/telebill/pkg/events"
)

const testDebounce = 20 * time.Millisecond

// settle is long enough for a pending debounce timer to have fired.
const settle = 6 * testDebounce

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	silentLogger := glog.New(
		log.New(io.Discard, "", log.LstdFlags),
		glog.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  glog.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: silentLogger,
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.CallLog{}, &models.Bill{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, phone, name, plan string) *models.Customer {
	t.Helper()
	customer := models.Customer{PhoneNumber: phone, Name: name, RatePlan: plan}
	assert.NoError(t, models.CreateCustomer(db, &customer))
	return &customer
}

func TestSingleClickArmsDelete(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "555-0100", "Alice", "Standard")
	panel := NewCustomerPanel(db, events.NewEventBus(), testDebounce)

	panel.RowSelected(customer.ID)
	time.Sleep(settle)

	assert.Equal(t, ModeDelete, panel.Mode())
	assert.Equal(t, customer.ID, panel.SelectedID())
	assert.Equal(t, CustomerForm{}, panel.Form(), "arming a delete must not fill the form")
}

func TestDoubleClickLoadsUpdateForm(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "555-0100", "Alice", "Premium")
	panel := NewCustomerPanel(db, events.NewEventBus(), testDebounce)

	panel.RowSelected(customer.ID)
	panel.RowActivated(customer.ID)
	time.Sleep(settle)

	assert.Equal(t, ModeUpdate, panel.Mode(), "double click must never arm a delete")
	form := panel.Form()
	assert.Equal(t, "555-0100", form.PhoneNumber)
	assert.Equal(t, "Alice", form.Name)
	assert.Equal(t, "Premium", form.RatePlan)
	assert.True(t, form.PhoneLocked)
}

func TestActivationOnMissingCustomerResets(t *testing.T) {
	db := newTestDB(t)
	panel := NewCustomerPanel(db, events.NewEventBus(), testDebounce)

	panel.RowActivated(99)

	assert.Equal(t, ModeAdd, panel.Mode())
	assert.Zero(t, panel.SelectedID())
}

func TestSubmitCreatesCustomer(t *testing.T) {
	db := newTestDB(t)
	bus := events.NewEventBus()
	var published []string
	bus.Subscribe(models.SigCustomerCreated, func(event events.Event) error {
		published = append(published, event.Type)
		return nil
	})
	panel := NewCustomerPanel(db, bus, testDebounce)

	customer, err := panel.Submit(CustomerForm{
		PhoneNumber: "555-0100",
		Name:        "Alice",
		Address:     "1 Main St",
		RatePlan:    "Standard",
	})
	assert.NoError(t, err)
	assert.NotZero(t, customer.ID)

	stored, err := models.GetCustomerByPhone(db, "555-0100")
	assert.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, []string{models.SigCustomerCreated}, published)
	assert.Equal(t, ModeAdd, panel.Mode(), "submit must reset the panel")
}

func TestSubmitRejectsInvalidForm(t *testing.T) {
	db := newTestDB(t)
	panel := NewCustomerPanel(db, events.NewEventBus(), testDebounce)

	tests := []struct {
		name string
		form CustomerForm
	}{
		{"missing name", CustomerForm{PhoneNumber: "555-0100", RatePlan: "Standard"}},
		{"unknown plan", CustomerForm{PhoneNumber: "555-0100", Name: "Alice", RatePlan: "Platinum"}},
		{"empty plan", CustomerForm{PhoneNumber: "555-0100", Name: "Alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := panel.Submit(tt.form)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestSubmitUpdateKeepsLockedPhone(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "555-0100", "Alice", "Standard")
	panel := NewCustomerPanel(db, events.NewEventBus(), testDebounce)

	panel.RowActivated(customer.ID)
	assert.Equal(t, ModeUpdate, panel.Mode())

	form := panel.Form()
	form.Name = "Alice Smith"
	form.RatePlan = "Business"
	form.PhoneNumber = "555-9999" // ignored while locked
	updated, err := panel.Submit(form)
	assert.NoError(t, err)

	assert.Equal(t, "555-0100", updated.PhoneNumber)
	assert.Equal(t, "Alice Smith", updated.Name)
	assert.Equal(t, "Business", updated.RatePlan)
	assert.Equal(t, ModeAdd, panel.Mode())

	stored, err := models.GetCustomer(db, customer.ID)
	assert.NoError(t, err)
	assert.Equal(t, "555-0100", stored.PhoneNumber)
	assert.Equal(t, "Alice Smith", stored.Name)
}

func TestConfirmDelete(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "555-0100", "Alice", "Standard")
	bus := events.NewEventBus()
	var deleted []events.Event
	bus.Subscribe(models.SigCustomerDeleted, func(event events.Event) error {
		deleted = append(deleted, event)
		return nil
	})
	panel := NewCustomerPanel(db, bus, testDebounce)

	panel.RowSelected(customer.ID)
	time.Sleep(settle)
	assert.Equal(t, ModeDelete, panel.Mode())

	// Declining the confirmation keeps the panel armed and the row intact.
	assert.NoError(t, panel.ConfirmDelete(false))
	assert.Equal(t, ModeDelete, panel.Mode())
	_, err := models.GetCustomer(db, customer.ID)
	assert.NoError(t, err)

	assert.NoError(t, panel.ConfirmDelete(true))
	_, err = models.GetCustomer(db, customer.ID)
	assert.ErrorIs(t, err, models.ErrCustomerNotFound)
	assert.Len(t, deleted, 1)
	assert.Equal(t, ModeAdd, panel.Mode())
}

func TestConfirmDeleteWithoutSelection(t *testing.T) {
	db := newTestDB(t)
	panel := NewCustomerPanel(db, events.NewEventBus(), testDebounce)

	assert.ErrorIs(t, panel.ConfirmDelete(true), models.ErrInvalidInput)
}

func TestResetDropsPendingGesture(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "555-0100", "Alice", "Standard")
	panel := NewCustomerPanel(db, events.NewEventBus(), testDebounce)

	panel.RowSelected(customer.ID)
	panel.Reset()
	time.Sleep(settle)

	assert.Equal(t, ModeAdd, panel.Mode(), "a cleared gesture must not arm a delete later")
	assert.Zero(t, panel.SelectedID())
}
