// Package controller glues list-selection intents to customer and billing
// operations. A widget toolkit (or the CLI) stays a thin adapter: it
// forwards raw selection events in and renders the panel state that comes
// back out.
package controller

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/open-telco/telebill/internal/models"
	"github.com/open-telco/telebill/internal/selection"
	"github.com/open-telco/telebill/pkg/events"
	"github.com/open-telco/telebill/pkg/logger"
)

// Mode is the edit-form state of the customer panel.
type Mode string

const (
	// ModeAdd : empty form, submit creates a new customer.
	ModeAdd Mode = "add"
	// ModeUpdate : form holds the selected customer, submit updates it.
	ModeUpdate Mode = "update"
	// ModeDelete : a customer is armed for a confirmation-gated delete.
	ModeDelete Mode = "delete"
)

// CustomerForm mirrors the edit-form fields. PhoneLocked marks the phone
// number as the identity field while updating; a locked phone is never
// overwritten on submit.
type CustomerForm struct {
	PhoneNumber string
	Name        string
	Address     string
	RatePlan    string
	PhoneLocked bool
}

// CustomerPanel owns the selection disambiguator and the form state of the
// customer tab.
type CustomerPanel struct {
	mu       sync.Mutex
	db       *gorm.DB
	bus      *events.EventBus
	selector *selection.Disambiguator
	mode     Mode
	selected uint
	form     CustomerForm
}

// NewCustomerPanel wires a panel to the database and event bus. debounce
// is the single/double click window; zero applies the default.
func NewCustomerPanel(db *gorm.DB, bus *events.EventBus, debounce time.Duration) *CustomerPanel {
	panel := &CustomerPanel{db: db, bus: bus, mode: ModeAdd}
	panel.selector = selection.New(debounce, panel.onIntent)
	return panel
}

// RowSelected forwards a list click to the disambiguator.
func (p *CustomerPanel) RowSelected(customerID uint) {
	p.selector.RowSelected(customerID)
}

// RowActivated forwards a list double click to the disambiguator.
func (p *CustomerPanel) RowActivated(customerID uint) {
	p.selector.RowActivated(customerID)
}

// Reset drops any pending selection and returns the panel to add mode.
func (p *CustomerPanel) Reset() {
	p.selector.Clear()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = ModeAdd
	p.selected = 0
	p.form = CustomerForm{}
}

// Mode returns the current form mode.
func (p *CustomerPanel) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// SelectedID returns the customer currently held by the panel, 0 if none.
func (p *CustomerPanel) SelectedID() uint {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// Form returns a copy of the current form state.
func (p *CustomerPanel) Form() CustomerForm {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

func (p *CustomerPanel) onIntent(intent selection.Intent) {
	switch intent.Kind {
	case selection.IntentDelete:
		p.armDelete(intent.RowID)
	case selection.IntentUpdate:
		p.beginUpdate(intent.RowID)
	}
}

// armDelete clears the form and holds the row for a confirmed delete.
func (p *CustomerPanel) armDelete(customerID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = ModeDelete
	p.selected = customerID
	p.form = CustomerForm{}
}

// beginUpdate loads the customer into the form and locks the identity
// field. A stale row id (customer deleted meanwhile) degrades to a reset.
func (p *CustomerPanel) beginUpdate(customerID uint) {
	customer, err := models.GetCustomer(p.db, customerID)
	if err != nil {
		logger.Warn("selection refers to a missing customer",
			zap.Uint("customerId", customerID), zap.Error(err))
		p.mu.Lock()
		defer p.mu.Unlock()
		p.mode = ModeAdd
		p.selected = 0
		p.form = CustomerForm{}
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = ModeUpdate
	p.selected = customer.ID
	p.form = CustomerForm{
		PhoneNumber: customer.PhoneNumber,
		Name:        customer.Name,
		Address:     customer.Address,
		RatePlan:    customer.RatePlan,
		PhoneLocked: true,
	}
}

// Submit creates or updates a customer depending on the panel mode, then
// resets the panel.
func (p *CustomerPanel) Submit(form CustomerForm) (*models.Customer, error) {
	p.mu.Lock()
	mode := p.mode
	selected := p.selected
	p.mu.Unlock()

	if strings.TrimSpace(form.Name) == "" {
		return nil, models.ErrInvalidInput
	}
	if !models.RatePlans().Known(form.RatePlan) {
		return nil, models.ErrInvalidInput
	}

	if mode == ModeUpdate && selected != 0 {
		existing, err := models.GetCustomer(p.db, selected)
		if err != nil {
			return nil, err
		}
		existing.Name = form.Name
		existing.Address = form.Address
		existing.RatePlan = form.RatePlan
		if !form.PhoneLocked && strings.TrimSpace(form.PhoneNumber) != "" {
			existing.PhoneNumber = form.PhoneNumber
		}
		if err := models.UpdateCustomer(p.db, existing); err != nil {
			return nil, err
		}
		p.publish(models.SigCustomerUpdated, existing)
		p.Reset()
		return existing, nil
	}

	customer := &models.Customer{
		PhoneNumber: form.PhoneNumber,
		Name:        form.Name,
		Address:     form.Address,
		RatePlan:    form.RatePlan,
	}
	if err := models.CreateCustomer(p.db, customer); err != nil {
		return nil, err
	}
	p.publish(models.SigCustomerCreated, customer)
	p.Reset()
	return customer, nil
}

// ConfirmDelete runs the cascade delete of the held customer once the user
// confirmed. confirmed=false keeps the panel armed and deletes nothing.
func (p *CustomerPanel) ConfirmDelete(confirmed bool) error {
	if !confirmed {
		return nil
	}

	p.mu.Lock()
	selected := p.selected
	p.mu.Unlock()
	if selected == 0 {
		return models.ErrInvalidInput
	}

	if err := models.DeleteCustomer(p.db, selected); err != nil {
		return err
	}
	if p.bus != nil {
		p.bus.Emit(models.SigCustomerDeleted, "controller", map[string]any{
			"customerId": selected,
		})
	}
	p.Reset()
	return nil
}

func (p *CustomerPanel) publish(eventType string, customer *models.Customer) {
	if p.bus == nil {
		return
	}
	p.bus.Emit(eventType, "controller", map[string]any{
		"customerId":  customer.ID,
		"phoneNumber": customer.PhoneNumber,
	})
}
