package controller

import (
	"gorm.io/gorm"

	"github.com/open-telco/telebill/internal/models"
	"github.com/open-telco/telebill/pkg/events"
)

// BillingPanel drives bill generation and history for the billing tab.
// Generation is always an explicit action, independent of list selection.
type BillingPanel struct {
	db  *gorm.DB
	bus *events.EventBus
}

func NewBillingPanel(db *gorm.DB, bus *events.EventBus) *BillingPanel {
	return &BillingPanel{db: db, bus: bus}
}

// Generate recomputes the bill for the customer and period and announces
// the result. No event is published for a no-activity period.
func (p *BillingPanel) Generate(customerID uint, period string) (*models.BillResult, error) {
	result, err := models.GenerateOrUpdateBill(p.db, customerID, period)
	if err != nil {
		return nil, err
	}
	if !result.NoActivity && p.bus != nil {
		p.bus.Emit(models.SigBillGenerated, "billing", map[string]any{
			"customerId":    result.Bill.CustomerID,
			"billingPeriod": result.Bill.BillingPeriod,
			"totalCalls":    result.Bill.TotalCalls,
			"totalCharge":   result.Bill.TotalCharge.StringFixed(2),
			"created":       result.Created,
		})
	}
	return result, nil
}

// History returns the customer's bills, newest period first.
func (p *BillingPanel) History(customerID uint) ([]models.Bill, error) {
	return models.ListBillsForCustomer(p.db, customerID)
}
