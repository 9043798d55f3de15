// Package listeners attaches audit logging to the domain event bus.
package listeners

import (
	"go.uber.org/zap"

	"github.com/open-telco/telebill/internal/models"
	"github.com/open-telco/telebill/pkg/events"
	"github.com/open-telco/telebill/pkg/logger"
)

// InitBillingListener subscribes the billing audit trail to the bus.
func InitBillingListener(bus *events.EventBus) {
	bus.Subscribe(models.SigBillGenerated, func(event events.Event) error {
		logger.Info("Bill generated",
			zap.Any("customerId", event.Data["customerId"]),
			zap.Any("billingPeriod", event.Data["billingPeriod"]),
			zap.Any("totalCalls", event.Data["totalCalls"]),
			zap.Any("totalCharge", event.Data["totalCharge"]),
			zap.Any("created", event.Data["created"]),
			zap.String("source", event.Source))
		return nil
	})
	logger.Info("Billing listener initialized")
}

// InitCustomerListener subscribes the customer lifecycle audit trail.
func InitCustomerListener(bus *events.EventBus) {
	for _, sig := range []string{
		models.SigCustomerCreated,
		models.SigCustomerUpdated,
		models.SigCustomerDeleted,
	} {
		eventType := sig
		bus.Subscribe(eventType, func(event events.Event) error {
			logger.Info("Customer event",
				zap.String("eventType", eventType),
				zap.Any("customerId", event.Data["customerId"]),
				zap.String("source", event.Source))
			return nil
		})
	}
	logger.Info("Customer listener initialized")
}
