package task

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/open-telco/telebill/internal/models"
	"github.com/open-telco/telebill/pkg/logger"
)

// DefaultBillingSchedule runs the monthly cycle on the 1st at 03:00,
// billing the month that just closed.
const DefaultBillingSchedule = "0 3 1 * *"

// CycleSummary reports one billing cycle run.
type CycleSummary struct {
	Period     string
	Billed     int
	NoActivity int
	Failed     int
}

// StartBillingRunner starts the scheduled monthly billing cycle and
// returns the cron handle so the caller can stop it on shutdown.
func StartBillingRunner(db *gorm.DB, schedule string) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultBillingSchedule
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		period := models.PreviousPeriod(time.Now())
		logger.Info("Starting scheduled billing cycle", zap.String("period", period))
		summary, err := RunBillingCycle(db, period)
		if err != nil {
			logger.Error("Billing cycle failed", zap.String("period", period), zap.Error(err))
			return
		}
		logger.Info("Billing cycle completed",
			zap.String("period", summary.Period),
			zap.Int("billed", summary.Billed),
			zap.Int("noActivity", summary.NoActivity),
			zap.Int("failed", summary.Failed))
	})
	if err != nil {
		logger.Error("Failed to add billing runner cron job", zap.Error(err))
		return nil, err
	}

	c.Start()
	logger.Info("Billing runner started", zap.String("schedule", schedule))
	return c, nil
}

// RunBillingCycle regenerates the bill of every customer for the period.
// Customers with no activity are skipped; a storage failure on one
// customer is counted and does not abort the rest of the cycle.
func RunBillingCycle(db *gorm.DB, period string) (*CycleSummary, error) {
	normalized, err := models.NormalizePeriod(period)
	if err != nil {
		return nil, err
	}

	customers, err := models.ListCustomers(db)
	if err != nil {
		return nil, err
	}

	summary := &CycleSummary{Period: normalized}
	for _, customer := range customers {
		result, err := models.GenerateOrUpdateBill(db, customer.ID, normalized)
		if err != nil {
			summary.Failed++
			logger.Error("Failed to bill customer",
				zap.Uint("customerId", customer.ID),
				zap.String("period", normalized),
				zap.Error(err))
			continue
		}
		if result.NoActivity {
			summary.NoActivity++
			continue
		}
		summary.Billed++
	}
	return summary, nil
}
