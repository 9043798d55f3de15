package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/open-telco/telebill/pkg/logger"
)

// Bill is the aggregate of one customer's calls in one billing period. The
// composite unique index makes (customer, period) the upsert key, so
// regenerating a bill can never duplicate it.
type Bill struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CustomerID    uint            `json:"customerId" gorm:"uniqueIndex:idx_bill_customer_period"`
	BillingPeriod string          `json:"billingPeriod" gorm:"size:7;uniqueIndex:idx_bill_customer_period"`
	TotalCalls    int64           `json:"totalCalls"`
	TotalCharge   decimal.Decimal `json:"totalCharge" gorm:"type:decimal(12,2)"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (Bill) TableName() string {
	return "bills"
}

// BillResult reports one bill generation run. NoActivity means the period
// held no calls and nothing was written; it is informational, not an error.
type BillResult struct {
	Bill       *Bill `json:"bill,omitempty"`
	Created    bool  `json:"created"`
	NoActivity bool  `json:"noActivity"`
}

// GenerateOrUpdateBill recomputes the bill for (customerID, period) from
// the full call log of that period and upserts it. The sum and the write
// share one transaction, so a failure never leaves a partial bill and the
// totals always match the call set they were read from. Repeating the call
// with no new activity yields the same row and values.
func GenerateOrUpdateBill(db *gorm.DB, customerID uint, period string) (*BillResult, error) {
	normalized, err := NormalizePeriod(period)
	if err != nil {
		return nil, err
	}
	if _, err := GetCustomer(db, customerID); err != nil {
		return nil, err
	}

	result := &BillResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		var totals struct {
			Calls  int64
			Charge decimal.Decimal
		}
		err := tx.Model(&CallLog{}).
			Where("customer_id = ? AND period = ?", customerID, normalized).
			Select("COUNT(id) AS calls, COALESCE(SUM(cost), 0) AS charge").
			Scan(&totals).Error
		if err != nil {
			return err
		}

		if totals.Calls == 0 {
			result.NoActivity = true
			return nil
		}

		// The existence probe only informs the created/updated flag; the
		// write itself is a single native upsert on the unique key.
		var existing int64
		err = tx.Model(&Bill{}).
			Where("customer_id = ? AND billing_period = ?", customerID, normalized).
			Count(&existing).Error
		if err != nil {
			return err
		}

		bill := Bill{
			CustomerID:    customerID,
			BillingPeriod: normalized,
			TotalCalls:    totals.Calls,
			TotalCharge:   totals.Charge.Round(2),
			GeneratedAt:   time.Now(),
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}, {Name: "billing_period"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_calls", "total_charge", "generated_at", "updated_at",
			}),
		}).Create(&bill).Error
		if err != nil {
			return err
		}

		var stored Bill
		err = tx.Where("customer_id = ? AND billing_period = ?", customerID, normalized).
			First(&stored).Error
		if err != nil {
			return err
		}

		result.Bill = &stored
		result.Created = existing == 0
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStorageFailure) {
			return nil, err
		}
		logger.Error("bill.generate",
			zap.Uint("customerId", customerID),
			zap.String("period", normalized),
			zap.Error(err))
		return nil, storageError(err)
	}

	return result, nil
}

// ListBillsForCustomer returns a customer's bill history, newest period
// first.
func ListBillsForCustomer(db *gorm.DB, customerID uint) ([]Bill, error) {
	var bills []Bill
	err := db.Where("customer_id = ?", customerID).
		Order("billing_period DESC").
		Find(&bills).Error
	if err != nil {
		return nil, storageError(err)
	}
	return bills, nil
}
