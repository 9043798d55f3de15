package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// periodLayout is the canonical billing period key: a calendar month.
const periodLayout = "2006-01"

// CallLog is one completed call, append-only. Cost is fixed at logging
// time from the customer's then-current rate plan; later plan changes never
// alter historical rows. Period is derived from StartedAt so bills can
// aggregate on an exact key instead of a timestamp prefix.
type CallLog struct {
	ID           int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	CallRef      string          `json:"callRef" gorm:"uniqueIndex;size:64"`
	CustomerID   uint            `json:"customerId" gorm:"index:idx_call_customer_period"`
	CalleeNumber string          `json:"calleeNumber" gorm:"size:64"`
	StartedAt    time.Time       `json:"startedAt" gorm:"index"`
	Period       string          `json:"period" gorm:"size:7;index:idx_call_customer_period"`
	DurationSec  int64           `json:"durationSec"`
	Cost         decimal.Decimal `json:"cost" gorm:"type:decimal(12,2)"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (CallLog) TableName() string {
	return "call_logs"
}

// PeriodOf returns the billing period key for a call start time.
func PeriodOf(t time.Time) string {
	return t.Format(periodLayout)
}

// PreviousPeriod returns the period key of the calendar month before now.
func PreviousPeriod(now time.Time) string {
	year, month, _ := now.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -1, 0).Format(periodLayout)
}

// NormalizePeriod validates a caller-supplied billing period and returns
// its canonical "YYYY-MM" form. Non-canonical keys such as "2024-1" are
// rejected rather than silently prefix-matched.
func NormalizePeriod(period string) (string, error) {
	t, err := time.Parse(periodLayout, strings.TrimSpace(period))
	if err != nil {
		return "", invalidInput("billing period must be YYYY-MM")
	}
	return t.Format(periodLayout), nil
}

// LogCall records a call made now by the customer owning phoneNumber.
func LogCall(db *gorm.DB, phoneNumber, calleeNumber string, durationSec int64) (*CallLog, error) {
	return LogCallAt(db, phoneNumber, calleeNumber, durationSec, time.Now())
}

// LogCallAt records a call with an explicit start time. Input validation
// lives here at the boundary; the cost calculator itself never fails.
func LogCallAt(db *gorm.DB, phoneNumber, calleeNumber string, durationSec int64, startedAt time.Time) (*CallLog, error) {
	if durationSec <= 0 {
		return nil, invalidInput("duration must be a positive number of seconds")
	}
	if strings.TrimSpace(calleeNumber) == "" {
		return nil, invalidInput("callee number is required")
	}

	customer, err := GetCustomerByPhone(db, phoneNumber)
	if err != nil {
		return nil, err
	}

	entry := &CallLog{
		CallRef:      uuid.NewString(),
		CustomerID:   customer.ID,
		CalleeNumber: calleeNumber,
		StartedAt:    startedAt,
		Period:       PeriodOf(startedAt),
		DurationSec:  durationSec,
		Cost:         RatePlans().ComputeCost(durationSec, customer.RatePlan),
	}
	if err := db.Create(entry).Error; err != nil {
		return nil, storageError(err)
	}
	return entry, nil
}

// ListCalls returns a customer's calls, newest first, optionally filtered
// to one billing period.
func ListCalls(db *gorm.DB, customerID uint, period string) ([]CallLog, error) {
	query := db.Where("customer_id = ?", customerID)
	if period != "" {
		normalized, err := NormalizePeriod(period)
		if err != nil {
			return nil, err
		}
		query = query.Where("period = ?", normalized)
	}

	var calls []CallLog
	if err := query.Order("started_at DESC").Find(&calls).Error; err != nil {
		return nil, storageError(err)
	}
	return calls, nil
}
