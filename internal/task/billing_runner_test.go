package task

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"

	"github.com/open-telco/telebill/internal/models"
)

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

func seedCustomer(t *testing.T, db *gorm.DB, phone, plan string) *models.Customer {
	t.Helper()
	customer := models.Customer{PhoneNumber: phone, Name: "Customer " + phone, RatePlan: plan}
	assert.NoError(t, models.CreateCustomer(db, &customer))
	return &customer
}

func TestRunBillingCycle(t *testing.T) {
	db := newTestDB(t)
	active := seedCustomer(t, db, "555-0100", "Standard")
	idle := seedCustomer(t, db, "555-0101", "Premium")

	startedAt := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	_, err := models.LogCallAt(db, "555-0100", "555-0200", 120, startedAt)
	assert.NoError(t, err)

	summary, err := RunBillingCycle(db, "2024-05")
	assert.NoError(t, err)
	assert.Equal(t, "2024-05", summary.Period)
	assert.Equal(t, 1, summary.Billed)
	assert.Equal(t, 1, summary.NoActivity)
	assert.Zero(t, summary.Failed)

	bills, err := models.ListBillsForCustomer(db, active.ID)
	assert.NoError(t, err)
	assert.Len(t, bills, 1)
	assert.True(t, bills[0].TotalCharge.Equal(decimal.RequireFromString("6.00")),
		"got charge %s", bills[0].TotalCharge)

	idleBills, err := models.ListBillsForCustomer(db, idle.ID)
	assert.NoError(t, err)
	assert.Empty(t, idleBills, "idle customers must not receive a bill row")
}

func TestRunBillingCycle_Rerun(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "555-0100", "Standard")

	startedAt := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	_, err := models.LogCallAt(db, "555-0100", "555-0200", 60, startedAt)
	assert.NoError(t, err)

	_, err = RunBillingCycle(db, "2024-05")
	assert.NoError(t, err)
	_, err = RunBillingCycle(db, "2024-05")
	assert.NoError(t, err)

	bills, err := models.ListBillsForCustomer(db, customer.ID)
	assert.NoError(t, err)
	assert.Len(t, bills, 1, "reruns must update in place")
}

func TestRunBillingCycle_InvalidPeriod(t *testing.T) {
	db := newTestDB(t)
	_, err := RunBillingCycle(db, "2024-1")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
