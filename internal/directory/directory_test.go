package directory

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

func TestLookupCachesCustomer(t *testing.T) {
	db := newTestDB(t)
	customer := models.Customer{PhoneNumber: "555-0100", Name: "Alice", RatePlan: "Standard"}
	assert.NoError(t, models.CreateCustomer(db, &customer))

	d := New(db, nil)

	first, err := d.Lookup("555-0100")
	assert.NoError(t, err)
	assert.Equal(t, customer.ID, first.ID)

	// Mutate behind the cache's back; a cached lookup must not see it.
	assert.NoError(t, db.Model(&models.Customer{}).
		Where("id = ?", customer.ID).Update("name", "Changed").Error)

	second, err := d.Lookup("555-0100")
	assert.NoError(t, err)
	assert.Equal(t, "Alice", second.Name)
}

func TestLookupUnknownNumber(t *testing.T) {
	db := newTestDB(t)
	d := New(db, nil)

	_, err := d.Lookup("555-0999")
	assert.ErrorIs(t, err, models.ErrCustomerNotFound)
}

func TestCustomerEventsFlushCache(t *testing.T) {
	db := newTestDB(t)
	customer := models.Customer{PhoneNumber: "555-0100", Name: "Alice", RatePlan: "Standard"}
	assert.NoError(t, models.CreateCustomer(db, &customer))

	bus := events.NewEventBus()
	d := New(db, bus)

	_, err := d.Lookup("555-0100")
	assert.NoError(t, err)

	customer.Name = "Alice Smith"
	assert.NoError(t, models.UpdateCustomer(db, &customer))
	bus.Emit(models.SigCustomerUpdated, "test", map[string]any{"customerId": customer.ID})

	fresh, err := d.Lookup("555-0100")
	assert.NoError(t, err)
	assert.Equal(t, "Alice Smith", fresh.Name, "update event must invalidate the cache")
}
