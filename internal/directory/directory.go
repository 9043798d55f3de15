// Package directory provides a cached phone-number lookup over the
// customer table. Call logging resolves every caller through it, so the
// hot path skips the database for repeat callers.
package directory

import (
	"time"

	"gorm.io/gorm"

	"github.com/open-telco/telebill/internal/models"
	"github.com/open-telco/telebill/pkg/cache"
	"github.com/open-telco/telebill/pkg/events"
)

const defaultTTL = 5 * time.Minute

// CustomerDirectory resolves phone numbers to customers through a TTL
// cache. Any customer mutation event flushes the cache; with a single
// writer process the flush keeps the cache strictly consistent.
type CustomerDirectory struct {
	db    *gorm.DB
	cache *cache.Cache
}

// New builds a directory and subscribes its invalidation to bus. A nil
// bus disables invalidation, which is only acceptable in tests.
func New(db *gorm.DB, bus *events.EventBus) *CustomerDirectory {
	d := &CustomerDirectory{
		db:    db,
		cache: cache.New(defaultTTL, 10*time.Minute),
	}
	if bus != nil {
		for _, sig := range []string{
			models.SigCustomerCreated,
			models.SigCustomerUpdated,
			models.SigCustomerDeleted,
		} {
			bus.Subscribe(sig, func(events.Event) error {
				d.cache.Flush()
				return nil
			})
		}
	}
	return d
}

// Lookup resolves a phone number to its customer, serving repeat lookups
// from the cache. Unknown numbers return models.ErrCustomerNotFound and
// are not cached, so a freshly registered customer is found immediately.
func (d *CustomerDirectory) Lookup(phoneNumber string) (*models.Customer, error) {
	if hit, ok := d.cache.Get(phoneNumber); ok {
		customer := hit.(models.Customer)
		return &customer, nil
	}

	customer, err := models.GetCustomerByPhone(d.db, phoneNumber)
	if err != nil {
		return nil, err
	}
	d.cache.Set(phoneNumber, *customer)
	return customer, nil
}

// Flush drops all cached entries.
func (d *CustomerDirectory) Flush() {
	d.cache.Flush()
}
