package bootstrap

import (
	"time"

	"gorm.io/gorm"

	"github.com/open-telco/telebill/internal/models"
	"github.com/open-telco/telebill/pkg/logger"
)

type SeedService struct {
	db *gorm.DB
}

// SeedAll writes a small demo dataset so a fresh non-production database
// has something to bill. Runs only against an empty customer table.
func (s *SeedService) SeedAll() error {
	var count int64
	if err := s.db.Model(&models.Customer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	customers := []models.Customer{
		{PhoneNumber: "555-0100", Name: "Alice Johnson", Address: "1 Main St", RatePlan: "Standard"},
		{PhoneNumber: "555-0101", Name: "Bob Lee", Address: "2 Oak Ave", RatePlan: "Premium"},
		{PhoneNumber: "555-0102", Name: "Carol Diaz", Address: "3 Pine Rd", RatePlan: "Business"},
	}
	for i := range customers {
		if err := models.CreateCustomer(s.db, &customers[i]); err != nil {
			return err
		}
	}

	// A few calls in the current period so bill generation has activity.
	now := time.Now()
	calls := []struct {
		phone    string
		callee   string
		duration int64
	}{
		{"555-0100", "555-0200", 120},
		{"555-0100", "555-0201", 45},
		{"555-0101", "555-0200", 300},
	}
	for _, call := range calls {
		if _, err := models.LogCallAt(s.db, call.phone, call.callee, call.duration, now); err != nil {
			return err
		}
	}

	logger.Info("seeded demo customers and calls")
	return nil
}
