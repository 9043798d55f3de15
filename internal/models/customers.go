package models

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/open-telco/telebill/pkg/logger"
)

// Domain event types published on the event bus.
const (
	// SigCustomerCreated : data {customerId, phoneNumber}
	SigCustomerCreated = "customer.created"
	// SigCustomerUpdated : data {customerId, phoneNumber}
	SigCustomerUpdated = "customer.updated"
	// SigCustomerDeleted : data {customerId}
	SigCustomerDeleted = "customer.deleted"
	// SigBillGenerated : data {customerId, billingPeriod, totalCalls, totalCharge, created}
	SigBillGenerated = "bill.generated"
)

// Customer is a telephone subscriber. The phone number is the natural
// identity shown in the UI; RatePlan names an entry in the rate plan table.
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	PhoneNumber string `json:"phoneNumber" gorm:"size:64;uniqueIndex;not null"`
	Name        string `json:"name" gorm:"size:128;not null"`
	Address     string `json:"address,omitempty" gorm:"size:256"`
	RatePlan    string `json:"ratePlan" gorm:"size:50;index"`
}

func (Customer) TableName() string {
	return "customers"
}

// CreateCustomer inserts a new customer. Phone number and name are
// required; a duplicate phone number surfaces as a storage failure.
func CreateCustomer(db *gorm.DB, customer *Customer) error {
	if strings.TrimSpace(customer.PhoneNumber) == "" {
		return invalidInput("phone number is required")
	}
	if strings.TrimSpace(customer.Name) == "" {
		return invalidInput("name is required")
	}
	if err := db.Create(customer).Error; err != nil {
		logger.Error("customer.create", zap.String("phone", customer.PhoneNumber), zap.Error(err))
		return storageError(err)
	}
	return nil
}

// GetCustomer loads a customer by id.
func GetCustomer(db *gorm.DB, id uint) (*Customer, error) {
	var customer Customer
	if err := db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, storageError(err)
	}
	return &customer, nil
}

// GetCustomerByPhone loads a customer by unique phone number.
func GetCustomerByPhone(db *gorm.DB, phoneNumber string) (*Customer, error) {
	var customer Customer
	err := db.Where("phone_number = ?", phoneNumber).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, storageError(err)
	}
	return &customer, nil
}

// ListCustomers returns all customers, newest first.
func ListCustomers(db *gorm.DB) ([]Customer, error) {
	var customers []Customer
	if err := db.Order("id DESC").Find(&customers).Error; err != nil {
		return nil, storageError(err)
	}
	return customers, nil
}

// UpdateCustomer persists changes to an existing customer.
func UpdateCustomer(db *gorm.DB, customer *Customer) error {
	if customer.ID == 0 {
		return invalidInput("customer id is required")
	}
	if strings.TrimSpace(customer.PhoneNumber) == "" {
		return invalidInput("phone number is required")
	}
	if strings.TrimSpace(customer.Name) == "" {
		return invalidInput("name is required")
	}
	if _, err := GetCustomer(db, customer.ID); err != nil {
		return err
	}
	if err := db.Save(customer).Error; err != nil {
		logger.Error("customer.update", zap.Uint("customerId", customer.ID), zap.Error(err))
		return storageError(err)
	}
	return nil
}

// DeleteCustomer removes a customer together with all dependent call logs
// and bills. The cascade runs in one transaction so a failure leaves
// everything in place.
func DeleteCustomer(db *gorm.DB, id uint) error {
	if _, err := GetCustomer(db, id); err != nil {
		return err
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&CallLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&Bill{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Customer{}, id).Error
	})
	if err != nil {
		logger.Error("customer.delete", zap.Uint("customerId", id), zap.Error(err))
		return storageError(err)
	}
	return nil
}
