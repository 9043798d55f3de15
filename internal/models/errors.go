package models

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the billing core. Callers classify with
// errors.Is and render one human-readable message per kind.
var (
	// ErrCustomerNotFound reports an id or phone number that does not
	// reference an existing customer.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrInvalidInput reports boundary validation failures: non-positive
	// duration, empty required field, malformed billing period.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageFailure wraps any underlying persistence fault, including
	// violated uniqueness constraints.
	ErrStorageFailure = errors.New("storage failure")
)

func storageError(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
