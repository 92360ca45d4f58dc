// Package gateway talks to the remote record-keeping services.
// Every method performs exactly one request.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"customer-onboarding/internal/domain"
)

// RecordGateway is the contract the onboarding core consumes.
type RecordGateway interface {
	CreateCustomer(ctx context.Context, c domain.Customer) (string, error)
	UpdateCustomer(ctx context.Context, id string, c domain.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
	ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.CustomerRecord, error)

	CreateAddress(ctx context.Context, a domain.Address) (string, error)
	UpdateAddress(ctx context.Context, id string, a domain.Address) error
	DeleteAddress(ctx context.Context, id string) error

	CreateContactMedium(ctx context.Context, c domain.ContactMedium) (string, error)
	UpdateContactMedium(ctx context.Context, id string, c domain.ContactMedium) error

	ListCities(ctx context.Context) ([]domain.City, error)
}

// Operation names used in errors, logs and metrics.
const (
	OpCreateCustomer      = "createCustomer"
	OpUpdateCustomer      = "updateCustomer"
	OpDeleteCustomer      = "deleteCustomer"
	OpListCustomers       = "listCustomers"
	OpCreateAddress       = "createAddress"
	OpUpdateAddress       = "updateAddress"
	OpDeleteAddress       = "deleteAddress"
	OpCreateContactMedium = "createContactMedium"
	OpUpdateContactMedium = "updateContactMedium"
	OpListCities          = "listCities"
)

// FallbackMessage is shown when a failure carries no message of its own.
const FallbackMessage = "The operation could not be completed. Please try again later."

// Error is a failed gateway call.
type Error struct {
	Op      string
	Status  int    // HTTP status, 0 when no response was received
	Message string // message from the service error payload
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": failed"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns a human-readable message for err: the service message when the
// failure came from the gateway and carried one, otherwise FallbackMessage.
func UserMessage(err error) string {
	var gerr *Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	return FallbackMessage
}
