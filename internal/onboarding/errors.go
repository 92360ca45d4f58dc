package onboarding

import (
	"errors"
	"fmt"

	"customer-onboarding/internal/gateway"
	"customer-onboarding/internal/validation"
)

var (
	ErrStepLocked         = errors.New("another step is being edited")
	ErrSubFormOpen        = errors.New("address form is open")
	ErrStepReadOnly       = errors.New("step is read-only")
	ErrUnknownStep        = errors.New("unknown step")
	ErrNotEditing         = errors.New("step is not in edit mode")
	ErrBusy               = errors.New("operation already in progress")
	ErrNoCustomerSelected = errors.New("no customer selected")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrSessionEnded       = errors.New("session ended")
	ErrNoSubForm          = errors.New("no address form is open")
	ErrAddressNotFound    = errors.New("address not found")
	ErrFieldLocked        = errors.New("field is locked")
	ErrUnknownField       = errors.New("unknown field")
	ErrAlreadyCreated     = errors.New("customer already created in this session")
	ErrConflictingFilter  = errors.New("only one of national id, customer id, customer number, account number, gsm number or order number may be set")
	ErrEmptyFilter        = errors.New("enter at least one search criterion")
	ErrAccountNotFound    = errors.New("billing account not found")
)

// ValidationError carries the failing fields of a form scope.
type ValidationError struct {
	Scope  string
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid input: %s", e.Scope, e.Fields.Error())
}

// RemoteError is a failed remote call. Stage is set on creation pipeline failures.
type RemoteError struct {
	Op    string
	Stage Stage
	Cause error
}

func (e *RemoteError) Error() string {
	if e.Stage != StageNone {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Stage, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *RemoteError) Unwrap() error { return e.Cause }

// RepairError reports that an applied address edit could not clear the previous default.
type RepairError struct {
	AddressID string
	Cause     error
}

func (e *RepairError) Error() string {
	return fmt.Sprintf("clear default on address %s: %v", e.AddressID, e.Cause)
}

func (e *RepairError) Unwrap() error { return e.Cause }

// UserMessage renders err for display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return "Please correct the highlighted fields."
	}
	var rerr *RepairError
	if errors.As(err, &rerr) {
		return "The address was saved, but the previous default address could not be updated."
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		msg := gateway.UserMessage(remote.Cause)
		switch remote.Stage {
		case StageCustomer:
			return "Customer could not be created. " + msg
		case StageDependents:
			return "Customer was created, but some addresses or contact details could not be saved. " + msg
		default:
			return msg
		}
	}

	switch {
	case errors.Is(err, ErrStepLocked):
		return "Please save or cancel your changes before switching steps."
	case errors.Is(err, ErrSubFormOpen):
		return "Please save or cancel the address form first."
	case errors.Is(err, ErrBusy):
		return "Please wait for the current operation to finish."
	case errors.Is(err, ErrNoCustomerSelected):
		return "No customer selected. Please search for a customer first."
	case errors.Is(err, ErrCustomerNotFound):
		return "Customer not found."
	case errors.Is(err, ErrSessionEnded):
		return "This customer was deleted."
	case errors.Is(err, ErrConflictingFilter):
		return "Search by only one of National ID, Customer ID, Customer Number, Account Number, GSM Number or Order Number."
	case errors.Is(err, ErrEmptyFilter):
		return "Enter at least one search criterion."
	case errors.Is(err, ErrAccountNotFound):
		return "Billing account not found."
	case errors.Is(err, ErrAlreadyCreated):
		return "This customer has already been created."
	default:
		return gateway.FallbackMessage
	}
}
