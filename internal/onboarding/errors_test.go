package onboarding

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"customer-onboarding/internal/gateway"
	"customer-onboarding/internal/validation"
)

func TestUserMessage(t *testing.T) {
	serviceErr := &gateway.Error{Op: gateway.OpCreateAddress, Status: 400, Message: "City is required"}
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&ValidationError{Scope: "contact", Fields: validation.FieldErrors{"email": "invalid"}}, "Please correct the highlighted fields."},
		{&RemoteError{Op: gateway.OpCreateAddress, Cause: serviceErr}, "City is required"},
		{&RemoteError{Op: gateway.OpCreateAddress, Stage: StageDependents, Cause: serviceErr},
			"Customer was created, but some addresses or contact details could not be saved. City is required"},
		{&RemoteError{Op: gateway.OpUpdateCustomer, Cause: errors.New("dial tcp")}, gateway.FallbackMessage},
		{fmt.Errorf("select: %w", ErrStepLocked), "Please save or cancel your changes before switching steps."},
		{ErrBusy, "Please wait for the current operation to finish."},
		{ErrEmptyFilter, "Enter at least one search criterion."},
		{ErrAccountNotFound, "Billing account not found."},
		{errors.New("other"), gateway.FallbackMessage},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, UserMessage(tc.err))
	}
}
