package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// FormDateLayout is the layout dates use inside the application.
	FormDateLayout = "2006-01-02"
	// WireDateLayout is the layout dates use on the record service boundary.
	WireDateLayout = "02/01/2006"
)

// ToWireDate converts a form date (YYYY-MM-DD) into the wire layout (DD/MM/YYYY).
// An empty input yields an empty output.
func ToWireDate(form string) (string, error) {
	form = strings.TrimSpace(form)
	if form == "" {
		return "", nil
	}
	t, err := time.Parse(FormDateLayout, form)
	if err != nil {
		return "", fmt.Errorf("parse form date %q: %w", form, err)
	}
	return t.Format(WireDateLayout), nil
}

// FromWireDate converts a wire date (DD/MM/YYYY) into the form layout (YYYY-MM-DD).
func FromWireDate(wire string) (string, error) {
	wire = strings.TrimSpace(wire)
	if wire == "" {
		return "", nil
	}
	t, err := time.Parse(WireDateLayout, wire)
	if err != nil {
		return "", fmt.Errorf("parse wire date %q: %w", wire, err)
	}
	return t.Format(FormDateLayout), nil
}

// AgeOn returns the number of whole years between birth and now.
func AgeOn(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
