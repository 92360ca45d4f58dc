package onboarding

import (
	"strings"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/validation"
)

// Values is a snapshot of the customer form.
type Values map[Field]string

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

func (v Values) demographic() validation.Demographic {
	return validation.Demographic{
		FirstName:     strings.TrimSpace(v[FieldFirstName]),
		MiddleName:    strings.TrimSpace(v[FieldMiddleName]),
		LastName:      strings.TrimSpace(v[FieldLastName]),
		Gender:        v[FieldGender],
		BirthDate:     v[FieldBirthDate],
		MotherName:    strings.TrimSpace(v[FieldMotherName]),
		FatherName:    strings.TrimSpace(v[FieldFatherName]),
		NationalityID: strings.TrimSpace(v[FieldNationalityID]),
	}
}

func (v Values) contact() validation.Contact {
	return validation.Contact{
		Email:       strings.TrimSpace(v[FieldEmail]),
		MobilePhone: strings.TrimSpace(v[FieldMobilePhone]),
		HomePhone:   strings.TrimSpace(v[FieldHomePhone]),
		Fax:         strings.TrimSpace(v[FieldFax]),
	}
}

// Customer builds the customer payload from the demographic fields.
func (v Values) Customer() domain.Customer {
	d := v.demographic()
	return domain.Customer{
		FirstName:  d.FirstName,
		MiddleName: d.MiddleName,
		LastName:   d.LastName,
		Gender:     d.Gender,
		BirthDate:  d.BirthDate,
		MotherName: d.MotherName,
		FatherName: d.FatherName,
		NationalID: d.NationalityID,
	}
}

// ContactMedium builds the contact medium payload for customerID from the contact fields.
func (v Values) ContactMedium(customerID string) domain.ContactMedium {
	c := v.contact()
	return domain.ContactMedium{
		CustomerID:  customerID,
		Email:       c.Email,
		MobilePhone: c.MobilePhone,
		HomePhone:   c.HomePhone,
		Fax:         c.Fax,
	}
}

// Form is the editable mirror of one customer. Locked fields reject user input;
// Patch writes regardless of locks.
type Form struct {
	values  Values
	locked  map[Field]bool
	touched map[Field]bool
	dirty   map[Field]bool
}

// NewForm returns an empty form with every field unlocked.
func NewForm() *Form {
	f := &Form{
		values:  make(Values),
		locked:  make(map[Field]bool),
		touched: make(map[Field]bool),
		dirty:   make(map[Field]bool),
	}
	for _, field := range AllFields() {
		f.values[field] = ""
	}
	return f
}

// Value returns the current value of field.
func (f *Form) Value(field Field) string { return f.values[field] }

// Values returns a deep snapshot of the form.
func (f *Form) Values() Values { return f.values.Clone() }

// Set writes user input into field.
func (f *Form) Set(field Field, value string) error {
	if _, ok := f.values[field]; !ok {
		return ErrUnknownField
	}
	if f.locked[field] {
		return ErrFieldLocked
	}
	f.values[field] = value
	f.dirty[field] = true
	return nil
}

// Patch overwrites the known fields present in v.
func (f *Form) Patch(v Values) {
	for field, val := range v {
		if _, ok := f.values[field]; ok {
			f.values[field] = val
		}
	}
}

// Lock makes fields read-only.
func (f *Form) Lock(fields ...Field) {
	for _, field := range fields {
		f.locked[field] = true
	}
}

// Unlock makes fields editable.
func (f *Form) Unlock(fields ...Field) {
	for _, field := range fields {
		delete(f.locked, field)
	}
}

// Locked reports whether field rejects input.
func (f *Form) Locked(field Field) bool { return f.locked[field] }

// Touch marks fields so that their errors render.
func (f *Form) Touch(fields ...Field) {
	for _, field := range fields {
		f.touched[field] = true
	}
}

// Touched reports whether field was touched.
func (f *Form) Touched(field Field) bool { return f.touched[field] }

// Dirty reports whether field received user input since the last MarkPristine.
func (f *Form) Dirty(field Field) bool { return f.dirty[field] }

// MarkPristine clears the dirty markers.
func (f *Form) MarkPristine() { f.dirty = make(map[Field]bool) }

// MarkUntouched clears the touched markers.
func (f *Form) MarkUntouched() { f.touched = make(map[Field]bool) }
