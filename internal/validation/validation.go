// Package validation holds the field rules shared by the wizard forms and the record API.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"customer-onboarding/internal/domain"
)

// DefaultMinAge is the minimum customer age when none is configured.
const DefaultMinAge = 18

var digitsPattern = regexp.MustCompile(`^[0-9]+$`)

// Demographic mirrors the demographic step of the customer form.
type Demographic struct {
	FirstName     string `json:"firstName" validate:"required"`
	MiddleName    string `json:"middleName"`
	LastName      string `json:"lastName" validate:"required"`
	Gender        string `json:"gender" validate:"required,oneof=female male other"`
	BirthDate     string `json:"birthDate" validate:"required,formdate,minage"`
	MotherName    string `json:"motherName"`
	FatherName    string `json:"fatherName"`
	NationalityID string `json:"nationalityId" validate:"required,natid"`
}

// Contact mirrors the contact-medium step of the customer form.
type Contact struct {
	Email       string `json:"email" validate:"required,email"`
	MobilePhone string `json:"mobilePhone" validate:"required,digits"`
	HomePhone   string `json:"homePhone"`
	Fax         string `json:"fax"`
}

// Address mirrors the add/edit address sub-form.
type Address struct {
	Title       string `json:"title" validate:"required"`
	CityID      string `json:"cityId" validate:"required"`
	Street      string `json:"street" validate:"required"`
	HouseNumber string `json:"houseNumber" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// FieldErrors maps a field name to a human-readable message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the failing field names in sorted order.
func (e FieldErrors) Fields() []string {
	out := make([]string, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Validator checks form structs against the registered rules.
type Validator struct {
	validate *validator.Validate
	minAge   int
	now      func() time.Time
}

// Option customises a Validator.
type Option func(*Validator)

// WithClock overrides the clock used for age checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New builds a Validator enforcing minAge years for birth dates.
func New(minAge int, opts ...Option) *Validator {
	if minAge <= 0 {
		minAge = DefaultMinAge
	}
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		minAge:   minAge,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	if err := Register(v.validate, v.minAge, func() time.Time { return v.now() }); err != nil {
		panic(err)
	}
	return v
}

// MinAge returns the configured minimum age.
func (v *Validator) MinAge() int { return v.minAge }

// Register installs the custom tags and json field naming on an existing validator engine,
// such as gin's binding validator.
func Register(validate *validator.Validate, minAge int, now func() time.Time) error {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return registerRules(validate, rules(minAge, now))
}

func registerRules(validate *validator.Validate, rs []rule) error {
	for _, r := range rs {
		if err := validate.RegisterValidation(r.tag, r.fn); err != nil {
			return fmt.Errorf("register %q rule: %w", r.tag, err)
		}
	}
	return nil
}

type rule struct {
	tag string
	fn  validator.Func
}

func rules(minAge int, now func() time.Time) []rule {
	return []rule{
		{"natid", func(fl validator.FieldLevel) bool {
			return ValidNationalID(fl.Field().String())
		}},
		{"digits", func(fl validator.FieldLevel) bool {
			return digitsPattern.MatchString(fl.Field().String())
		}},
		{"formdate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(domain.FormDateLayout, fl.Field().String())
			return err == nil
		}},
		{"wiredate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(domain.WireDateLayout, fl.Field().String())
			return err == nil
		}},
		{"minage", func(fl validator.FieldLevel) bool {
			return OldEnough(fl.Field().String(), minAge, now())
		}},
	}
}

// Struct validates s and returns nil when every rule passes.
func (v *Validator) Struct(s any) FieldErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	return v.FieldErrors(err)
}

// FieldErrors converts a validator error into FieldErrors.
func (v *Validator) FieldErrors(err error) FieldErrors {
	out := FieldErrors{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = Message(fe, v.minAge)
	}
	return out
}

// Message returns a human-readable message for a failed rule.
func Message(fe validator.FieldError, minAge int) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "natid":
		return "Must be 11 digits with a valid checksum"
	case "digits":
		return "Must contain digits only"
	case "formdate", "wiredate":
		return "Invalid date"
	case "minage":
		return fmt.Sprintf("Customer must be at least %d years old", minAge)
	default:
		return "Invalid value"
	}
}

// ValidNationalID reports whether id is an 11 digit national identifier with valid check digits.
// The first digit is never zero; digit 10 and 11 are derived from the preceding digits.
func ValidNationalID(id string) bool {
	if len(id) != 11 || !digitsPattern.MatchString(id) || id[0] == '0' {
		return false
	}
	var d [11]int
	for i := range id {
		d[i] = int(id[i] - '0')
	}
	odd := d[0] + d[2] + d[4] + d[6] + d[8]
	even := d[1] + d[3] + d[5] + d[7]
	tenth := ((odd*7-even)%10 + 10) % 10
	if tenth != d[9] {
		return false
	}
	sum := 0
	for i := 0; i < 10; i++ {
		sum += d[i]
	}
	return sum%10 == d[10]
}

// OldEnough reports whether a form-layout birth date is at least minAge years before now.
// Unparseable dates are reported as old enough so that the date rule owns the message.
func OldEnough(birthDate string, minAge int, now time.Time) bool {
	birth, err := time.Parse(domain.FormDateLayout, birthDate)
	if err != nil {
		return true
	}
	return domain.AgeOn(birth, now) >= minAge
}
