// Package onboarding drives the customer creation and maintenance wizards: step gating,
// address default bookkeeping, and the dependent call pipelines behind them.
package onboarding

import "fmt"

// Step is one page of the customer wizard.
type Step int

const (
	StepDemographic Step = iota + 1
	StepAccount
	StepAddress
	StepContact
)

// Steps lists the edit wizard steps in display order.
var Steps = []Step{StepDemographic, StepAccount, StepAddress, StepContact}

func (s Step) String() string {
	switch s {
	case StepDemographic:
		return "demographic"
	case StepAccount:
		return "account"
	case StepAddress:
		return "address"
	case StepContact:
		return "contact"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	switch s {
	case StepDemographic, StepAccount, StepAddress, StepContact:
		return true
	default:
		return false
	}
}

// Fields returns the form fields owned by the step. Account and address own none:
// addresses are edited through the AddressManager sub-flow.
func (s Step) Fields() []Field {
	switch s {
	case StepDemographic:
		return demographicFields
	case StepContact:
		return contactFields
	case StepAccount, StepAddress:
		return nil
	default:
		return nil
	}
}

// Editable reports whether the step can enter edit mode.
func (s Step) Editable() bool {
	return len(s.Fields()) > 0
}

// Field names a form control of the customer form.
type Field string

const (
	FieldFirstName     Field = "firstName"
	FieldLastName      Field = "lastName"
	FieldGender        Field = "gender"
	FieldMotherName    Field = "motherName"
	FieldMiddleName    Field = "middleName"
	FieldBirthDate     Field = "birthDate"
	FieldFatherName    Field = "fatherName"
	FieldNationalityID Field = "nationalityId"
	FieldEmail         Field = "email"
	FieldMobilePhone   Field = "mobilePhone"
	FieldHomePhone     Field = "homePhone"
	FieldFax           Field = "fax"
)

var (
	demographicFields = []Field{
		FieldFirstName, FieldLastName, FieldGender, FieldMotherName,
		FieldMiddleName, FieldBirthDate, FieldFatherName, FieldNationalityID,
	}
	contactFields = []Field{FieldEmail, FieldMobilePhone, FieldHomePhone, FieldFax}
)

// AllFields returns every field of the customer form.
func AllFields() []Field {
	out := make([]Field, 0, len(demographicFields)+len(contactFields))
	out = append(out, demographicFields...)
	return append(out, contactFields...)
}

var labels = map[Field]string{
	FieldFirstName:     "First Name",
	FieldLastName:      "Last Name",
	FieldGender:        "Gender",
	FieldMotherName:    "Mother Name",
	FieldMiddleName:    "Middle Name (Optional)",
	FieldBirthDate:     "Birth Date",
	FieldFatherName:    "Father Name",
	FieldNationalityID: "Nationality ID",
	FieldEmail:         "E-mail",
	FieldMobilePhone:   "Mobile Phone",
	FieldHomePhone:     "Home Phone (Optional)",
	FieldFax:           "Fax (Optional)",
}

// Label returns the display label of a field.
func Label(f Field) string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// InputKind returns the input type a field renders with.
func InputKind(f Field) string {
	switch f {
	case FieldBirthDate:
		return "date"
	case FieldEmail:
		return "email"
	default:
		return "text"
	}
}
