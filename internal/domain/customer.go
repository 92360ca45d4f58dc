package domain

import "time"

// Customer is the demographic record of a person. BirthDate uses the form layout (YYYY-MM-DD).
type Customer struct {
	ID             string    `json:"id"`
	CustomerNumber string    `json:"customerNumber,omitempty"`
	FirstName      string    `json:"firstName"`
	MiddleName     string    `json:"middleName,omitempty"`
	LastName       string    `json:"lastName"`
	Gender         string    `json:"gender"`
	BirthDate      string    `json:"birthDate"`
	MotherName     string    `json:"motherName,omitempty"`
	FatherName     string    `json:"fatherName,omitempty"`
	NationalID     string    `json:"natId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ContactMedium holds the ways a customer can be reached.
type ContactMedium struct {
	ID          string `json:"id"`
	CustomerID  string `json:"customerId"`
	Email       string `json:"email"`
	MobilePhone string `json:"mobilePhone"`
	HomePhone   string `json:"homePhone,omitempty"`
	Fax         string `json:"fax,omitempty"`
}

// Address is a postal address owned by one customer.
// CityName is a display projection of CityID and never authoritative.
type Address struct {
	ID          string `json:"id"`
	CustomerID  string `json:"customerId"`
	CityID      string `json:"cityId"`
	CityName    string `json:"cityName,omitempty"`
	Title       string `json:"title"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	Description string `json:"description"`
	IsDefault   bool   `json:"isDefault"`
}

// City is read-only reference data.
type City struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BillingAccount is a read-only projection of an account owned by the billing system.
type BillingAccount struct {
	ID            string `json:"id"`
	CustomerID    string `json:"customerId"`
	AddressID     string `json:"addressId,omitempty"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	TypeName      string `json:"typeName"`
	StatusName    string `json:"statusName"`
}

// CustomerRecord is a customer together with its dependent records, as returned by a search.
type CustomerRecord struct {
	Customer
	ContactMediums  []ContactMedium  `json:"contactMediums"`
	Addresses       []Address        `json:"addressSearches"`
	BillingAccounts []BillingAccount `json:"billingAccountSearches"`
}

// CustomerFilter narrows a customer listing. Empty fields are ignored.
type CustomerFilter struct {
	ID             string
	CustomerNumber string
	NationalID     string
	GSMNumber      string
	AccountNumber  string
	OrderNumber    string
	FirstName      string
	LastName       string
}

// IsEmpty reports whether no field of the filter is set.
func (f CustomerFilter) IsEmpty() bool {
	return f == CustomerFilter{}
}
