// Package wire defines the JSON contract of the record-keeping services.
// Dates cross this boundary as DD/MM/YYYY.
package wire

import (
	"strings"

	"customer-onboarding/internal/domain"
)

// CustomerRequest is the body of create/update customer calls.
type CustomerRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	MiddleName  string `json:"middleName"`
	LastName    string `json:"lastName" binding:"required"`
	Gender      string `json:"gender" binding:"required"`
	DateOfBirth string `json:"dateOfBirth" binding:"required,wiredate"`
	MotherName  string `json:"motherName"`
	FatherName  string `json:"fatherName"`
	NatID       string `json:"natId" binding:"required,natid"`
}

// AddressRequest is the body of create/update address calls.
type AddressRequest struct {
	CustomerID  string `json:"customerId" binding:"required"`
	CityID      string `json:"cityId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Street      string `json:"street" binding:"required"`
	HouseNumber string `json:"houseNumber" binding:"required"`
	Description string `json:"description" binding:"required"`
	IsDefault   bool   `json:"isDefault"`
}

// ContactMediumRequest is the body of create/update contact medium calls.
type ContactMediumRequest struct {
	CustomerID  string `json:"customerId" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	MobilePhone string `json:"mobilePhone" binding:"required,digits"`
	HomePhone   string `json:"homePhone"`
	Fax         string `json:"fax"`
}

// CreatedResponse carries the id assigned by a create call.
type CreatedResponse struct {
	ID string `json:"id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// CustomerResponse is one element of a customer listing.
type CustomerResponse struct {
	ID              string                   `json:"id"`
	CustomerNumber  string                   `json:"customerNumber"`
	FirstName       string                   `json:"firstName"`
	MiddleName      string                   `json:"middleName"`
	LastName        string                   `json:"lastName"`
	DateOfBirth     string                   `json:"dateOfBirth"`
	Gender          string                   `json:"gender"`
	MotherName      string                   `json:"motherName"`
	FatherName      string                   `json:"fatherName"`
	NatID           string                   `json:"natId"`
	ContactMediums  []ContactMediumResponse  `json:"contactMediums"`
	AddressSearches []AddressResponse        `json:"addressSearches"`
	BillingAccounts []BillingAccountResponse `json:"billingAccountSearches"`
}

// ContactMediumResponse is a contact medium as listed under a customer.
type ContactMediumResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	HomePhone   string `json:"homePhone"`
	MobilePhone string `json:"mobilePhone"`
	Fax         string `json:"fax"`
	CustomerID  string `json:"customerId"`
}

// AddressResponse is an address as listed under a customer.
type AddressResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	Description string `json:"description"`
	IsDefault   bool   `json:"isDefault"`
	CustomerID  string `json:"customerId"`
	CityID      string `json:"cityId"`
	CityName    string `json:"cityName"`
}

// BillingAccountResponse is a billing account as listed under a customer.
type BillingAccountResponse struct {
	ID            string `json:"id"`
	CustomerID    string `json:"customerId"`
	AddressID     string `json:"addressId"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	TypeName      string `json:"typeName"`
	StatusName    string `json:"statusName"`
}

// CityResponse is one element of the city listing.
type CityResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Query parameter names of the customer listing.
const (
	QueryID             = "id"
	QueryCustomerNumber = "customerNumber"
	QueryNatID          = "natId"
	QueryGSMNumber      = "gsmNumber"
	QueryAccountNumber  = "accountNumber"
	QueryOrderNumber    = "orderNumber"
	QueryFirstName      = "firstName"
	QueryLastName       = "lastName"
)

// NewCustomerRequest converts a customer into its outbound form, translating the birth date.
func NewCustomerRequest(c domain.Customer) (CustomerRequest, error) {
	dob, err := domain.ToWireDate(c.BirthDate)
	if err != nil {
		return CustomerRequest{}, err
	}
	return CustomerRequest{
		FirstName:   c.FirstName,
		MiddleName:  c.MiddleName,
		LastName:    c.LastName,
		Gender:      c.Gender,
		DateOfBirth: dob,
		MotherName:  c.MotherName,
		FatherName:  c.FatherName,
		NatID:       c.NationalID,
	}, nil
}

// Customer converts a request already on the wire into a domain customer.
func (r CustomerRequest) Customer() (domain.Customer, error) {
	dob, err := domain.FromWireDate(r.DateOfBirth)
	if err != nil {
		return domain.Customer{}, err
	}
	return domain.Customer{
		FirstName:  strings.TrimSpace(r.FirstName),
		MiddleName: strings.TrimSpace(r.MiddleName),
		LastName:   strings.TrimSpace(r.LastName),
		Gender:     r.Gender,
		BirthDate:  dob,
		MotherName: strings.TrimSpace(r.MotherName),
		FatherName: strings.TrimSpace(r.FatherName),
		NationalID: r.NatID,
	}, nil
}

// NewAddressRequest converts an address into its outbound form.
func NewAddressRequest(a domain.Address) AddressRequest {
	return AddressRequest{
		CustomerID:  a.CustomerID,
		CityID:      a.CityID,
		Title:       a.Title,
		Street:      a.Street,
		HouseNumber: a.HouseNumber,
		Description: a.Description,
		IsDefault:   a.IsDefault,
	}
}

// Address converts the request into a domain address.
func (r AddressRequest) Address() domain.Address {
	return domain.Address{
		CustomerID:  r.CustomerID,
		CityID:      r.CityID,
		Title:       strings.TrimSpace(r.Title),
		Street:      strings.TrimSpace(r.Street),
		HouseNumber: strings.TrimSpace(r.HouseNumber),
		Description: strings.TrimSpace(r.Description),
		IsDefault:   r.IsDefault,
	}
}

// NewContactMediumRequest converts a contact medium into its outbound form.
func NewContactMediumRequest(c domain.ContactMedium) ContactMediumRequest {
	return ContactMediumRequest{
		CustomerID:  c.CustomerID,
		Email:       c.Email,
		MobilePhone: c.MobilePhone,
		HomePhone:   c.HomePhone,
		Fax:         c.Fax,
	}
}

// ContactMedium converts the request into a domain contact medium.
func (r ContactMediumRequest) ContactMedium() domain.ContactMedium {
	return domain.ContactMedium{
		CustomerID:  r.CustomerID,
		Email:       strings.TrimSpace(r.Email),
		MobilePhone: r.MobilePhone,
		HomePhone:   r.HomePhone,
		Fax:         r.Fax,
	}
}

// NewCustomerResponse renders a record for the listing endpoint.
func NewCustomerResponse(rec domain.CustomerRecord) (CustomerResponse, error) {
	dob, err := domain.ToWireDate(rec.BirthDate)
	if err != nil {
		return CustomerResponse{}, err
	}
	out := CustomerResponse{
		ID:              rec.ID,
		CustomerNumber:  rec.CustomerNumber,
		FirstName:       rec.FirstName,
		MiddleName:      rec.MiddleName,
		LastName:        rec.LastName,
		DateOfBirth:     dob,
		Gender:          rec.Gender,
		MotherName:      rec.MotherName,
		FatherName:      rec.FatherName,
		NatID:           rec.NationalID,
		ContactMediums:  make([]ContactMediumResponse, 0, len(rec.ContactMediums)),
		AddressSearches: make([]AddressResponse, 0, len(rec.Addresses)),
		BillingAccounts: make([]BillingAccountResponse, 0, len(rec.BillingAccounts)),
	}
	for _, ba := range rec.BillingAccounts {
		out.BillingAccounts = append(out.BillingAccounts, BillingAccountResponse(ba))
	}
	for _, cm := range rec.ContactMediums {
		out.ContactMediums = append(out.ContactMediums, ContactMediumResponse{
			ID:          cm.ID,
			Email:       cm.Email,
			HomePhone:   cm.HomePhone,
			MobilePhone: cm.MobilePhone,
			Fax:         cm.Fax,
			CustomerID:  cm.CustomerID,
		})
	}
	for _, a := range rec.Addresses {
		out.AddressSearches = append(out.AddressSearches, AddressResponse{
			ID:          a.ID,
			Title:       a.Title,
			Street:      a.Street,
			HouseNumber: a.HouseNumber,
			Description: a.Description,
			IsDefault:   a.IsDefault,
			CustomerID:  a.CustomerID,
			CityID:      a.CityID,
			CityName:    a.CityName,
		})
	}
	return out, nil
}

// Record converts a listing element into a domain record.
func (r CustomerResponse) Record() (domain.CustomerRecord, error) {
	dob, err := domain.FromWireDate(r.DateOfBirth)
	if err != nil {
		return domain.CustomerRecord{}, err
	}
	rec := domain.CustomerRecord{
		Customer: domain.Customer{
			ID:             r.ID,
			CustomerNumber: r.CustomerNumber,
			FirstName:      r.FirstName,
			MiddleName:     r.MiddleName,
			LastName:       r.LastName,
			Gender:         r.Gender,
			BirthDate:      dob,
			MotherName:     r.MotherName,
			FatherName:     r.FatherName,
			NationalID:     r.NatID,
		},
	}
	for _, cm := range r.ContactMediums {
		rec.ContactMediums = append(rec.ContactMediums, domain.ContactMedium{
			ID:          cm.ID,
			CustomerID:  cm.CustomerID,
			Email:       cm.Email,
			MobilePhone: cm.MobilePhone,
			HomePhone:   cm.HomePhone,
			Fax:         cm.Fax,
		})
	}
	for _, ba := range r.BillingAccounts {
		rec.BillingAccounts = append(rec.BillingAccounts, domain.BillingAccount(ba))
	}
	for _, a := range r.AddressSearches {
		rec.Addresses = append(rec.Addresses, domain.Address{
			ID:          a.ID,
			CustomerID:  a.CustomerID,
			CityID:      a.CityID,
			CityName:    a.CityName,
			Title:       a.Title,
			Street:      a.Street,
			HouseNumber: a.HouseNumber,
			Description: a.Description,
			IsDefault:   a.IsDefault,
		})
	}
	return rec, nil
}

// FilterQuery renders a filter as listing query parameters, omitting empty fields.
func FilterQuery(f domain.CustomerFilter) map[string]string {
	q := map[string]string{}
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			q[k] = v
		}
	}
	set(QueryID, f.ID)
	set(QueryCustomerNumber, f.CustomerNumber)
	set(QueryNatID, f.NationalID)
	set(QueryGSMNumber, f.GSMNumber)
	set(QueryAccountNumber, f.AccountNumber)
	set(QueryOrderNumber, f.OrderNumber)
	set(QueryFirstName, f.FirstName)
	set(QueryLastName, f.LastName)
	return q
}

// ParseFilter reads a filter from query parameters using get.
func ParseFilter(get func(string) string) domain.CustomerFilter {
	return domain.CustomerFilter{
		ID:             strings.TrimSpace(get(QueryID)),
		CustomerNumber: strings.TrimSpace(get(QueryCustomerNumber)),
		NationalID:     strings.TrimSpace(get(QueryNatID)),
		GSMNumber:      strings.TrimSpace(get(QueryGSMNumber)),
		AccountNumber:  strings.TrimSpace(get(QueryAccountNumber)),
		OrderNumber:    strings.TrimSpace(get(QueryOrderNumber)),
		FirstName:      strings.TrimSpace(get(QueryFirstName)),
		LastName:       strings.TrimSpace(get(QueryLastName)),
	}
}
