package customer

import (
	"context"
	"errors"
	"strings"

	"customer-onboarding/internal/domain"
	addrrepo "customer-onboarding/internal/repository/address"
	barepo "customer-onboarding/internal/repository/billingaccount"
	cmrepo "customer-onboarding/internal/repository/contactmedium"
	custrepo "customer-onboarding/internal/repository/customer"
)

// DefaultSearchLimit caps the number of customers a search returns.
const DefaultSearchLimit = 200

// ErrInvalidID is returned when an operation needs a customer id and got none.
var ErrInvalidID = errors.New("customer id required")

// Service owns customer records and assembles them with their dependents for searches.
type Service struct {
	customers custrepo.Repository
	addresses addrrepo.Repository
	contacts  cmrepo.Repository
	accounts  barepo.Repository
	limit     int
}

func New(customers custrepo.Repository, addresses addrrepo.Repository, contacts cmrepo.Repository, accounts barepo.Repository) *Service {
	return &Service{
		customers: customers,
		addresses: addresses,
		contacts:  contacts,
		accounts:  accounts,
		limit:     DefaultSearchLimit,
	}
}

func normalize(c domain.Customer) domain.Customer {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.MiddleName = strings.TrimSpace(c.MiddleName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.MotherName = strings.TrimSpace(c.MotherName)
	c.FatherName = strings.TrimSpace(c.FatherName)
	c.NationalID = strings.TrimSpace(c.NationalID)
	return c
}

// Create stores a new customer. The id and customer number are assigned by the store.
func (s *Service) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	c = normalize(c)
	c.ID = ""
	c.CustomerNumber = ""
	return s.customers.Create(ctx, c)
}

// Update replaces the demographic fields of customer id.
func (s *Service) Update(ctx context.Context, id string, c domain.Customer) (*domain.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}
	c = normalize(c)
	c.ID = id
	return s.customers.Update(ctx, c)
}

// Delete removes a customer together with its addresses and contact mediums.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}
	return s.customers.Delete(ctx, id)
}

// Search returns the customers matching filter with their contact mediums, addresses and
// billing accounts. Orders are not kept in this store, so an order number matches nobody.
func (s *Service) Search(ctx context.Context, filter domain.CustomerFilter) ([]domain.CustomerRecord, error) {
	if strings.TrimSpace(filter.OrderNumber) != "" {
		return []domain.CustomerRecord{}, nil
	}
	customers, err := s.customers.List(ctx, filter, s.limit)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return []domain.CustomerRecord{}, nil
	}

	ids := make([]string, 0, len(customers))
	for _, c := range customers {
		ids = append(ids, c.ID)
	}
	contacts, err := s.contacts.ListByCustomers(ctx, ids)
	if err != nil {
		return nil, err
	}
	addresses, err := s.addresses.ListByCustomers(ctx, ids)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.ListByCustomers(ctx, ids)
	if err != nil {
		return nil, err
	}

	contactsBy := make(map[string][]domain.ContactMedium, len(ids))
	for _, cm := range contacts {
		contactsBy[cm.CustomerID] = append(contactsBy[cm.CustomerID], cm)
	}
	addressesBy := make(map[string][]domain.Address, len(ids))
	for _, a := range addresses {
		addressesBy[a.CustomerID] = append(addressesBy[a.CustomerID], a)
	}

	accountsBy := make(map[string][]domain.BillingAccount, len(ids))
	for _, a := range accounts {
		accountsBy[a.CustomerID] = append(accountsBy[a.CustomerID], a)
	}

	out := make([]domain.CustomerRecord, 0, len(customers))
	for _, c := range customers {
		out = append(out, domain.CustomerRecord{
			Customer:        c,
			ContactMediums:  contactsBy[c.ID],
			Addresses:       addressesBy[c.ID],
			BillingAccounts: accountsBy[c.ID],
		})
	}
	return out, nil
}
