package onboarding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/gateway"
	"customer-onboarding/internal/handoff"
	"customer-onboarding/internal/validation"
)

type call struct {
	Op       string
	ID       string
	Customer domain.Customer
	Address  domain.Address
	Contact  domain.ContactMedium
	Filter   domain.CustomerFilter
}

// stubGateway records every call. failOn decides per call whether it fails.
type stubGateway struct {
	mu      sync.Mutex
	calls   []call
	failOn  func(c call) error
	records []domain.CustomerRecord
	cities  []domain.City
	seq     int
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		cities: []domain.City{{ID: "34", Name: "Istanbul"}, {ID: "6", Name: "Ankara"}},
	}
}

func (s *stubGateway) failing(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn = func(c call) error {
		if c.Op == op {
			return err
		}
		return nil
	}
}

func (s *stubGateway) record(c call) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
	if s.failOn != nil {
		return s.failOn(c)
	}
	return nil
}

func (s *stubGateway) nextID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *stubGateway) ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Op)
	}
	return out
}

func (s *stubGateway) callsFor(op string) []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []call
	for _, c := range s.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *stubGateway) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *stubGateway) CreateCustomer(_ context.Context, c domain.Customer) (string, error) {
	if err := s.record(call{Op: gateway.OpCreateCustomer, Customer: c}); err != nil {
		return "", err
	}
	return s.nextID("cust"), nil
}

func (s *stubGateway) UpdateCustomer(_ context.Context, id string, c domain.Customer) error {
	return s.record(call{Op: gateway.OpUpdateCustomer, ID: id, Customer: c})
}

func (s *stubGateway) DeleteCustomer(_ context.Context, id string) error {
	return s.record(call{Op: gateway.OpDeleteCustomer, ID: id})
}

func (s *stubGateway) ListCustomers(_ context.Context, f domain.CustomerFilter) ([]domain.CustomerRecord, error) {
	if err := s.record(call{Op: gateway.OpListCustomers, Filter: f}); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.CustomerRecord
	for _, r := range s.records {
		if f.ID != "" && r.ID != f.ID {
			continue
		}
		if f.CustomerNumber != "" && r.CustomerNumber != f.CustomerNumber {
			continue
		}
		if f.NationalID != "" && r.NationalID != f.NationalID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *stubGateway) CreateAddress(_ context.Context, a domain.Address) (string, error) {
	if err := s.record(call{Op: gateway.OpCreateAddress, Address: a}); err != nil {
		return "", err
	}
	return s.nextID("addr"), nil
}

func (s *stubGateway) UpdateAddress(_ context.Context, id string, a domain.Address) error {
	return s.record(call{Op: gateway.OpUpdateAddress, ID: id, Address: a})
}

func (s *stubGateway) DeleteAddress(_ context.Context, id string) error {
	return s.record(call{Op: gateway.OpDeleteAddress, ID: id})
}

func (s *stubGateway) CreateContactMedium(_ context.Context, c domain.ContactMedium) (string, error) {
	if err := s.record(call{Op: gateway.OpCreateContactMedium, Contact: c}); err != nil {
		return "", err
	}
	return s.nextID("cm"), nil
}

func (s *stubGateway) UpdateContactMedium(_ context.Context, id string, c domain.ContactMedium) error {
	return s.record(call{Op: gateway.OpUpdateContactMedium, ID: id, Contact: c})
}

func (s *stubGateway) ListCities(context.Context) ([]domain.City, error) {
	if err := s.record(call{Op: gateway.OpListCities}); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.City(nil), s.cities...), nil
}

func fixedValidator() *validation.Validator {
	return validation.New(18, validation.WithClock(func() time.Time {
		return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	}))
}

func testDeps(gw *stubGateway) Deps {
	return Deps{
		Gateway:   gw,
		Handoff:   handoff.NewMemory(),
		Validator: fixedValidator(),
	}
}

func validAddress(title string) AddressInput {
	return AddressInput{
		Title:       title,
		CityID:      "34",
		Street:      "Bagdat Caddesi",
		HouseNumber: "12",
		Description: "near the park",
	}
}

func validValues() Values {
	return Values{
		FieldFirstName:     "Ayse",
		FieldLastName:      "Yilmaz",
		FieldGender:        "female",
		FieldBirthDate:     "1990-05-17",
		FieldNationalityID: "10000000146",
		FieldMotherName:    "Fatma",
		FieldFatherName:    "Ali",
		FieldEmail:         "ayse@example.com",
		FieldMobilePhone:   "5551234567",
	}
}

func sampleRecord() domain.CustomerRecord {
	return domain.CustomerRecord{
		Customer: domain.Customer{
			ID:             "cust-a",
			CustomerNumber: "1001",
			FirstName:      "Ayse",
			LastName:       "Yilmaz",
			Gender:         "K",
			BirthDate:      "1990-05-17",
			NationalID:     "10000000146",
		},
		ContactMediums: []domain.ContactMedium{
			{ID: "cm-1", CustomerID: "cust-a", Email: "ayse@example.com", MobilePhone: "5551234567"},
			{ID: "cm-2", CustomerID: "cust-a", Email: "other@example.com", MobilePhone: "5550000000"},
		},
		Addresses: []domain.Address{
			{ID: "addr-x", CustomerID: "cust-a", CityID: "34", CityName: "Istanbul", Title: "Home", Street: "S", HouseNumber: "1", Description: "d", IsDefault: false},
			{ID: "addr-y", CustomerID: "cust-a", CityID: "6", CityName: "Ankara", Title: "Work", Street: "S", HouseNumber: "2", Description: "d", IsDefault: true},
		},
		BillingAccounts: []domain.BillingAccount{
			{ID: "ba-1", CustomerID: "cust-a", AddressID: "addr-y", AccountNumber: "ACC-1", AccountName: "Main", TypeName: "Postpaid", StatusName: "Active"},
			{ID: "ba-2", CustomerID: "cust-a", AccountNumber: "ACC-2", AccountName: "Backup", TypeName: "Prepaid", StatusName: "Suspended"},
		},
	}
}

func countDefaults(items []domain.Address) int {
	n := 0
	for _, a := range items {
		if a.IsDefault {
			n++
		}
	}
	return n
}

