package onboarding

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/gateway"
	"customer-onboarding/internal/handoff"
	"customer-onboarding/internal/pagination"
)

// SearchFilter is the customer search form. NationalID, CustomerID, CustomerNumber,
// AccountNumber, GSMNumber and OrderNumber are mutually exclusive; names may be combined
// with any of them.
type SearchFilter struct {
	NationalID     string
	CustomerID     string
	CustomerNumber string
	AccountNumber  string
	GSMNumber      string
	OrderNumber    string
	FirstName      string
	LastName       string
}

// Search field names, as rendered by the form.
const (
	SearchNationalID     = "natId"
	SearchCustomerID     = "customerId"
	SearchCustomerNumber = "customerNumber"
	SearchAccountNumber  = "accountNumber"
	SearchGSMNumber      = "gsmNumber"
	SearchOrderNumber    = "orderNumber"
)

// primaryFields lists the mutually exclusive search fields in form order.
var primaryFields = []string{
	SearchNationalID, SearchCustomerID, SearchCustomerNumber, SearchAccountNumber, SearchGSMNumber, SearchOrderNumber,
}

func (f SearchFilter) trimmed() SearchFilter {
	return SearchFilter{
		NationalID:     strings.TrimSpace(f.NationalID),
		CustomerID:     strings.TrimSpace(f.CustomerID),
		CustomerNumber: strings.TrimSpace(f.CustomerNumber),
		AccountNumber:  strings.TrimSpace(f.AccountNumber),
		GSMNumber:      strings.TrimSpace(f.GSMNumber),
		OrderNumber:    strings.TrimSpace(f.OrderNumber),
		FirstName:      strings.TrimSpace(f.FirstName),
		LastName:       strings.TrimSpace(f.LastName),
	}
}

func (f SearchFilter) primaries() map[string]string {
	return map[string]string{
		SearchNationalID:     f.NationalID,
		SearchCustomerID:     f.CustomerID,
		SearchCustomerNumber: f.CustomerNumber,
		SearchAccountNumber:  f.AccountNumber,
		SearchGSMNumber:      f.GSMNumber,
		SearchOrderNumber:    f.OrderNumber,
	}
}

// Primary returns the name of the set primary field, or "".
func (f SearchFilter) Primary() string {
	for _, name := range primaryFields {
		if strings.TrimSpace(f.primaries()[name]) != "" {
			return name
		}
	}
	return ""
}

// Disabled returns the primary fields the form should disable while another one is set.
func (f SearchFilter) Disabled() []string {
	primary := f.Primary()
	if primary == "" {
		return nil
	}
	var out []string
	for _, name := range primaryFields {
		if name != primary {
			out = append(out, name)
		}
	}
	return out
}

// IsEmpty reports whether no field of the filter holds a value.
func (f SearchFilter) IsEmpty() bool {
	return f.trimmed() == SearchFilter{}
}

// Validate rejects empty filters and filters with more than one primary field.
func (f SearchFilter) Validate() error {
	if f.IsEmpty() {
		return ErrEmptyFilter
	}
	n := 0
	for _, v := range f.trimmed().primaries() {
		if v != "" {
			n++
		}
	}
	if n > 1 {
		return ErrConflictingFilter
	}
	return nil
}

func (f SearchFilter) query() domain.CustomerFilter {
	t := f.trimmed()
	return domain.CustomerFilter{
		ID:             t.CustomerID,
		CustomerNumber: t.CustomerNumber,
		NationalID:     t.NationalID,
		AccountNumber:  t.AccountNumber,
		GSMNumber:      t.GSMNumber,
		OrderNumber:    t.OrderNumber,
		FirstName:      t.FirstName,
		LastName:       t.LastName,
	}
}

// Search runs customer searches and hands the selected result to the edit wizard.
type Search struct {
	deps  Deps
	guard *inflight

	mu      sync.Mutex
	results []domain.CustomerRecord
	cursor  pagination.Cursor
	ran     bool
}

func NewSearch(deps Deps, pageSize int) *Search {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Search{
		deps:   deps.withDefaults(),
		guard:  newInflight(),
		cursor: pagination.NewCursor(pageSize),
	}
}

// Run executes f and resets paging to the first page.
func (s *Search) Run(ctx context.Context, f SearchFilter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	release, err := s.guard.acquire("search")
	if err != nil {
		return err
	}
	defer release()

	records, err := s.deps.Gateway.ListCustomers(ctx, f.query())
	if err != nil {
		s.deps.Logger.Warn("customer search failed", zap.Error(err))
		return &RemoteError{Op: gateway.OpListCustomers, Cause: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = records
	s.ran = true
	s.cursor.Reset()
	return nil
}

// Clear drops the results.
func (s *Search) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
	s.ran = false
	s.cursor.Reset()
}

// NoResults reports whether a search ran and matched nothing.
func (s *Search) NoResults() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ran && len(s.results) == 0
}

func (s *Search) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

func (s *Search) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pagination.TotalPages(len(s.results), s.cursor.Size())
}

// Page returns the results on the current page.
func (s *Search) Page() []domain.CustomerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pagination.Window(s.cursor, s.results)
}

func (s *Search) Cursor() pagination.Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *Search) GoTo(page int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.GoTo(page, len(s.results))
}

func (s *Search) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Next(len(s.results))
}

func (s *Search) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Prev()
}

// Select writes the chosen customer to the handoff store.
func (s *Search) Select(ctx context.Context, customerID string) error {
	s.mu.Lock()
	var rec *domain.CustomerRecord
	for i := range s.results {
		if s.results[i].ID == customerID {
			rec = &s.results[i]
			break
		}
	}
	s.mu.Unlock()
	if rec == nil {
		return ErrCustomerNotFound
	}

	values := map[string]string{
		handoff.SelectedCustomerID:     rec.ID,
		handoff.SelectedCustomerNumber: rec.CustomerNumber,
		handoff.SelectedNationalID:     rec.NationalID,
	}
	for _, key := range handoff.Keys {
		if err := s.deps.Handoff.Set(ctx, key, values[key]); err != nil {
			return err
		}
	}
	s.deps.Logger.Info("customer selected", zap.String("customer_id", rec.ID))
	return nil
}
