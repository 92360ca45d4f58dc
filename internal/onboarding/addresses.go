package onboarding

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/gateway"
	"customer-onboarding/internal/metrics"
	"customer-onboarding/internal/pagination"
	"customer-onboarding/internal/validation"
)

// AddressInput is the content of the add/edit address sub-form.
type AddressInput struct {
	Title       string
	CityID      string
	Street      string
	HouseNumber string
	Description string
	IsDefault   bool
}

func (in AddressInput) form() validation.Address {
	return validation.Address{
		Title:       strings.TrimSpace(in.Title),
		CityID:      strings.TrimSpace(in.CityID),
		Street:      strings.TrimSpace(in.Street),
		HouseNumber: strings.TrimSpace(in.HouseNumber),
		Description: strings.TrimSpace(in.Description),
	}
}

// InputFrom fills the sub-form from an existing address.
func InputFrom(a domain.Address) AddressInput {
	return AddressInput{
		Title:       a.Title,
		CityID:      a.CityID,
		Street:      a.Street,
		HouseNumber: a.HouseNumber,
		Description: a.Description,
		IsDefault:   a.IsDefault,
	}
}

type addressWriter interface {
	create(ctx context.Context, a domain.Address) (string, error)
	update(ctx context.Context, id string, a domain.Address) error
	delete(ctx context.Context, id string) error
}

type remoteWriter struct{ gw gateway.RecordGateway }

func (w remoteWriter) create(ctx context.Context, a domain.Address) (string, error) {
	return w.gw.CreateAddress(ctx, a)
}

func (w remoteWriter) update(ctx context.Context, id string, a domain.Address) error {
	return w.gw.UpdateAddress(ctx, id, a)
}

func (w remoteWriter) delete(ctx context.Context, id string) error {
	return w.gw.DeleteAddress(ctx, id)
}

// draftWriter keeps addresses local until the customer exists.
type draftWriter struct{}

const draftPrefix = "draft-"

func (draftWriter) create(context.Context, domain.Address) (string, error) {
	return draftPrefix + uuid.NewString(), nil
}

func (draftWriter) update(context.Context, string, domain.Address) error { return nil }

func (draftWriter) delete(context.Context, string) error { return nil }

// IsDraftID reports whether id was assigned locally.
func IsDraftID(id string) bool { return strings.HasPrefix(id, draftPrefix) }

type subForm int

const (
	subFormClosed subForm = iota
	subFormAdd
	subFormEdit
)

// AddressConfig wires an AddressManager.
type AddressConfig struct {
	Validator *validation.Validator
	Cities    *CityDirectory
	Cursor    *pagination.Cursor
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// AddressManager owns a customer's address list and keeps exactly one address marked
// default whenever the list is non-empty and every remote call succeeded.
type AddressManager struct {
	writer    addressWriter
	validator *validation.Validator
	cities    *CityDirectory
	logger    *zap.Logger
	metrics   *metrics.Metrics
	guard     *inflight

	mu         sync.Mutex
	customerID string
	items      []domain.Address
	cursor     *pagination.Cursor
	form       subForm
	editingID  string
}

// NewAddressManager returns a manager that persists every change through gw.
func NewAddressManager(gw gateway.RecordGateway, cfg AddressConfig) *AddressManager {
	return newAddressManager(remoteWriter{gw: gw}, cfg)
}

// NewDraftAddressManager returns a manager that keeps addresses local, for customers
// that do not exist yet.
func NewDraftAddressManager(cfg AddressConfig) *AddressManager {
	return newAddressManager(draftWriter{}, cfg)
}

func newAddressManager(w addressWriter, cfg AddressConfig) *AddressManager {
	if cfg.Validator == nil {
		cfg.Validator = validation.New(validation.DefaultMinAge)
	}
	if cfg.Cursor == nil {
		c := pagination.NewCursor(2)
		cfg.Cursor = &c
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &AddressManager{
		writer:    w,
		validator: cfg.Validator,
		cities:    cfg.Cities,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		guard:     newInflight(),
		cursor:    cfg.Cursor,
	}
}

// Load replaces the list with the addresses of customerID. A list without a default gets
// its first address promoted locally; extra defaults are cleared locally.
func (m *AddressManager) Load(customerID string, items []domain.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.customerID = customerID
	m.items = append([]domain.Address(nil), items...)
	m.form = subFormClosed
	m.editingID = ""

	seen := false
	for i := range m.items {
		if m.items[i].IsDefault {
			if seen {
				m.items[i].IsDefault = false
				m.logger.Warn("extra default address cleared locally",
					zap.String("customer_id", customerID), zap.String("address_id", m.items[i].ID))
			}
			seen = true
		}
	}
	if !seen && len(m.items) > 0 {
		m.items[0].IsDefault = true
	}
	m.cursor.Clamp(len(m.items))
}

// Reset empties the list.
func (m *AddressManager) Reset() {
	m.Load("", nil)
	m.mu.Lock()
	m.cursor.Reset()
	m.mu.Unlock()
}

// Items returns a copy of the address list.
func (m *AddressManager) Items() []domain.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Address(nil), m.items...)
}

// Len returns the number of addresses.
func (m *AddressManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Default returns the default address.
func (m *AddressManager) Default() (domain.Address, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.IsDefault {
			return a, true
		}
	}
	return domain.Address{}, false
}

// Page returns the addresses visible on the current page.
func (m *AddressManager) Page() []domain.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	return pagination.Window(*m.cursor, m.items)
}

// Cursor returns the paging cursor.
func (m *AddressManager) Cursor() pagination.Cursor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.cursor
}

func (m *AddressManager) NextPage() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor.Next(len(m.items))
}

func (m *AddressManager) PrevPage() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor.Prev()
}

func (m *AddressManager) GoToPage(page int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor.GoTo(page, len(m.items))
}

// TotalPages returns the page count of the list.
func (m *AddressManager) TotalPages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return pagination.TotalPages(len(m.items), m.cursor.Size())
}

func (m *AddressManager) resetPage() {
	m.mu.Lock()
	m.cursor.Reset()
	m.mu.Unlock()
}

// OpenAdd opens the new-address sub-form.
func (m *AddressManager) OpenAdd() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.form != subFormClosed {
		return ErrSubFormOpen
	}
	m.form = subFormAdd
	return nil
}

// OpenEdit opens the edit sub-form prefilled with address id.
func (m *AddressManager) OpenEdit(id string) (AddressInput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.form != subFormClosed {
		return AddressInput{}, ErrSubFormOpen
	}
	i := m.indexOf(id)
	if i < 0 {
		return AddressInput{}, ErrAddressNotFound
	}
	m.form = subFormEdit
	m.editingID = id
	return InputFrom(m.items[i]), nil
}

// CloseForm discards the open sub-form.
func (m *AddressManager) CloseForm() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.form == subFormClosed {
		return ErrNoSubForm
	}
	m.form = subFormClosed
	m.editingID = ""
	return nil
}

// FormOpen reports whether an add or edit sub-form is open.
func (m *AddressManager) FormOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form != subFormClosed
}

func (m *AddressManager) closeForm() {
	m.form = subFormClosed
	m.editingID = ""
}

func (m *AddressManager) indexOf(id string) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *AddressManager) validate(in AddressInput) error {
	if errs := m.validator.Struct(in.form()); errs != nil {
		return &ValidationError{Scope: "address", Fields: errs}
	}
	return nil
}

func (m *AddressManager) payload(ctx context.Context, in AddressInput) domain.Address {
	f := in.form()
	return domain.Address{
		CityID:      f.CityID,
		CityName:    m.cities.Name(ctx, f.CityID),
		Title:       f.Title,
		Street:      f.Street,
		HouseNumber: f.HouseNumber,
		Description: f.Description,
		IsDefault:   in.IsDefault,
	}
}

// Add persists a new address. The first address is always the default; a new default
// clears every other default locally once the create call succeeded.
func (m *AddressManager) Add(ctx context.Context, in AddressInput) (domain.Address, error) {
	if err := m.validate(in); err != nil {
		return domain.Address{}, err
	}
	release, err := m.guard.acquire("addresses")
	if err != nil {
		return domain.Address{}, err
	}
	defer release()

	a := m.payload(ctx, in)
	m.mu.Lock()
	a.CustomerID = m.customerID
	if _, remote := m.writer.(remoteWriter); remote && a.CustomerID == "" {
		m.mu.Unlock()
		return domain.Address{}, ErrNoCustomerSelected
	}
	if len(m.items) == 0 {
		a.IsDefault = true
	}
	m.mu.Unlock()

	id, err := m.writer.create(ctx, a)
	if err != nil {
		m.logger.Warn("address create failed", zap.String("customer_id", a.CustomerID), zap.Error(err))
		return domain.Address{}, &RemoteError{Op: gateway.OpCreateAddress, Cause: err}
	}
	a.ID = id

	m.mu.Lock()
	defer m.mu.Unlock()
	if a.IsDefault {
		for i := range m.items {
			m.items[i].IsDefault = false
		}
	}
	m.items = append(m.items, a)
	m.cursor.Clamp(len(m.items))
	m.closeForm()
	return a, nil
}

// Edit persists changes to address id. When the edit makes it the default, the previous
// default is cleared with a second call. If that call fails the edit stays applied, the
// previous default keeps its flag locally and a *RepairError is returned with the address.
func (m *AddressManager) Edit(ctx context.Context, id string, in AddressInput) (domain.Address, error) {
	if err := m.validate(in); err != nil {
		return domain.Address{}, err
	}
	release, err := m.guard.acquire("addresses")
	if err != nil {
		return domain.Address{}, err
	}
	defer release()

	m.mu.Lock()
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		return domain.Address{}, ErrAddressNotFound
	}
	current := m.items[i]
	var previous *domain.Address
	for j := range m.items {
		if j != i && m.items[j].IsDefault {
			p := m.items[j]
			previous = &p
			break
		}
	}
	m.mu.Unlock()

	updated := m.payload(ctx, in)
	updated.ID = current.ID
	updated.CustomerID = current.CustomerID
	if current.IsDefault {
		// The default only moves by promoting another address.
		updated.IsDefault = true
	}

	if err := m.writer.update(ctx, id, updated); err != nil {
		m.logger.Warn("address update failed", zap.String("address_id", id), zap.Error(err))
		return domain.Address{}, &RemoteError{Op: gateway.OpUpdateAddress, Cause: err}
	}

	m.mu.Lock()
	if i = m.indexOf(id); i >= 0 {
		m.items[i] = updated
	}
	m.closeForm()
	m.mu.Unlock()

	if !updated.IsDefault || previous == nil {
		return updated, nil
	}

	cleared := *previous
	cleared.IsDefault = false
	if err := m.writer.update(ctx, cleared.ID, cleared); err != nil {
		m.logger.Warn("previous default address not cleared",
			zap.String("address_id", cleared.ID), zap.String("new_default_id", id), zap.Error(err))
		m.metrics.DefaultRepairFailed()
		return updated, &RepairError{AddressID: cleared.ID, Cause: err}
	}

	m.mu.Lock()
	if j := m.indexOf(cleared.ID); j >= 0 {
		m.items[j].IsDefault = false
	}
	m.mu.Unlock()
	return updated, nil
}

// Delete removes address id after the service confirmed it. Removing the default
// promotes the first remaining address.
func (m *AddressManager) Delete(ctx context.Context, id string) error {
	release, err := m.guard.acquire("addresses")
	if err != nil {
		return err
	}
	defer release()

	m.mu.Lock()
	if m.indexOf(id) < 0 {
		m.mu.Unlock()
		return ErrAddressNotFound
	}
	m.mu.Unlock()

	if err := m.writer.delete(ctx, id); err != nil {
		m.logger.Warn("address delete failed", zap.String("address_id", id), zap.Error(err))
		return &RemoteError{Op: gateway.OpDeleteAddress, Cause: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil
	}
	removed := m.items[i]
	m.items = append(m.items[:i], m.items[i+1:]...)
	if removed.IsDefault && len(m.items) > 0 {
		m.items[0].IsDefault = true
	}
	if m.editingID == id {
		m.closeForm()
	}
	m.cursor.Clamp(len(m.items))
	return nil
}

// bind attaches created ids after the owning customer was created.
func (m *AddressManager) bind(customerID string, ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customerID = customerID
	for i := range m.items {
		m.items[i].CustomerID = customerID
		if i < len(ids) && ids[i] != "" {
			m.items[i].ID = ids[i]
		}
	}
}
