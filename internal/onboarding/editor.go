package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/gateway"
	"customer-onboarding/internal/handoff"
	"customer-onboarding/internal/validation"
)

// NormalizeGender maps the stored representations onto the form values.
func NormalizeGender(g string) string {
	switch strings.TrimSpace(g) {
	case "K", "Female", "female":
		return "female"
	case "E", "Male", "male":
		return "male"
	default:
		return "other"
	}
}

// RecordValues projects a customer record onto the form. Only the first contact medium
// is shown.
func RecordValues(rec domain.CustomerRecord) Values {
	v := make(Values, len(AllFields()))
	for _, f := range AllFields() {
		v[f] = ""
	}
	v[FieldFirstName] = rec.FirstName
	v[FieldMiddleName] = rec.MiddleName
	v[FieldLastName] = rec.LastName
	v[FieldGender] = NormalizeGender(rec.Gender)
	v[FieldBirthDate] = rec.BirthDate
	v[FieldMotherName] = rec.MotherName
	v[FieldFatherName] = rec.FatherName
	v[FieldNationalityID] = rec.NationalID
	if len(rec.ContactMediums) > 0 {
		c := rec.ContactMediums[0]
		v[FieldEmail] = c.Email
		v[FieldMobilePhone] = c.MobilePhone
		v[FieldHomePhone] = c.HomePhone
		v[FieldFax] = c.Fax
	}
	return v
}

func stepOf(f Field) Step {
	for _, step := range Steps {
		for _, owned := range step.Fields() {
			if owned == f {
				return step
			}
		}
	}
	return 0
}

func stepScope(s Step) string { return "step:" + s.String() }

// Editor drives the edit wizard of one existing customer. At most one step is in edit
// mode at a time, and the wizard cannot leave a step while it is being edited.
type Editor struct {
	deps      Deps
	addresses *AddressManager
	guard     *inflight

	mu        sync.Mutex
	session   *Session
	form      *Form
	customer  domain.Customer
	contactID string
	accounts  []domain.BillingAccount
	opened    string
}

// NewEditor returns an editor bound to session. A nil session starts a fresh one.
func NewEditor(deps Deps, session *Session) *Editor {
	deps = deps.withDefaults()
	if session == nil {
		session = NewSession(2)
	}
	form := NewForm()
	form.Lock(AllFields()...)
	e := &Editor{
		deps:    deps,
		guard:   newInflight(),
		session: session,
		form:    form,
	}
	e.addresses = NewAddressManager(deps.Gateway, AddressConfig{
		Validator: deps.Validator,
		Cities:    deps.Cities,
		Cursor:    &session.AddressPage,
		Logger:    deps.Logger,
		Metrics:   deps.Metrics,
	})
	return e
}

// Addresses exposes the address sub-flow.
func (e *Editor) Addresses() *AddressManager { return e.addresses }

// Value returns the current value of a form field.
func (e *Editor) Value(f Field) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.Value(f)
}

// Values returns a snapshot of the form.
func (e *Editor) Values() Values {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.Values()
}

// Locked reports whether field rejects input.
func (e *Editor) Locked(f Field) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.Locked(f)
}

// Touched reports whether field errors should render.
func (e *Editor) Touched(f Field) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.Touched(f)
}

func (e *Editor) CurrentStep() Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.CurrentStep
}

func (e *Editor) IsEditing(s Step) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Editing[s]
}

// Backup returns the snapshot taken when edit mode was last entered or saved.
func (e *Editor) Backup() Values {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Backup.Clone()
}

func (e *Editor) Ended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Ended()
}

// Customer returns the loaded customer as last saved.
func (e *Editor) Customer() domain.Customer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.customer
}

// ContactMediumID returns the id of the shown contact medium, or "" when none exists yet.
func (e *Editor) ContactMediumID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.contactID
}

// Accounts returns the billing accounts of the loaded customer. The account step is
// read-only.
func (e *Editor) Accounts() []domain.BillingAccount {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.BillingAccount(nil), e.accounts...)
}

// OpenedAccount returns the account number whose details are expanded, or "".
func (e *Editor) OpenedAccount() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opened
}

// ToggleAccount expands the details of accountNumber, or collapses them when it is
// already expanded. Expanding one account collapses any other.
func (e *Editor) ToggleAccount(accountNumber string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Ended() {
		return ErrSessionEnded
	}
	if e.opened == accountNumber {
		e.opened = ""
		return nil
	}
	for _, a := range e.accounts {
		if a.AccountNumber == accountNumber {
			e.opened = accountNumber
			return nil
		}
	}
	return ErrAccountNotFound
}

// SetField writes user input into an unlocked field.
func (e *Editor) SetField(f Field, value string) error {
	if step := stepOf(f); step != 0 && e.guard.pending(stepScope(step)) {
		return ErrBusy
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Ended() {
		return ErrSessionEnded
	}
	return e.form.Set(f, value)
}

// LoadCustomerData loads the customer named by the handoff store.
func (e *Editor) LoadCustomerData(ctx context.Context) error {
	release, err := e.guard.acquire("load")
	if err != nil {
		return err
	}
	defer release()
	if e.Ended() {
		return ErrSessionEnded
	}

	filter, err := e.selection(ctx)
	if err != nil {
		return err
	}
	records, err := e.deps.Gateway.ListCustomers(ctx, filter)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrCustomerNotFound
	}
	if err != nil {
		e.deps.Logger.Warn("customer load failed", zap.Error(err))
		return &RemoteError{Op: gateway.OpListCustomers, Cause: err}
	}
	if len(records) == 0 {
		return ErrCustomerNotFound
	}
	rec := records[0]
	values := RecordValues(rec)

	e.mu.Lock()
	e.customer = rec.Customer
	e.contactID = ""
	if len(rec.ContactMediums) > 0 {
		e.contactID = rec.ContactMediums[0].ID
	}
	e.accounts = append([]domain.BillingAccount(nil), rec.BillingAccounts...)
	e.opened = ""
	e.form.Patch(values)
	e.form.Lock(AllFields()...)
	e.form.MarkPristine()
	e.form.MarkUntouched()
	e.session.Editing = make(map[Step]bool)
	e.session.Backup = values.Clone()
	e.mu.Unlock()

	e.addresses.Load(rec.ID, rec.Addresses)

	if _, err := e.deps.Cities.List(ctx); err != nil {
		e.deps.Logger.Warn("city list unavailable", zap.Error(err))
	}
	e.deps.Logger.Info("customer loaded",
		zap.String("customer_id", rec.ID), zap.Int("addresses", len(rec.Addresses)))
	return nil
}

func (e *Editor) selection(ctx context.Context) (domain.CustomerFilter, error) {
	id, err := e.deps.Handoff.Get(ctx, handoff.SelectedCustomerID)
	if err == nil && id != "" {
		return domain.CustomerFilter{ID: id}, nil
	}
	if err != nil && !errors.Is(err, handoff.ErrNotSet) {
		return domain.CustomerFilter{}, fmt.Errorf("read handoff: %w", err)
	}
	number, err := e.deps.Handoff.Get(ctx, handoff.SelectedCustomerNumber)
	if err == nil && number != "" {
		return domain.CustomerFilter{CustomerNumber: number}, nil
	}
	if err != nil && !errors.Is(err, handoff.ErrNotSet) {
		return domain.CustomerFilter{}, fmt.Errorf("read handoff: %w", err)
	}
	return domain.CustomerFilter{}, ErrNoCustomerSelected
}

// SelectStep moves the wizard to target.
func (e *Editor) SelectStep(target Step) error {
	if !target.Valid() {
		return ErrUnknownStep
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Ended() {
		return ErrSessionEnded
	}
	current := e.session.CurrentStep
	if target == current {
		return nil
	}
	if editing, ok := e.session.EditingStep(); ok {
		e.deps.Logger.Warn("step change rejected: step in edit mode",
			zap.Stringer("from", current), zap.Stringer("to", target), zap.Stringer("editing", editing))
		return ErrStepLocked
	}
	if e.addresses.FormOpen() {
		e.deps.Logger.Warn("step change rejected: address form open",
			zap.Stringer("from", current), zap.Stringer("to", target))
		return ErrSubFormOpen
	}
	e.session.CurrentStep = target
	if target == StepAddress {
		e.addresses.resetPage()
	}
	return nil
}

// EnableEdit unlocks the fields of step and snapshots the form.
func (e *Editor) EnableEdit(step Step) error {
	if !step.Valid() {
		return ErrUnknownStep
	}
	if !step.Editable() {
		return ErrStepReadOnly
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Ended() {
		return ErrSessionEnded
	}
	if e.customer.ID == "" {
		return ErrNoCustomerSelected
	}
	if editing, ok := e.session.EditingStep(); ok {
		if editing == step {
			return nil
		}
		return ErrStepLocked
	}
	e.session.Backup = e.form.Values()
	e.session.Editing[step] = true
	e.form.Unlock(step.Fields()...)
	return nil
}

// CancelEdit restores the snapshot and locks the fields of step again.
func (e *Editor) CancelEdit(step Step) error {
	if e.guard.pending(stepScope(step)) {
		return ErrBusy
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.session.Editing[step] {
		return ErrNotEditing
	}
	e.restore(step)
	return nil
}

// restore must be called with e.mu held.
func (e *Editor) restore(step Step) {
	e.form.Patch(e.session.Backup)
	e.leaveEdit(step)
}

func (e *Editor) leaveEdit(step Step) {
	e.form.Lock(step.Fields()...)
	delete(e.session.Editing, step)
	e.form.MarkPristine()
	e.form.MarkUntouched()
}

// SaveChanges validates and persists the fields of step. A remote failure restores the
// snapshot; either way the step leaves edit mode.
func (e *Editor) SaveChanges(ctx context.Context, step Step) error {
	if !step.Valid() {
		return ErrUnknownStep
	}
	if !step.Editable() {
		return ErrStepReadOnly
	}
	release, err := e.guard.acquire(stepScope(step))
	if err != nil {
		return err
	}
	defer release()

	e.mu.Lock()
	if e.session.Ended() {
		e.mu.Unlock()
		return ErrSessionEnded
	}
	if !e.session.Editing[step] {
		e.mu.Unlock()
		return ErrNotEditing
	}
	values := e.form.Values()
	if errs := e.validate(step, values); errs != nil {
		e.form.Touch(step.Fields()...)
		e.mu.Unlock()
		return &ValidationError{Scope: step.String(), Fields: errs}
	}
	customer := e.customer
	contactID := e.contactID
	e.mu.Unlock()

	var (
		updated   domain.Customer
		createdID string
		op        Op
	)
	switch step {
	case StepDemographic:
		updated = values.Customer()
		updated.ID = customer.ID
		updated.CustomerNumber = customer.CustomerNumber
		updated.CreatedAt = customer.CreatedAt
		op = Op{Name: gateway.OpUpdateCustomer, Run: func(ctx context.Context) error {
			return e.deps.Gateway.UpdateCustomer(ctx, customer.ID, updated)
		}}
	case StepContact:
		cm := values.ContactMedium(customer.ID)
		if contactID != "" {
			cm.ID = contactID
			op = Op{Name: gateway.OpUpdateContactMedium, Run: func(ctx context.Context) error {
				return e.deps.Gateway.UpdateContactMedium(ctx, contactID, cm)
			}}
		} else {
			op = Op{Name: gateway.OpCreateContactMedium, Run: func(ctx context.Context) error {
				id, err := e.deps.Gateway.CreateContactMedium(ctx, cm)
				createdID = id
				return err
			}}
		}
	}

	out := RunSequential(ctx, op)
	e.deps.Metrics.ObservePipeline("update_"+step.String(), out.Status.String(), StageNone.String())

	e.mu.Lock()
	defer e.mu.Unlock()
	if !out.Succeeded() {
		e.restore(step)
		e.deps.Logger.Warn("step save failed, changes rolled back",
			zap.Stringer("step", step), zap.String("customer_id", customer.ID), zap.Error(out.Cause))
		return out.Err()
	}

	e.form.Patch(values)
	e.leaveEdit(step)
	e.session.Backup = e.form.Values()
	switch step {
	case StepDemographic:
		e.customer = updated
	case StepContact:
		if createdID != "" {
			e.contactID = createdID
		}
	}
	e.deps.Logger.Info("step saved", zap.Stringer("step", step), zap.String("customer_id", customer.ID))
	return nil
}

func (e *Editor) validate(step Step, v Values) validation.FieldErrors {
	switch step {
	case StepDemographic:
		return e.deps.Validator.Struct(v.demographic())
	case StepContact:
		return e.deps.Validator.Struct(v.contact())
	default:
		return nil
	}
}

// DeleteCustomer deletes the loaded customer and ends the session.
func (e *Editor) DeleteCustomer(ctx context.Context) error {
	release, err := e.guard.acquire("customer")
	if err != nil {
		return err
	}
	defer release()

	e.mu.Lock()
	if e.session.Ended() {
		e.mu.Unlock()
		return ErrSessionEnded
	}
	id := e.customer.ID
	e.mu.Unlock()
	if id == "" {
		return ErrNoCustomerSelected
	}

	if err := e.deps.Gateway.DeleteCustomer(ctx, id); err != nil {
		e.deps.Logger.Warn("customer delete failed", zap.String("customer_id", id), zap.Error(err))
		return &RemoteError{Op: gateway.OpDeleteCustomer, Cause: err}
	}

	e.mu.Lock()
	e.session.ended = true
	e.session.Editing = make(map[Step]bool)
	e.form.Lock(AllFields()...)
	e.customer = domain.Customer{}
	e.contactID = ""
	e.accounts = nil
	e.opened = ""
	e.mu.Unlock()
	e.addresses.Reset()

	if err := e.deps.Handoff.Clear(ctx, handoff.Keys...); err != nil {
		e.deps.Logger.Warn("handoff clear failed", zap.Error(err))
	}
	e.deps.Logger.Info("customer deleted", zap.String("customer_id", id))
	return nil
}
