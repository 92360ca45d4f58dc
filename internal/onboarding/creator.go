package onboarding

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"customer-onboarding/internal/handoff"
	"customer-onboarding/internal/pagination"
	"customer-onboarding/internal/validation"
)

// creationSteps are the pages of the create wizard. Accounts only exist after creation.
var creationSteps = []Step{StepDemographic, StepAddress, StepContact}

// CreatorConfig tunes a Creator.
type CreatorConfig struct {
	Mode            Mode
	Compensate      bool
	AddressPageSize int
}

// Creator drives the create-customer wizard. Addresses are drafted locally and only sent
// once the customer exists.
type Creator struct {
	deps      Deps
	pipeline  *Pipeline
	addresses *AddressManager
	guard     *inflight

	mu         sync.Mutex
	form       *Form
	cursor     pagination.Cursor
	index      int
	customerID string
}

func NewCreator(deps Deps, cfg CreatorConfig) *Creator {
	deps = deps.withDefaults()
	if cfg.AddressPageSize <= 0 {
		cfg.AddressPageSize = 2
	}
	c := &Creator{
		deps:   deps,
		guard:  newInflight(),
		form:   NewForm(),
		cursor: pagination.NewCursor(cfg.AddressPageSize),
		pipeline: NewPipeline(deps.Gateway, PipelineConfig{
			Mode:       cfg.Mode,
			Compensate: cfg.Compensate,
			Logger:     deps.Logger,
			Metrics:    deps.Metrics,
		}),
	}
	c.addresses = NewDraftAddressManager(AddressConfig{
		Validator: deps.Validator,
		Cities:    deps.Cities,
		Cursor:    &c.cursor,
		Logger:    deps.Logger,
		Metrics:   deps.Metrics,
	})
	return c
}

// Step returns the current wizard page.
func (c *Creator) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return creationSteps[c.index]
}

// Form exposes the customer form. Callers must not use it concurrently with Submit.
func (c *Creator) Form() *Form { return c.form }

// Addresses exposes the draft address list.
func (c *Creator) Addresses() *AddressManager { return c.addresses }

// CustomerID returns the id of the created customer, or "".
func (c *Creator) CustomerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.customerID
}

// SetField writes user input.
func (c *Creator) SetField(f Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Set(f, value)
}

func (c *Creator) validateStep(step Step) validation.FieldErrors {
	v := c.form.Values()
	switch step {
	case StepDemographic:
		return c.deps.Validator.Struct(v.demographic())
	case StepContact:
		return c.deps.Validator.Struct(v.contact())
	default:
		return nil
	}
}

// Next validates the current page and advances. It is a no-op on the last page.
func (c *Creator) Next() error {
	if c.addresses.FormOpen() {
		return ErrSubFormOpen
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	step := creationSteps[c.index]
	if errs := c.validateStep(step); errs != nil {
		c.form.Touch(step.Fields()...)
		return &ValidationError{Scope: step.String(), Fields: errs}
	}
	if c.index < len(creationSteps)-1 {
		c.index++
	}
	return nil
}

// Prev goes back one page. It is a no-op on the first page.
func (c *Creator) Prev() error {
	if c.addresses.FormOpen() {
		return ErrSubFormOpen
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index > 0 {
		c.index--
	}
	return nil
}

// Submit validates every page and runs the creation pipeline. The returned error covers
// local preconditions only; remote failures are reported through the outcome.
func (c *Creator) Submit(ctx context.Context) (CreationOutcome, error) {
	release, err := c.guard.acquire("submit")
	if err != nil {
		return CreationOutcome{}, err
	}
	defer release()

	if c.addresses.FormOpen() {
		return CreationOutcome{}, ErrSubFormOpen
	}

	c.mu.Lock()
	if c.customerID != "" {
		c.mu.Unlock()
		return CreationOutcome{}, ErrAlreadyCreated
	}
	errs := validation.FieldErrors{}
	for _, step := range creationSteps {
		for f, msg := range c.validateStep(step) {
			errs[f] = msg
		}
	}
	if len(errs) > 0 {
		c.form.Touch(AllFields()...)
		c.mu.Unlock()
		return CreationOutcome{}, &ValidationError{Scope: "customer", Fields: errs}
	}
	values := c.form.Values()
	c.mu.Unlock()

	out := c.pipeline.Create(ctx, CreateRequest{
		Customer:  values.Customer(),
		Contact:   values.ContactMedium(""),
		Addresses: c.addresses.Items(),
	})
	if out.CustomerID == "" {
		return out, nil
	}

	c.mu.Lock()
	c.customerID = out.CustomerID
	c.mu.Unlock()
	c.addresses.bind(out.CustomerID, out.AddressIDs)

	if out.Succeeded() {
		if err := c.deps.Handoff.Set(ctx, handoff.SelectedCustomerID, out.CustomerID); err != nil {
			c.deps.Logger.Warn("handoff write failed", zap.String("customer_id", out.CustomerID), zap.Error(err))
		}
		c.deps.Logger.Info("customer created",
			zap.String("customer_id", out.CustomerID), zap.Int("addresses", len(out.AddressIDs)))
	}
	return out, nil
}
