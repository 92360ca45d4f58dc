package onboarding

import (
	"context"

	"go.uber.org/zap"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/gateway"
	"customer-onboarding/internal/metrics"
)

// Stage locates a creation failure.
type Stage int

const (
	StageNone Stage = iota
	// StageCustomer: the customer call failed and nothing was created.
	StageCustomer
	// StageDependents: the customer exists but an address or contact call failed.
	StageDependents
)

func (s Stage) String() string {
	switch s {
	case StageCustomer:
		return "customer"
	case StageDependents:
		return "dependents"
	default:
		return "none"
	}
}

// CreateRequest is everything needed to create one customer.
type CreateRequest struct {
	Customer  domain.Customer
	Contact   domain.ContactMedium
	Addresses []domain.Address
}

// CreationOutcome is the result of a creation pipeline run.
type CreationOutcome struct {
	Outcome
	Stage           Stage
	CustomerID      string
	AddressIDs      []string // by request index, "" where the call did not succeed
	ContactMediumID string
	Compensated     bool
	CompensationErr error
}

// Err returns the failure as a *RemoteError tagged with its stage, or nil.
func (o CreationOutcome) Err() error {
	if o.Succeeded() {
		return nil
	}
	return &RemoteError{Op: o.FailedOp, Stage: o.Stage, Cause: o.Cause}
}

// Message renders the outcome for display.
func (o CreationOutcome) Message() string {
	switch {
	case o.Succeeded():
		return "Customer created."
	case o.Compensated:
		return "Customer could not be created. " + gateway.UserMessage(o.Cause)
	default:
		return UserMessage(o.Err())
	}
}

// PipelineConfig tunes a Pipeline.
type PipelineConfig struct {
	Mode       Mode
	Compensate bool
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Pipeline creates a customer, then its addresses and contact medium.
type Pipeline struct {
	gw         gateway.RecordGateway
	mode       Mode
	compensate bool
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func NewPipeline(gw gateway.RecordGateway, cfg PipelineConfig) *Pipeline {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pipeline{
		gw:         gw,
		mode:       cfg.Mode,
		compensate: cfg.Compensate,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// Create runs the creation pipeline. Dependents are only dispatched after the customer
// call returned an id. It never panics and always returns an outcome.
func (p *Pipeline) Create(ctx context.Context, req CreateRequest) CreationOutcome {
	out := p.create(ctx, req)
	p.metrics.ObservePipeline("create", out.Status.String(), out.Stage.String())
	if !out.Succeeded() {
		p.logger.Warn("customer creation failed",
			zap.String("stage", out.Stage.String()),
			zap.String("operation", out.FailedOp),
			zap.String("customer_id", out.CustomerID),
			zap.Bool("compensated", out.Compensated),
			zap.Error(out.Cause))
	}
	return out
}

func (p *Pipeline) create(ctx context.Context, req CreateRequest) (out CreationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out.Status = StatusFailed
			out.Cause = errPanic(r)
			out.Stage = StageDependents
			if out.CustomerID == "" {
				out.Stage = StageCustomer
				out.FailedOp = gateway.OpCreateCustomer
			}
		}
	}()

	id, err := p.gw.CreateCustomer(ctx, req.Customer)
	if err != nil {
		out.Status = StatusFailed
		out.Stage = StageCustomer
		out.FailedOp = gateway.OpCreateCustomer
		out.Cause = err
		return out
	}
	out.CustomerID = id

	out.AddressIDs = make([]string, len(req.Addresses))
	ops := make([]Op, 0, len(req.Addresses)+1)
	for i, a := range req.Addresses {
		a.ID = ""
		a.CustomerID = id
		ops = append(ops, Op{Name: gateway.OpCreateAddress, Run: func(ctx context.Context) error {
			aid, err := p.gw.CreateAddress(ctx, a)
			if err != nil {
				return err
			}
			out.AddressIDs[i] = aid
			return nil
		}})
	}
	var contactID string
	if req.Contact != (domain.ContactMedium{}) {
		cm := req.Contact
		cm.ID = ""
		cm.CustomerID = id
		ops = append(ops, Op{Name: gateway.OpCreateContactMedium, Run: func(ctx context.Context) error {
			cid, err := p.gw.CreateContactMedium(ctx, cm)
			if err != nil {
				return err
			}
			contactID = cid
			return nil
		}})
	}

	out.Outcome = Run(ctx, p.mode, ops...)
	out.ContactMediumID = contactID
	if out.Succeeded() {
		return out
	}
	out.Stage = StageDependents

	if p.compensate {
		if err := p.gw.DeleteCustomer(ctx, id); err != nil {
			out.CompensationErr = err
			p.logger.Error("compensating delete failed", zap.String("customer_id", id), zap.Error(err))
		} else {
			out.Compensated = true
			out.CustomerID = ""
			out.AddressIDs = make([]string, len(req.Addresses))
			out.ContactMediumID = ""
		}
	}
	return out
}
