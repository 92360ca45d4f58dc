package onboarding

import (
	"go.uber.org/zap"

	"customer-onboarding/internal/gateway"
	"customer-onboarding/internal/handoff"
	"customer-onboarding/internal/metrics"
	"customer-onboarding/internal/validation"
)

// Deps are the collaborators shared by the wizards.
type Deps struct {
	Gateway   gateway.RecordGateway
	Handoff   handoff.Store
	Validator *validation.Validator
	Cities    *CityDirectory
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

func (d Deps) withDefaults() Deps {
	if d.Handoff == nil {
		d.Handoff = handoff.NewMemory()
	}
	if d.Validator == nil {
		d.Validator = validation.New(validation.DefaultMinAge)
	}
	if d.Cities == nil && d.Gateway != nil {
		d.Cities = NewCityDirectory(d.Gateway)
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}
