package onboarding

import "customer-onboarding/internal/pagination"

// Session is the ephemeral state of one edit wizard. It is owned by a single Editor and
// never persisted.
type Session struct {
	CurrentStep Step
	Editing     map[Step]bool
	Backup      Values
	AddressPage pagination.Cursor
	ended       bool
}

// NewSession returns a session on the first step with the given address page size.
func NewSession(addressPageSize int) *Session {
	if addressPageSize <= 0 {
		addressPageSize = 2
	}
	return &Session{
		CurrentStep: StepDemographic,
		Editing:     make(map[Step]bool),
		Backup:      Values{},
		AddressPage: pagination.NewCursor(addressPageSize),
	}
}

// EditingStep returns the step currently in edit mode, if any.
func (s *Session) EditingStep() (Step, bool) {
	for _, step := range Steps {
		if s.Editing[step] {
			return step, true
		}
	}
	return 0, false
}

// Ended reports whether the session was terminated by deleting its customer.
func (s *Session) Ended() bool { return s.ended }
