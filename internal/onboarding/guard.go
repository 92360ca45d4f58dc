package onboarding

import "sync"

// inflight rejects re-entrant calls per scope while a remote operation is pending.
type inflight struct {
	mu   sync.Mutex
	busy map[string]bool
}

func newInflight() *inflight {
	return &inflight{busy: make(map[string]bool)}
}

// acquire marks scope busy. The returned release must be called exactly once.
func (g *inflight) acquire(scope string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[scope] {
		return nil, ErrBusy
	}
	g.busy[scope] = true
	return func() {
		g.mu.Lock()
		delete(g.busy, scope)
		g.mu.Unlock()
	}, nil
}

func (g *inflight) pending(scope string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy[scope]
}
