package onboarding

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Op is one remote call of a pipeline.
type Op struct {
	Name string
	Run  func(ctx context.Context) error
}

// Mode selects how dependent operations are dispatched.
type Mode int

const (
	ModeParallel Mode = iota
	ModeSequential
)

func (m Mode) String() string {
	if m == ModeSequential {
		return "sequential"
	}
	return "parallel"
}

// ParseMode parses "parallel" or "sequential".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "parallel":
		return ModeParallel, nil
	case "sequential":
		return ModeSequential, nil
	default:
		return 0, fmt.Errorf("unknown pipeline mode %q", s)
	}
}

// Status is the terminal state of a pipeline run.
type Status int

const (
	StatusSucceeded Status = iota
	StatusFailed
)

func (s Status) String() string {
	if s == StatusFailed {
		return "failed"
	}
	return "succeeded"
}

// Outcome is the aggregated result of a pipeline run.
type Outcome struct {
	Status    Status
	FailedOp  string
	Cause     error
	Completed []string
}

// Succeeded reports whether every operation completed.
func (o Outcome) Succeeded() bool { return o.Status == StatusSucceeded }

// Err returns the failure as a *RemoteError, or nil.
func (o Outcome) Err() error {
	if o.Succeeded() {
		return nil
	}
	return &RemoteError{Op: o.FailedOp, Cause: o.Cause}
}

type opError struct {
	op  string
	err error
}

func (e *opError) Error() string { return e.op + ": " + e.err.Error() }

func errPanic(r any) error { return fmt.Errorf("panic: %v", r) }

func invoke(ctx context.Context, op Op) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errPanic(r)
		}
	}()
	return op.Run(ctx)
}

// RunSequential runs ops in order and stops at the first failure.
func RunSequential(ctx context.Context, ops ...Op) Outcome {
	out := Outcome{Status: StatusSucceeded}
	for _, op := range ops {
		if err := invoke(ctx, op); err != nil {
			out.Status = StatusFailed
			out.FailedOp = op.Name
			out.Cause = err
			return out
		}
		out.Completed = append(out.Completed, op.Name)
	}
	return out
}

// RunParallel dispatches all ops concurrently and waits for every one of them.
// The outcome carries the first failure observed; started operations are not cancelled.
func RunParallel(ctx context.Context, ops ...Op) Outcome {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		done = make([]bool, len(ops))
	)
	for i, op := range ops {
		g.Go(func() error {
			if err := invoke(ctx, op); err != nil {
				return &opError{op: op.Name, err: err}
			}
			mu.Lock()
			done[i] = true
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	out := Outcome{Status: StatusSucceeded}
	for i, op := range ops {
		if done[i] {
			out.Completed = append(out.Completed, op.Name)
		}
	}
	if err != nil {
		oe := err.(*opError)
		out.Status = StatusFailed
		out.FailedOp = oe.op
		out.Cause = oe.err
	}
	return out
}

// Run dispatches ops in the given mode.
func Run(ctx context.Context, mode Mode, ops ...Op) Outcome {
	if mode == ModeSequential {
		return RunSequential(ctx, ops...)
	}
	return RunParallel(ctx, ops...)
}
