package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
)

// saga collects the undo action of every completed step of a multi-system
// write (identity provider, object store, database). On failure the undo
// actions run in reverse order; the ones that fail are all reported.
type saga struct {
	name  string
	steps []sagaStep
}

type sagaStep struct {
	name string
	undo func(ctx context.Context) error
}

func newSaga(name string) *saga {
	return &saga{name: name}
}

// onRollback registers 'undo' for a step that just succeeded.
func (s *saga) onRollback(step string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, sagaStep{name: step, undo: undo})
}

// rollback runs every registered undo, last first, even when some of them
// fail. It detaches from the caller's cancellation so a dropped request
// still cleans up.
func (s *saga) rollback(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			log.Errorf("%s: failed to undo %s: %v", s.name, step.name, err)
			errs = append(errs, fmt.Errorf("undo %s: %w", step.name, err))
		}
	}
	s.steps = nil
	return errors.Join(errs...)
}
