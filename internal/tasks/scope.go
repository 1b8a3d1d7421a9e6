// Package tasks runs background work inside a cancellable scope, usually one
// per open screen. Closing the scope cancels outstanding work and waits for
// it, so late completions cannot write into state that is no longer shown.
package tasks

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	once sync.Once
	err  error
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context is cancelled when the scope closes.
func (s *Scope) Context() context.Context { return s.ctx }

// Go runs fn in the background. A failing task does not cancel its siblings.
func (s *Scope) Go(fn func(ctx context.Context) error) {
	s.group.Go(func() error {
		if s.ctx.Err() != nil {
			return nil
		}
		return fn(s.ctx)
	})
}

// Wait blocks until every task has finished and returns the first error.
func (s *Scope) Wait() error {
	return s.group.Wait()
}

// Close cancels the scope and waits for its tasks. It is safe to call twice.
func (s *Scope) Close() error {
	s.once.Do(func() {
		s.cancel()
		s.err = s.group.Wait()
	})
	return s.err
}

// Active reports whether the scope is still open.
func (s *Scope) Active() bool { return s.ctx.Err() == nil }
