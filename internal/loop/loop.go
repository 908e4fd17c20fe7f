// Package loop runs a page's DOM work on a single goroutine.
//
// Blocking work (network calls) runs on its own goroutine; the continuation it
// returns is executed by Run on the caller's goroutine, one at a time, in the
// order the work completed. Code running inside a continuation may therefore
// touch the page document without locking.
package loop

import (
	"context"
)

// Task performs blocking work and returns the continuation to run on the loop.
// A nil continuation is allowed.
type Task func(ctx context.Context) func()

// Loop is not safe for concurrent use: Go and Run must be called from the loop goroutine.
type Loop struct {
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan func()
	pending int
}

// New creates a loop whose tasks are bound to ctx.
func New(ctx context.Context) *Loop {
	ctx, cancel := context.WithCancel(ctx)
	return &Loop{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan func()),
	}
}

// Go starts task in the background.
func (l *Loop) Go(task Task) {
	l.pending++
	go func() {
		next := task(l.ctx)
		select {
		case l.done <- next:
		case <-l.ctx.Done():
		}
	}()
}

// Pending reports how many tasks have not delivered their continuation yet.
func (l *Loop) Pending() int {
	return l.pending
}

// Run executes continuations until no task is pending. If the context ends
// first, outstanding continuations are dropped and the context error is returned.
func (l *Loop) Run() error {
	defer l.cancel()

	for l.pending > 0 {
		select {
		case next := <-l.done:
			l.pending--
			if err := l.ctx.Err(); err != nil {
				return err
			}
			if next != nil {
				next()
			}
		case <-l.ctx.Done():
			return l.ctx.Err()
		}
	}

	return nil
}
