// Package shutdown implements the cooperative cancellation pair handed out
// for every run: a Handle owned by the host and a Signal observed by the
// engine.
//
// The Handle owns the send side of a capacity-1 channel. Triggering it sends
// once, closing it closes the channel; either way the Signal fires. When it
// fires the completion action pushes Done into the progress queue, which
// stops the progress relay, and cancels the Signal context.
package shutdown

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bwt-dev/libbwt-go/internal/oneshot"
	"github.com/bwt-dev/libbwt-go/pkg/engine"
)

// Handle is the host's end of the shutdown pair. All methods are safe for
// concurrent use and idempotent.
type Handle struct {
	mu        sync.Mutex
	tx        chan struct{}
	sent      bool
	closed    bool
	requested *atomic.Bool
}

// Trigger requests shutdown. Only the first call has an effect; calling it
// after Close is a no-op.
func (h *Handle) Trigger() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sent || h.closed {
		return
	}
	h.sent = true
	h.requested.Store(true)
	h.tx <- struct{}{}
}

// Close destroys the handle. Destroying an untriggered handle requests
// shutdown the same way Trigger does.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	h.requested.Store(true)
	close(h.tx)
	return nil
}

// Signal is the engine's end of the shutdown pair
type Signal struct {
	// C fires (value or close) when shutdown is requested. It is passed to
	// App.Sync.
	C <-chan struct{}

	ctx       context.Context
	release   context.CancelFunc
	requested *atomic.Bool
}

// New creates a linked Handle and Signal. When shutdown fires, Done is sent
// through sender and the Signal context is canceled. parent bounds the
// lifetime of the Signal context.
func New(parent context.Context, sender engine.ProgressSender) (*Handle, *Signal) {
	tx := make(chan struct{}, 1)
	requested := &atomic.Bool{}

	ctx, cancel := context.WithCancel(parent)
	watchCtx, release := context.WithCancel(context.Background())

	s := &Signal{
		ctx:       ctx,
		requested: requested,
		release: func() {
			release()
			cancel()
		},
	}
	s.C = oneshot.Wrap(watchCtx, tx, func() {
		// The relay may already be gone, in which case there is nobody to stop
		_ = sender.Send(engine.Done())
		cancel()
	})

	return &Handle{tx: tx, requested: requested}, s
}

// Requested reports without blocking whether the host has triggered or
// closed the Handle. It turns true as soon as Trigger or Close returns, even
// if the completion action has not run yet.
func (s *Signal) Requested() bool {
	return s.requested.Load()
}

// Context is canceled once shutdown fires or the Signal is released
func (s *Signal) Context() context.Context {
	return s.ctx
}

// Release abandons the Signal at the end of a run. The watcher goroutine
// exits and the completion action runs if it has not already.
func (s *Signal) Release() {
	s.release()
}
