package engine

import (
	"context"
	"errors"

	"github.com/bwt-dev/libbwt-go/pkg/config"
)

//go:generate mockgen -destination=mocks/mock_engine.go -package=mocks -source=engine.go Engine,App,ProgressSender

// ErrCanceled is the cooperative cancellation marker. Errors wrapping it are
// not reported to the host.
var ErrCanceled = errors.New("canceled by user")

// ErrDisconnected is returned by ProgressSender.Send once the bridge stopped
// receiving progress. Engines should abort the boot when they see it.
var ErrDisconnected = errors.New("progress channel disconnected")

// Engine boots the wallet tracker
type Engine interface {
	// Boot runs the initial chain sync and wallet scan and starts the
	// configured servers. It blocks until the app is ready, ctx is canceled
	// or progress can no longer be delivered.
	Boot(ctx context.Context, cfg *config.Config, progress ProgressSender) (App, error)

	// TestRPC checks connectivity with the backing node
	TestRPC(ctx context.Context, cfg *config.Config) error
}

// App is a booted engine
type App interface {
	// ElectrumAddr returns the bound Electrum server address, if enabled
	ElectrumAddr() (string, bool)

	// HTTPAddr returns the bound HTTP server address, if enabled
	HTTPAddr() (string, bool)

	// Sync keeps the tracker in sync with the chain. It blocks until the
	// shutdown channel delivers a value or is closed.
	Sync(shutdown <-chan struct{}) error
}

// ProgressSender delivers progress events to the bridge
type ProgressSender interface {
	// Send queues an event. It never blocks and fails once the receiver is gone.
	Send(event Progress) error
}
