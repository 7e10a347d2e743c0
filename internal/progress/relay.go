package progress

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/bwt-dev/libbwt-go/pkg/engine"
)

// Sink receives forwarded progress. Implementations are host callbacks.
type Sink interface {
	OnSyncProgress(progress float32, tip int32)
	OnScanProgress(progress float32, eta int32)
}

// Attacher registers the calling OS thread with the host runtime. The
// returned detach function is called when the relay exits. A nil Attacher
// means the host needs no registration.
type Attacher interface {
	AttachCurrentThread() (detach func(), err error)
}

// Recorder observes every forwarded event
type Recorder interface {
	RecordProgress(ctx context.Context, event engine.Progress)
}

// Relay forwards events from a Queue to a Sink on a dedicated goroutine
type Relay struct {
	queue    *Queue
	sink     Sink
	attacher Attacher
	recorder Recorder
	logger   *slog.Logger

	done chan struct{}
	err  error
}

// Option configures a Relay
type Option func(*Relay)

// WithRecorder sets the recorder notified of each forwarded event
func WithRecorder(recorder Recorder) Option {
	return func(r *Relay) {
		r.recorder = recorder
	}
}

// WithLogger sets the relay logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// StartRelay starts the relay goroutine and waits until it has attached to
// the host and begun receiving. If attaching fails the queue is closed and
// the error returned.
func StartRelay(queue *Queue, sink Sink, attacher Attacher, opts ...Option) (*Relay, error) {
	r := &Relay{
		queue:    queue,
		sink:     sink,
		attacher: attacher,
		logger:   slog.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	started := make(chan error, 1)
	go r.run(started)

	if err := <-started; err != nil {
		<-r.done
		return nil, err
	}
	return r, nil
}

// Wait blocks until the relay goroutine has exited. It returns a non-nil
// error if a host callback panicked.
func (r *Relay) Wait() error {
	<-r.done
	return r.err
}

// Done is closed when the relay goroutine has exited
func (r *Relay) Done() <-chan struct{} {
	return r.done
}

func (r *Relay) run(started chan<- error) {
	defer close(r.done)

	// Host attachment is per OS thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if r.attacher != nil {
		detach, err := r.attacher.AttachCurrentThread()
		if err != nil {
			r.queue.Close()
			started <- fmt.Errorf("failed to attach progress relay to host: %w", err)
			return
		}
		if detach != nil {
			defer detach()
		}
	}

	defer r.queue.Close()
	defer func() {
		if p := recover(); p != nil {
			r.err = fmt.Errorf("progress callback panicked: %v", p)
			r.logger.Error("Progress relay stopped by a host callback failure", "panic", p)
		}
	}()

	started <- nil
	r.logger.Debug("Progress relay started")

	for {
		event, ok := r.queue.Receive()
		if !ok {
			r.logger.Debug("Progress channel disconnected, relay exiting")
			return
		}

		switch event.Kind {
		case engine.ProgressSync:
			r.sink.OnSyncProgress(event.Fraction, clampInt32(event.Value))
		case engine.ProgressScan:
			r.sink.OnScanProgress(event.Fraction, clampInt32(event.Value))
		case engine.ProgressDone:
			r.logger.Debug("Progress done, relay exiting")
			return
		default:
			r.logger.Warn("Ignoring unknown progress event", "kind", event.Kind.String())
			continue
		}

		if r.recorder != nil {
			r.recorder.RecordProgress(context.Background(), event)
		}
	}
}

// clampInt32 narrows v to the host's 32-bit integer range
func clampInt32(v uint64) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(v)
}
