// Package fault contains failures at the host boundary.
//
// Contain runs a function, recovers any panic and maps the outcome to the
// error returned to the host: nil on success or cooperative cancellation,
// otherwise an *Error carrying one formatted message and a Kind.
package fault

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/bwt-dev/libbwt-go/pkg/config"
	"github.com/bwt-dev/libbwt-go/pkg/engine"
)

// Kind classifies a failure reported to the host
type Kind int

const (
	// KindInvalidConfig means the configuration document could not be parsed
	KindInvalidConfig Kind = iota + 1
	// KindCanceled means the run was canceled. It is never reported to the host.
	KindCanceled
	// KindEngineFailure means the engine returned an error
	KindEngineFailure
	// KindBridgeFault means a panic was recovered
	KindBridgeFault
)

// UnknownPanic is the message used for panic values that cannot be rendered
const UnknownPanic = "unknown panic"

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindInvalidConfig:
		return "InvalidConfig"
	case KindCanceled:
		return "Canceled"
	case KindEngineFailure:
		return "EngineFailure"
	case KindBridgeFault:
		return "BridgeFault"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the typed error surfaced to the host as an exception
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New returns an *Error of the given kind. cause may be nil.
func New(kind Kind, message string, cause error) *Error {
	return &Error{kind: kind, message: message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.message
}

// Kind returns the failure classification
func (e *Error) Kind() Kind {
	return e.kind
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.cause
}

// Contain runs fn and converts its outcome for the host
func Contain(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			slog.Debug("Recovered panic at host boundary", "panic", p, "stack", string(debug.Stack()))
			err = New(KindBridgeFault, FormatPanic(p), nil)
		}
	}()

	return Classify(fn())
}

// Classify maps an error returned by the bridge or the engine to the host
// error. Cancellation is the only error that maps to nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var ferr *Error
	switch {
	case errors.As(err, &ferr):
		if ferr.kind == KindCanceled {
			return nil
		}
		return ferr
	case errors.Is(err, engine.ErrCanceled):
		return nil
	case errors.Is(err, config.ErrInvalidConfig):
		return New(KindInvalidConfig, FormatChain(err), err)
	default:
		return New(KindEngineFailure, FormatChain(err), err)
	}
}

// KindOf returns the kind the host sees for err. Errors that Classify maps to
// nil report KindCanceled.
func KindOf(err error) Kind {
	var ferr *Error
	if errors.As(Classify(err), &ferr) {
		return ferr.kind
	}
	return KindCanceled
}

// FormatPanic renders a recovered panic value
func FormatPanic(p any) string {
	switch v := p.(type) {
	case string:
		return v
	case error:
		return FormatChain(v)
	case fmt.Stringer:
		return v.String()
	default:
		return UnknownPanic
	}
}

// FormatChain renders err and its causes outermost first, joined by ": ".
// Wrapping layers that already embed their cause's message contribute only
// their own prefix.
func FormatChain(err error) string {
	var parts []string
	for err != nil {
		msg := err.Error()
		next := errors.Unwrap(err)
		if next != nil {
			msg = strings.TrimSuffix(msg, ": "+next.Error())
		}
		parts = append(parts, msg)
		err = next
	}
	return strings.Join(parts, ": ")
}
