package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bwt-dev/libbwt-go/pkg/config"
	"github.com/bwt-dev/libbwt-go/pkg/engine"
)

type stringer struct{}

func (stringer) String() string { return "stringer panic" }

func TestContain(t *testing.T) {
	t.Parallel()

	rpcErr := errors.New("connection refused")

	tests := []struct {
		name     string
		fn       func() error
		wantNil  bool
		wantKind Kind
		wantMsg  string
	}{
		{
			name:    "success",
			fn:      func() error { return nil },
			wantNil: true,
		},
		{
			name:    "cancellation is success",
			fn:      func() error { return engine.ErrCanceled },
			wantNil: true,
		},
		{
			name:    "wrapped cancellation is success",
			fn:      func() error { return fmt.Errorf("boot aborted: %w", engine.ErrCanceled) },
			wantNil: true,
		},
		{
			name:    "canceled fault is success",
			fn:      func() error { return New(KindCanceled, "canceled", nil) },
			wantNil: true,
		},
		{
			name: "invalid config",
			fn: func() error {
				_, err := config.Parse("{")
				return err
			},
			wantKind: KindInvalidConfig,
		},
		{
			name:     "engine error chain",
			fn: func() error {
				return fmt.Errorf("failed to boot engine: %w", fmt.Errorf("rpc unavailable: %w", rpcErr))
			},
			wantKind: KindEngineFailure,
			wantMsg:  "failed to boot engine: rpc unavailable: connection refused",
		},
		{
			name:     "existing fault is kept",
			fn:       func() error { return New(KindBridgeFault, "relay failed", nil) },
			wantKind: KindBridgeFault,
			wantMsg:  "relay failed",
		},
		{
			name:     "string panic",
			fn:       func() error { panic("boom") },
			wantKind: KindBridgeFault,
			wantMsg:  "boom",
		},
		{
			name:     "error panic",
			fn:       func() error { panic(fmt.Errorf("outer: %w", rpcErr)) },
			wantKind: KindBridgeFault,
			wantMsg:  "outer: connection refused",
		},
		{
			name:     "stringer panic",
			fn:       func() error { panic(stringer{}) },
			wantKind: KindBridgeFault,
			wantMsg:  "stringer panic",
		},
		{
			name:     "opaque panic",
			fn:       func() error { panic(42) },
			wantKind: KindBridgeFault,
			wantMsg:  UnknownPanic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Contain(tt.fn)
			if tt.wantNil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var ferr *Error
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.wantKind, ferr.Kind())
			assert.NotEqual(t, engine.ErrCanceled.Error(), ferr.Error())
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, ferr.Error())
			}
		})
	}
}

func TestContain_InvalidConfigMessage(t *testing.T) {
	t.Parallel()

	err := Contain(func() error {
		_, err := config.Parse("not a document")
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid config")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestFormatChain(t *testing.T) {
	t.Parallel()

	root := errors.New("root cause")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "single", err: root, want: "root cause"},
		{name: "wrapped", err: fmt.Errorf("middle: %w", root), want: "middle: root cause"},
		{
			name: "deep",
			err:  fmt.Errorf("top: %w", fmt.Errorf("middle: %w", root)),
			want: "top: middle: root cause",
		},
		{
			name: "wrapper with its own message",
			err:  &wrapped{msg: "context", cause: root},
			want: "context: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatChain(tt.err))
		})
	}
}

type wrapped struct {
	msg   string
	cause error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.cause }

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "InvalidConfig", KindInvalidConfig.String())
	assert.Equal(t, "Canceled", KindCanceled.String())
	assert.Equal(t, "EngineFailure", KindEngineFailure.String())
	assert.Equal(t, "BridgeFault", KindBridgeFault.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", want: KindCanceled},
		{name: "canceled", err: fmt.Errorf("boot: %w", engine.ErrCanceled), want: KindCanceled},
		{name: "invalid config", err: fmt.Errorf("parse: %w", config.ErrInvalidConfig), want: KindInvalidConfig},
		{name: "engine failure", err: errors.New("connection refused"), want: KindEngineFailure},
		{name: "bridge fault kept", err: New(KindBridgeFault, "engine exploded", nil), want: KindBridgeFault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
