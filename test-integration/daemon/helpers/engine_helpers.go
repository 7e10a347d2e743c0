package helpers

import (
	"context"

	"github.com/bwt-dev/libbwt-go/pkg/config"
	"github.com/bwt-dev/libbwt-go/pkg/engine"
)

// BootFunc implements engine.Engine.Boot for a ScriptedEngine
type BootFunc func(ctx context.Context, cfg *config.Config, progress engine.ProgressSender) (engine.App, error)

// ScriptedEngine is an in-process engine driven by test code
type ScriptedEngine struct {
	OnBoot    BootFunc
	OnTestRPC func(ctx context.Context, cfg *config.Config) error
}

// Boot implements engine.Engine
func (e *ScriptedEngine) Boot(ctx context.Context, cfg *config.Config, progress engine.ProgressSender) (engine.App, error) {
	return e.OnBoot(ctx, cfg, progress)
}

// TestRPC implements engine.Engine
func (e *ScriptedEngine) TestRPC(ctx context.Context, cfg *config.Config) error {
	if e.OnTestRPC == nil {
		return nil
	}
	return e.OnTestRPC(ctx, cfg)
}

// ScriptedApp is a booted ScriptedEngine. Without OnSync it waits for
// shutdown.
type ScriptedApp struct {
	Electrum string
	HTTP     string
	OnSync   func(shutdown <-chan struct{}) error
}

// ElectrumAddr implements engine.App
func (a *ScriptedApp) ElectrumAddr() (string, bool) {
	return a.Electrum, a.Electrum != ""
}

// HTTPAddr implements engine.App
func (a *ScriptedApp) HTTPAddr() (string, bool) {
	return a.HTTP, a.HTTP != ""
}

// Sync implements engine.App
func (a *ScriptedApp) Sync(shutdown <-chan struct{}) error {
	if a.OnSync != nil {
		return a.OnSync(shutdown)
	}
	<-shutdown
	return nil
}
