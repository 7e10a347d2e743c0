package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwt-dev/libbwt-go/pkg/config"
)

// ProgressNotifier receives the notifications of a Daemon. Progress stops
// being reported once the daemon is ready or shutting down.
type ProgressNotifier interface {
	OnBooting()
	OnSyncProgress(progress float32, tip time.Time)
	OnScanProgress(progress float32, eta time.Duration)
	OnReady(d *Daemon)
}

// ErrAlreadyRunning is returned by Daemon.Start while a previous run of the
// same Daemon has not returned yet
var ErrAlreadyRunning = errors.New("daemon is already running")

// Daemon runs the engine for a host that prefers an object to raw tokens.
// It keeps track of the shutdown token, so Shutdown may be called at any
// time, including before the engine started booting. A Daemon may be started
// again once Start has returned; a shutdown requested between runs applies to
// the next one.
type Daemon struct {
	config *config.Config

	mu           sync.Mutex
	running      bool
	token        int64
	started      bool
	terminate    bool
	electrumAddr string
	httpAddr     string
}

// NewDaemon creates a daemon for cfg
func NewDaemon(cfg *config.Config) *Daemon {
	return &Daemon{config: cfg}
}

// Start runs the engine and blocks until it stops
func (d *Daemon) Start(notifier ProgressNotifier) error {
	doc, err := d.document()
	if err != nil {
		return err
	}

	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return ErrAlreadyRunning
	}
	d.running = true
	d.started = false
	d.electrumAddr = ""
	d.httpAddr = ""
	d.mu.Unlock()

	slog.Debug("Starting daemon")
	err = Start(doc, &daemonCallbacks{daemon: d, notifier: notifier})

	// Release a token the host never used. The shutdown request, if any, was
	// consumed by this run.
	d.mu.Lock()
	token := d.token
	d.token = 0
	d.terminate = false
	d.running = false
	d.mu.Unlock()
	if token != 0 {
		Shutdown(token)
	}

	return err
}

// Shutdown stops the daemon. Before the shutdown token is known the request
// is remembered and honored as soon as the token arrives.
func (d *Daemon) Shutdown() {
	d.mu.Lock()
	d.terminate = true
	token := d.token
	d.token = 0
	d.mu.Unlock()

	if token == 0 {
		slog.Debug("Shutdown deferred until the daemon is booting")
		return
	}
	Shutdown(token)
}

// Started reports whether the daemon reached the ready state
func (d *Daemon) Started() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}

// ElectrumAddr returns the Electrum server address, empty if not enabled
func (d *Daemon) ElectrumAddr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.electrumAddr
}

// HTTPAddr returns the HTTP server address, empty if not enabled
func (d *Daemon) HTTPAddr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.httpAddr
}

func (d *Daemon) document() (string, error) {
	if d.config == nil {
		return "{}", nil
	}
	if len(d.config.Raw) > 0 {
		return string(d.config.Raw), nil
	}
	data, err := json.Marshal(d.config)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(data), nil
}

// daemonCallbacks adapts a ProgressNotifier to the bound callback interface
type daemonCallbacks struct {
	daemon   *Daemon
	notifier ProgressNotifier
}

func (c *daemonCallbacks) OnBooting(handle int64) {
	d := c.daemon
	d.mu.Lock()
	terminate := d.terminate
	if !terminate {
		d.token = handle
	}
	d.mu.Unlock()

	if terminate {
		slog.Debug("Honoring deferred shutdown", "handle", handle)
		Shutdown(handle)
		return
	}
	c.notifier.OnBooting()
}

func (c *daemonCallbacks) OnElectrumReady(addr string) {
	c.daemon.mu.Lock()
	defer c.daemon.mu.Unlock()
	c.daemon.electrumAddr = addr
}

func (c *daemonCallbacks) OnHttpReady(addr string) { //nolint:revive // bound name
	c.daemon.mu.Lock()
	defer c.daemon.mu.Unlock()
	c.daemon.httpAddr = addr
}

func (c *daemonCallbacks) OnReady() {
	d := c.daemon
	d.mu.Lock()
	d.started = true
	terminate := d.terminate
	d.mu.Unlock()

	if !terminate {
		c.notifier.OnReady(d)
	}
}

func (c *daemonCallbacks) OnSyncProgress(progress float32, tip int32) {
	if c.reporting() {
		c.notifier.OnSyncProgress(progress, time.Unix(int64(tip), 0))
	}
}

func (c *daemonCallbacks) OnScanProgress(progress float32, eta int32) {
	if c.reporting() {
		c.notifier.OnScanProgress(progress, time.Duration(eta)*time.Second)
	}
}

func (c *daemonCallbacks) reporting() bool {
	c.daemon.mu.Lock()
	defer c.daemon.mu.Unlock()
	return !c.daemon.started && !c.daemon.terminate
}
