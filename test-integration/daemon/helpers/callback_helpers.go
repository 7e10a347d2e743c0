package helpers

import (
	"fmt"
	"sync"
)

// RecordingCallbacks implements daemon.CallbackNotifier and records every
// notification as a readable event string
type RecordingCallbacks struct {
	mu     sync.Mutex
	events []string
	token  int64

	// Hooks run after the notification was recorded
	BootingHook func(token int64)
	ReadyHook   func(token int64)
}

// OnBooting implements daemon.CallbackNotifier
func (c *RecordingCallbacks) OnBooting(handle int64) {
	c.mu.Lock()
	c.token = handle
	c.events = append(c.events, "booting")
	hook := c.BootingHook
	c.mu.Unlock()

	if hook != nil {
		hook(handle)
	}
}

// OnElectrumReady implements daemon.CallbackNotifier
func (c *RecordingCallbacks) OnElectrumReady(addr string) {
	c.record("electrum " + addr)
}

// OnHttpReady implements daemon.CallbackNotifier
func (c *RecordingCallbacks) OnHttpReady(addr string) { //nolint:revive // bound name
	c.record("http " + addr)
}

// OnReady implements daemon.CallbackNotifier
func (c *RecordingCallbacks) OnReady() {
	c.mu.Lock()
	c.events = append(c.events, "ready")
	hook, token := c.ReadyHook, c.token
	c.mu.Unlock()

	if hook != nil {
		hook(token)
	}
}

// OnSyncProgress implements daemon.CallbackNotifier
func (c *RecordingCallbacks) OnSyncProgress(progress float32, tip int32) {
	c.record(fmt.Sprintf("sync %.2f %d", progress, tip))
}

// OnScanProgress implements daemon.CallbackNotifier
func (c *RecordingCallbacks) OnScanProgress(progress float32, eta int32) {
	c.record(fmt.Sprintf("scan %.2f %d", progress, eta))
}

func (c *RecordingCallbacks) record(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns the recorded notifications in order
func (c *RecordingCallbacks) Events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.events...)
}

// Token returns the shutdown token delivered to OnBooting
func (c *RecordingCallbacks) Token() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}
