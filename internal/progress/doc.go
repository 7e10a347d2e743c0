// Package progress delivers engine progress events to the host.
//
// A Queue is the unbounded multi-producer channel the engine sends into. A
// Relay is the single consumer: a goroutine locked to its OS thread and
// attached to the host runtime for its whole lifetime, forwarding every Sync
// and Scan event to the host Sink in arrival order. The Relay stops on the
// Done sentinel or when the queue is closed, and closes the queue on its way
// out so that producers observe the disconnection.
//
// StartRelay returns only once the relay goroutine has attached and entered
// its receive loop, so events sent right after it returns are never lost.
package progress
