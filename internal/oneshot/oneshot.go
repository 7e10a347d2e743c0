// Package oneshot attaches a completion action to a single-use signal channel.
package oneshot

import "context"

// Wrap returns a channel with the same observable semantics as rx and runs
// action exactly once as soon as rx reaches a terminal state: it delivered a
// value or it was closed without one.
//
// A watcher goroutine blocks on rx. On the terminal outcome it runs action,
// forwards the value if there was one and closes the returned channel, so a
// consumer sees either the value followed by closure or just the closure.
// Canceling ctx means the consumer abandoned the returned channel; the
// watcher then runs action and exits instead of waiting on rx forever.
func Wrap[T any](ctx context.Context, rx <-chan T, action func()) <-chan T {
	out := make(chan T, 1)

	go func() {
		defer close(out)

		select {
		case value, ok := <-rx:
			action()
			if ok {
				out <- value
			}
		case <-ctx.Done():
			action()
		}
	}()

	return out
}
