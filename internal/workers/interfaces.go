// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// stopping multiple workers in a unified way on shutdown.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Start launches the worker's goroutine and returns immediately; Stop
// cancels it and blocks until it has exited. Both must be safe to call
// repeatedly and in any order.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
