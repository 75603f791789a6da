package ports

import (
	"context"
	"time"
)

// Clock drives the countdown. Every invokes fn once per interval on a
// goroutine owned by the clock until the returned cancel func is called.
// Cancel is idempotent and, once it returns, fn is not invoked again.
type Clock interface {
	Now() time.Time
	Every(interval time.Duration, fn func()) (cancel func())
}

// Timer is the interactive timer interface (the TUI).
// This is a driving port (called by the command layer).
type Timer interface {
	// Run starts the interface and blocks until the user quits or ctx ends.
	Run(ctx context.Context) error
}
