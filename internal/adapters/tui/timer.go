package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/purrmodoro/internal/ports"
)

// Timer implements the ports.Timer interface using Bubbletea.
type Timer struct {
	opts   Options
	inline bool

	mu      sync.Mutex
	program *tea.Program
}

// NewTimer creates a new TUI timer adapter. Inline timers draw below the
// prompt instead of using the alternate screen.
func NewTimer(opts Options, inline bool) *Timer {
	return &Timer{opts: opts, inline: inline}
}

// Ensure Timer implements ports.Timer.
var _ ports.Timer = (*Timer)(nil)

// Run starts the interface and blocks until the user quits or ctx is
// cancelled. The controller is closed on return, which stops its ticks.
func (t *Timer) Run(ctx context.Context) error {
	defer t.opts.Controller.Close()

	var model tea.Model
	var progOpts []tea.ProgramOption
	if t.inline {
		model = NewInlineModel(ctx, t.opts)
	} else {
		model = NewModel(ctx, t.opts)
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	progOpts = append(progOpts, tea.WithContext(ctx))

	program := tea.NewProgram(model, progOpts...)
	t.mu.Lock()
	t.program = program
	t.mu.Unlock()

	_, err := program.Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// Stop asks a running interface to quit.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.program != nil {
		t.program.Quit()
	}
}
