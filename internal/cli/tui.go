package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/otsaudit/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// interactive reports whether progress can be drawn on stderr.
func interactive() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runTask runs fn, showing a spinner with live request counts on an
// interactive terminal. Log output produced meanwhile is held back and
// written once the spinner is gone. Verbose runs and redirected stderr log
// progress lines instead.
func (c *CLI) runTask(ctx context.Context, message string, fn func(context.Context) error) error {
	if c.verbose || !interactive() {
		p := newProgress(c.Logger)
		if err := fn(ctx); err != nil {
			return err
		}
		p.done(message)
		return nil
	}

	counter := &requestCounter{}
	observability.SetHTTPHooks(counter)
	defer observability.SetHTTPHooks(observability.NoopHTTPHooks{})

	var held bytes.Buffer
	c.Logger.SetOutput(&held)
	defer func() {
		c.Logger.SetOutput(os.Stderr)
		os.Stderr.Write(held.Bytes())
	}()

	m := taskModel{message: message, counter: counter, run: fn, ctx: ctx, start: time.Now()}
	final, err := tea.NewProgram(m, tea.WithOutput(os.Stderr), tea.WithInput(nil), tea.WithContext(ctx)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return context.Canceled
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("progress display: %w", err)
	}
	return final.(taskModel).err
}

// requestCounter counts repository requests for the progress display.
type requestCounter struct {
	observability.NoopHTTPHooks
	requests atomic.Int64
	failures atomic.Int64
}

func (r *requestCounter) OnRequest(context.Context, string, string, string) {
	r.requests.Add(1)
}

func (r *requestCounter) OnError(context.Context, string, string, string, error) {
	r.failures.Add(1)
}

// =============================================================================
// taskModel - spinner while a task runs
// =============================================================================

type (
	tickMsg struct{}
	doneMsg struct{ err error }
)

type taskModel struct {
	message string
	counter *requestCounter
	run     func(context.Context) error
	ctx     context.Context
	start   time.Time

	frame int
	done  bool
	err   error
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m taskModel) Init() tea.Cmd {
	run := func() tea.Msg { return doneMsg{err: m.run(m.ctx)} }
	return tea.Batch(run, tick())
}

func (m taskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = context.Canceled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m taskModel) View() string {
	if m.done {
		return ""
	}
	frame := spinnerFrames[m.frame%len(spinnerFrames)]
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(m.message)
	if n := m.counter.requests.Load(); n > 0 {
		line += StyleDim.Render(fmt.Sprintf(" · %d requests", n))
	}
	if n := m.counter.failures.Load(); n > 0 {
		line += StyleWarning.Render(fmt.Sprintf(" · %d failed", n))
	}
	line += StyleDim.Render(fmt.Sprintf(" · %s", time.Since(m.start).Round(time.Second)))
	return line + "\n"
}
