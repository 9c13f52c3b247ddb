package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
)

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	labelColor   = color.New(color.Bold)
)

// SpinnerProgress prints operator output in color and shows a spinner during waits.
// The spinner is only used when stdout is a terminal.
type SpinnerProgress struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
	enabled bool
}

// NewSpinnerProgress creates the progress sink used by the CLI
func NewSpinnerProgress(cfg *config.RuntimeConfig) *SpinnerProgress {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return NewSpinnerProgressTo(os.Stdout, tty && !cfg.NonInteractive)
}

// NewSpinnerProgressTo writes to out; animate enables the spinner
func NewSpinnerProgressTo(out io.Writer, animate bool) *SpinnerProgress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false
	return &SpinnerProgress{out: out, spinner: s, enabled: animate}
}

// OnProgress updates the spinner suffix. Bounded waits show their budget.
func (p *SpinnerProgress) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return
	}

	msg := event.Stage
	if event.Message != "" {
		msg = event.Message
	}
	if event.Total > 0 {
		msg = fmt.Sprintf("%s (%d/%d)", msg, event.Current, event.Total)
	}
	p.spinner.Suffix = " " + msg
	if !p.spinner.Active() {
		p.spinner.Start()
	}
}

func (p *SpinnerProgress) Info(message string)    { p.println(infoColor, message) }
func (p *SpinnerProgress) Success(message string) { p.println(successColor, message) }
func (p *SpinnerProgress) Warn(message string)    { p.println(warnColor, message) }
func (p *SpinnerProgress) Error(message string)   { p.println(errorColor, message) }

// Link prints "label: url" with the url underlined
func (p *SpinnerProgress) Link(label, url string) {
	p.withSpinnerPaused(func() {
		fmt.Fprintf(p.out, "%s: %s\n", labelColor.Sprint(label), color.New(color.Underline).Sprint(url))
	})
}

// Done stops the spinner
func (p *SpinnerProgress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spinner.Active() {
		p.spinner.Stop()
	}
}

func (p *SpinnerProgress) println(c *color.Color, message string) {
	p.withSpinnerPaused(func() {
		c.Fprintln(p.out, message)
	})
}

// withSpinnerPaused stops the spinner while fn writes and restarts it afterwards
func (p *SpinnerProgress) withSpinnerPaused(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	wasActive := p.spinner.Active()
	if wasActive {
		p.spinner.Stop()
	}
	fn()
	if wasActive {
		p.spinner.Start()
	}
}

var _ usecase.ProgressSink = (*SpinnerProgress)(nil)
