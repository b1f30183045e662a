package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner shows a progress indicator while charts render. It only animates
// when writing to a terminal; otherwise it prints nothing.
type Spinner struct {
	w       io.Writer
	message string
	animate bool

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
}

// newSpinner creates a spinner on stderr that stops when ctx is cancelled.
func newSpinner(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *Spinner {
	inner, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		message: message,
		animate: isTerminal(w),
		parent:  ctx,
		ctx:     inner,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start begins the animation in a goroutine.
func (s *Spinner) Start() {
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	if !s.animate {
		<-s.ctx.Done()
		return
	}

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
			return
		case <-ticker.C:
			icon := styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)])
			fmt.Fprintf(s.w, "\r%s %s", icon, StyleDim.Render(s.message))
		}
	}
}

// Stop ends the animation and waits for the line to be cleared. Calling it
// more than once is harmless.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the context the spinner was created with has
// ended, as opposed to an explicit Stop.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
