package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner shows progress on the diagnostic writer while a long operation
// runs. It is a no-op when that writer is not a terminal.
type Spinner struct {
	w       io.Writer
	msg     string
	styles  *Styles
	frames  []string
	fps     time.Duration
	animate bool

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a stopped spinner.
func (r *Renderer) NewSpinner(msg string) *Spinner {
	return &Spinner{
		w:       r.errOut,
		msg:     msg,
		styles:  r.styles,
		frames:  spinner.Dot.Frames,
		fps:     spinner.Dot.FPS,
		animate: IsTerminal(r.errOut),
	}
}

// Start begins animating.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.animate || s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

func (s *Spinner) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.fps)
	defer ticker.Stop()
	for i := 0; ; i++ {
		_, _ = fmt.Fprintf(s.w, "\r%s %s", s.styles.Info.Render(s.frames[i%len(s.frames)]), s.msg)
		select {
		case <-stop:
			_, _ = fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil
}

// Success stops the spinner and prints a success line.
func (s *Spinner) Success(msg string) {
	s.Stop()
	_, _ = fmt.Fprintln(s.w, s.styles.Success.Render("✓ "+msg))
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(msg string) {
	s.Stop()
	_, _ = fmt.Fprintln(s.w, s.styles.Error.Render("✗ "+msg))
}
