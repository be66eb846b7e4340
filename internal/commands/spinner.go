package commands

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/geminichat/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#1dd1a1"), // Green
}

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// spinner animates the wait for a reply on stderr
type spinner struct {
	w       io.Writer
	message string
	palette render.Palette

	stop chan struct{}
	done chan struct{}

	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(w io.Writer, message string, palette render.Palette) *spinner {
	return &spinner{
		w:       w,
		message: message,
		palette: palette,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	spinColor := gradientColors[s.frame%len(gradientColors)]
	frame := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(spinnerFrames[s.frame%len(spinnerFrames)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(s.palette.TextDim).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(s.palette.Text).Render(s.message)
	fmt.Fprintf(s.w, "\r\033[K%s %s %s", frame, msg, dots.String())
}

// stopOnce closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows a success line
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(s.palette.Accent).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(s.palette.Accent).Render(message)
	fmt.Fprintf(s.w, "%s %s\n", checkmark, msg)
}

// stopSilently stops the spinner and clears its line
func (s *spinner) stopSilently() {
	s.stopOnce()
	<-s.done
}
