package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/render"
)

// replyPrinter writes bot turns to a stream, as rendered markdown in a
// bubble when the stream is a terminal and as raw text otherwise
type replyPrinter struct {
	w        io.Writer
	decorate bool

	bubbleWidth int
	renderOpts  render.Options

	label  lipgloss.Style
	bubble lipgloss.Style
	status lipgloss.Style
	warn   lipgloss.Style
}

func newReplyPrinter(w io.Writer, decorate bool, termWidth int, cfg config.Config) *replyPrinter {
	if termWidth <= 0 {
		termWidth = 80
	}
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	p := render.PaletteOrDefault(cfg.TUITheme)

	return &replyPrinter{
		w:           w,
		decorate:    decorate,
		bubbleWidth: bubbleWidth,
		renderOpts:  render.OptionsFromConfig(cfg, bubbleWidth-4),
		label: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		bubble: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Foreground(p.Text).
			Padding(0, 1).
			MarginBottom(1),
		status: lipgloss.NewStyle().Foreground(p.Accent),
		warn:   lipgloss.NewStyle().Foreground(p.Warning),
	}
}

// botTurn prints one reply
func (rp *replyPrinter) botTurn(text string) {
	if !rp.decorate {
		fmt.Fprintln(rp.w, text)
		return
	}

	rendered := render.MarkdownOrRaw(text, rp.renderOpts)
	fmt.Fprintln(rp.w, rp.label.Render("✦ Gemini"))
	fmt.Fprintln(rp.w, rp.bubble.Width(rp.bubbleWidth).Render(rendered))
}

// success and warning print one status line to w
func (rp *replyPrinter) success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, rp.status.Render("✓ "+fmt.Sprintf(format, args...)))
}

func (rp *replyPrinter) warning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, rp.warn.Render("⚠ "+fmt.Sprintf(format, args...)))
}
