package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/chat"
	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/tui"
)

// Dependencies holds the external collaborators of the commands.
// Tests replace them to run commands without a network, a terminal or a clipboard.
type Dependencies struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NewGenerator builds the generation client from settings
	NewGenerator func(ctx context.Context, settings config.Settings) (api.Generator, error)

	// RunChat runs the full-screen chat window
	RunChat func(ctx context.Context, ctrl *chat.Controller, modelName string, cfg config.Config) error

	// NewLineReader opens the line editor for chat --plain
	NewLineReader func() LineReader

	// NewLogger builds the diagnostic logger
	NewLogger func(opts logging.Options) *zap.Logger

	// CopyText writes to the system clipboard
	CopyText func(text string) error

	// IsTerminal reports whether a stream is an interactive terminal
	IsTerminal func(f any) bool

	// TerminalWidth returns the width of stdout, or 0 when unknown
	TerminalWidth func() int
}

// NewDependencies creates a Dependencies struct with the production implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		NewGenerator:  api.NewGenerator,
		RunChat:       tui.RunChat,
		NewLineReader: newLiner,
		NewLogger:     logging.NewOrNop,
		CopyText:      clipboard.WriteAll,
		IsTerminal:    isTerminal,
		TerminalWidth: terminalWidth,
	}
}

// isTerminal reports whether f is an *os.File attached to a terminal
func isTerminal(f any) bool {
	file, ok := f.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// terminalWidth returns the stdout width or 0
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}
