package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/diogo/geminichat/internal/chat"
)

// linePrompt is the line-mode prompt
const linePrompt = "you> "

// LineReader reads one line of user input at a time
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// newLiner returns a liner state that aborts on Ctrl+C.
// History is kept in memory only.
func newLiner() LineReader {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	return l
}

func newChatCmd(deps *Dependencies, gflags *globalFlags) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with Gemini.

Each message is sent on its own; earlier turns are shown but not sent.
Press Enter to send, Ctrl+Y to copy the last reply and Esc or Ctrl+C to quit.
With --plain the chat runs line by line; type 'exit' or 'quit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), deps, gflags)
			if err != nil {
				return err
			}
			defer s.close()

			if plain {
				return runPlainChat(cmd.Context(), deps, s)
			}
			return deps.RunChat(cmd.Context(), s.ctrl, s.gen.Model(), s.cfg)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Line-mode chat without the full-screen window")
	return cmd
}

// runPlainChat runs the line-mode loop until the user leaves or input ends
func runPlainChat(ctx context.Context, deps *Dependencies, s *session) error {
	rl := deps.NewLineReader()
	defer rl.Close()

	printer := newReplyPrinter(deps.Stdout, deps.IsTerminal(deps.Stdout), deps.TerminalWidth(), s.cfg)
	printer.botTurn(s.ctrl.Snapshot().LastTurn().Text)

	for {
		line, err := rl.Prompt(linePrompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(deps.Stdout)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		rl.AppendHistory(line)

		if !submitAndWait(ctx, s.ctrl, line) {
			return ctx.Err()
		}
		printer.botTurn(s.ctrl.Snapshot().LastTurn().Text)
	}
}

// submitAndWait submits text and blocks until the reply is settled.
// It reports false when ctx ended first.
func submitAndWait(ctx context.Context, ctrl *chat.Controller, text string) bool {
	done, ok := ctrl.Submit(ctx, text)
	if !ok {
		return true
	}
	select {
	case <-done:
		return true
	case <-ctx.Done():
		<-done
		return false
	}
}
