package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/diogo/geminichat/internal/render"
	"github.com/diogo/geminichat/internal/tui"
)

// runQuery sends a single prompt through a fresh conversation and prints
// the resulting bot turn. A failed generation prints the fallback reply
// and still succeeds; only setup problems return an error.
func runQuery(ctx context.Context, deps *Dependencies, gflags *globalFlags, qflags *queryFlags, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	s, err := newSession(ctx, deps, gflags)
	if err != nil {
		return err
	}
	defer s.close()

	task, ok := s.ctrl.Begin(prompt)
	if !ok {
		return fmt.Errorf("conversation is busy")
	}

	decorate := !qflags.raw && deps.IsTerminal(deps.Stdout)
	verbose := s.cfg.Verbose && !qflags.raw

	if verbose {
		fmt.Fprintf(deps.Stderr, "[verbose] Model: %s\n", s.gen.Model())
		fmt.Fprintf(deps.Stderr, "[verbose] Backend: %s\n", s.settings.Backend)
	}

	var spin *spinner
	if decorate && deps.IsTerminal(deps.Stderr) {
		spin = newSpinner(deps.Stderr, "Generating response", render.PaletteOrDefault(s.cfg.TUITheme))
		spin.start()
	}

	out := task.Run(ctx)
	s.ctrl.Settle(out)

	if spin != nil {
		if out.Err != nil {
			spin.stopSilently()
		} else {
			spin.stopWithSuccess("Done")
		}
	}

	// Interrupted: the user is leaving, not waiting for a reply
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if verbose {
		fmt.Fprintf(deps.Stderr, "[verbose] Request took %s\n", out.Elapsed.Round(time.Millisecond))
		if out.Err != nil {
			fmt.Fprintln(deps.Stderr, tui.FormatError(out.Err))
		}
	}

	text := s.ctrl.LastBotText()
	printer := newReplyPrinter(deps.Stdout, decorate, deps.TerminalWidth(), s.cfg)

	if decorate && s.cfg.CopyToClipboard {
		if err := deps.CopyText(text); err != nil {
			printer.warning(deps.Stderr, "Failed to copy to clipboard: %v", err)
		} else {
			printer.success(deps.Stderr, "Copied to clipboard")
		}
	}

	if qflags.output != "" {
		if err := os.WriteFile(qflags.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorate {
			printer.success(deps.Stderr, "Response saved to %s", qflags.output)
		}
		return nil
	}

	printer.botTurn(text)
	return nil
}
