// Package commands provides CLI commands for geminichat.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/models"
	"github.com/diogo/geminichat/internal/tui"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	model   string
	backend string
	verbose bool
}

// apply overrides settings with the flags that were set
func (f *globalFlags) apply(settings config.Settings) config.Settings {
	if f.model != "" {
		settings.Model = models.ModelFromName(f.model)
	}
	if f.backend != "" {
		settings.Backend = f.backend
	}
	return settings
}

// queryFlags are the one-shot flags of the root command
type queryFlags struct {
	file    string
	output  string
	raw     bool
	version bool
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	gflags := &globalFlags{}
	qflags := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "geminichat [prompt]",
		Short: "Chat with Google Gemini from the terminal",
		Long: `geminichat sends your messages to the Gemini API and renders the
replies as markdown. The API key is read from GEMINI_API_KEY.

Examples:
  geminichat chat                      Start the chat window
  geminichat chat --plain              Line-mode chat
  geminichat "What is Go?"             Send a single query
  geminichat -f prompt.md              Read prompt from file
  cat prompt.md | geminichat           Read prompt from stdin
  geminichat "Hello" -o reply.md       Save the reply to a file
  geminichat config set tui_theme nord Change a preference`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if qflags.version {
				fmt.Fprintf(deps.Stdout, "geminichat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps.Stdin, qflags.file, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return runQuery(cmd.Context(), deps, gflags, qflags, prompt)
		},
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVarP(&gflags.model, "model", "m", "", "Model to use (e.g., gemini-2.5-flash, pro, lite)")
	cmd.PersistentFlags().StringVar(&gflags.backend, "backend", "", "Generation backend (rest or sdk)")
	cmd.PersistentFlags().BoolVar(&gflags.verbose, "verbose", false, "Debug logging and request details")

	cmd.Flags().StringVarP(&qflags.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().StringVarP(&qflags.output, "output", "o", "", "Save response to file")
	cmd.Flags().BoolVar(&qflags.raw, "raw", false, "Print the reply without markdown rendering")
	cmd.Flags().BoolVarP(&qflags.version, "version", "v", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(deps, gflags))
	cmd.AddCommand(newConfigCmd(deps, gflags))

	return cmd
}

// readPrompt picks the prompt from the file flag, the argument or piped stdin,
// in that order. It reports false when none of them provided one.
func readPrompt(stdin io.Reader, file string, args []string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if stdin == nil {
		return "", false, nil
	}
	if f, ok := stdin.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", false, nil
		}
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", false, fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", false, nil
	}
	return string(data), true, nil
}

// loggingOptions maps the configuration onto logger options
func loggingOptions(cfg config.Config) logging.Options {
	return logging.Options{Verbose: cfg.Verbose}
}

// Execute runs the root command. Interrupts cancel the outstanding request.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := NewDependencies()
	if err := NewRootCmd(deps).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(deps.Stderr, tui.FormatError(err))
		stop()
		os.Exit(1)
	}
}
