package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/models"
	"github.com/diogo/geminichat/internal/render"
)

func newConfigCmd(deps *Dependencies, gflags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration: preferences from
~/.geminichat/config.json merged with the environment and flags.
The API key is masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				fmt.Fprintf(deps.Stderr, "Warning: %v (using defaults)\n", err)
			}
			return showConfig(deps.Stdout, cfg, gflags)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if err := config.SetValue(&cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(deps.Stdout, "%s = %s\n", args[0], strings.TrimSpace(args[1]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "List the preference keys accepted by set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range config.Keys() {
				fmt.Fprintln(deps.Stdout, key)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "styles",
		Short: "List markdown styles, window themes and models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listStyles(deps.Stdout)
		},
	})

	return cmd
}

func showConfig(w io.Writer, cfg config.Config, gflags *globalFlags) error {
	settings := gflags.apply(config.LoadSettings(cfg))

	configPath, _ := config.GetConfigPath()
	logPath, _ := config.GetLogPath()

	style := cfg.Markdown.Style
	if resolved, ok := render.ResolveStyle(style); ok {
		style = resolved
	} else {
		style += " (file)"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Config file", configPath},
		{"Log file", logPath},
		{"API key", settings.MaskedKey()},
		{"Model", settings.Model},
		{"Backend", settings.Backend},
		{"Base URL", orDefault(settings.BaseURL, models.EndpointBase)},
		{"Markdown style", style},
		{"TUI theme", render.PaletteOrDefault(cfg.TUITheme).Name},
		{"Copy to clipboard", fmt.Sprint(cfg.CopyToClipboard)},
		{"Verbose", fmt.Sprint(cfg.Verbose || gflags.verbose)},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func listStyles(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Markdown styles (markdown.style):")
	for _, s := range render.AvailableStyles() {
		fmt.Fprintf(tw, "  %s\t%s\n", s.Name, s.Description)
	}

	fmt.Fprintln(tw, "\nWindow themes (tui_theme):")
	for _, name := range render.PaletteNames() {
		p, _ := render.PaletteByName(name)
		fmt.Fprintf(tw, "  %s\t%s\n", p.Name, p.Description)
	}

	fmt.Fprintln(tw, "\nModels (--model, GEMINI_MODEL):")
	for _, name := range models.AllModels() {
		fmt.Fprintf(tw, "  %s\n", name)
	}
	return tw.Flush()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
