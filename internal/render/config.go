package render

import (
	"os"

	"github.com/diogo/geminichat/internal/config"
)

// EnvStyle overrides the configured markdown style
const EnvStyle = "GLAMOUR_STYLE"

// OptionsFromConfig builds render options from the user configuration.
// GLAMOUR_STYLE takes precedence over the file.
func OptionsFromConfig(cfg config.Config, width int) Options {
	opts := DefaultOptions().WithWidth(width)

	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv(EnvStyle); style != "" {
		opts.Style = style
	}
	return opts
}
