package render

import "strings"

// Markdown renders markdown content for terminal display.
// Renderers are pooled per option set; see cache.go.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// MarkdownOrRaw renders content and falls back to the raw text when the
// renderer cannot be built or fails. Surrounding blank lines added by
// glamour are trimmed.
func MarkdownOrRaw(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
