package markup

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdown indicates a markdown note could not be rendered.
var ErrMarkdown = errors.New("markdown rendering failed")

// notes renders statement notes. Raw HTML in the source is escaped
// (html.WithUnsafe is not set), which makes the output safe to embed.
var notes = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithXHTML(),
	),
)

// Markdown converts a markdown note to an HTML fragment for templates.
func Markdown(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := notes.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdown, err)
	}
	// #nosec G203 -- goldmark escapes raw HTML without WithUnsafe
	return template.HTML(buf.String()), nil
}
