package markup

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Minify strips comments and collapses whitespace runs to a single space.
// Text inside pre, textarea, script and style is copied verbatim.
// If the input cannot be tokenized it is returned unchanged.
func Minify(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	b.Grow(len(src))

	verbatim := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return b.String()
			}
			return src
		case html.CommentToken:
			continue
		case html.TextToken:
			if verbatim > 0 {
				b.Write(z.Raw())
			} else {
				writeCollapsed(&b, z.Raw())
			}
		case html.StartTagToken:
			b.Write(z.Raw())
			if name, _ := z.TagName(); keepsWhitespace(string(name)) {
				verbatim++
			}
		case html.EndTagToken:
			b.Write(z.Raw())
			if name, _ := z.TagName(); keepsWhitespace(string(name)) && verbatim > 0 {
				verbatim--
			}
		default:
			b.Write(z.Raw())
		}
	}
}

func keepsWhitespace(tag string) bool {
	switch tag {
	case "pre", "textarea", "script", "style":
		return true
	}
	return false
}

// writeCollapsed copies text replacing each whitespace run with one space.
func writeCollapsed(b *strings.Builder, text []byte) {
	inSpace := false
	for _, c := range text {
		switch c {
		case ' ', '\t', '\n', '\r', '\f':
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
		default:
			b.WriteByte(c)
			inSpace = false
		}
	}
}
