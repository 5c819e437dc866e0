package markup

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// PageInfoClass marks elements whose content is the per-page number line.
const PageInfoClass = "page-info"

// DefaultPageInfo is used when a document has no page-info placeholder.
const DefaultPageInfo = "Page {page} of {pages}"

// Page number tokens accepted inside a placeholder.
const (
	pageToken  = "{page}"
	pagesToken = "{pages}"
)

// ExtractPageInfo removes every element carrying the page-info class from the
// document and returns the document plus the inner HTML of the first
// placeholder. found is false when no placeholder exists.
func ExtractPageInfo(doc string) (out, placeholder string, found bool, err error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", "", false, fmt.Errorf("parsing document: %w", err)
	}

	var matches []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, PageInfoClass) {
			matches = append(matches, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if len(matches) > 0 {
		var inner bytes.Buffer
		for c := matches[0].FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&inner, c); err != nil {
				return "", "", false, fmt.Errorf("rendering placeholder: %w", err)
			}
		}
		placeholder = strings.TrimSpace(inner.String())
		found = true
		for _, n := range matches {
			n.Parent.RemoveChild(n)
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", "", false, fmt.Errorf("rendering document: %w", err)
	}
	return buf.String(), placeholder, found, nil
}

// PageNumberFields replaces {page} and {pages} with the field markup a
// browser print engine fills with the current page and the page total.
func PageNumberFields(placeholder string) string {
	if placeholder == "" {
		placeholder = DefaultPageInfo
	}
	r := strings.NewReplacer(
		pagesToken, `<span class="totalPages"></span>`,
		pageToken, `<span class="pageNumber"></span>`,
	)
	return r.Replace(placeholder)
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
