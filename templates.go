package statementpdf

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-statementpdf/internal/assets"
	"github.com/alnah/go-statementpdf/internal/dateutil"
	"github.com/alnah/go-statementpdf/internal/markup"
)

// templateEngine resolves templates by asset name or inline text and
// executes them with the statement helpers.
type templateEngine struct {
	loader assets.AssetLoader
	now    func() time.Time
}

// isInlineTemplate reports whether s is template text rather than an asset name.
func isInlineTemplate(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "<")
}

// load parses a template. The returned name is the asset name, or "inline".
func (e *templateEngine) load(nameOrText string) (*template.Template, string, error) {
	if strings.TrimSpace(nameOrText) == "" {
		return nil, "", ErrEmptyTemplate
	}

	name, text := "inline", nameOrText
	if !isInlineTemplate(nameOrText) {
		name = nameOrText
		var err error
		text, err = e.loader.LoadTemplate(name)
		if err != nil {
			if errors.Is(err, assets.ErrTemplateNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
				return nil, name, fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
			}
			return nil, name, fmt.Errorf("loading template %q: %w", name, err)
		}
	}

	tmpl, err := template.New(name).Funcs(e.funcs()).Parse(text)
	if err != nil {
		return nil, name, fmt.Errorf("%w: parsing %s: %v", ErrTemplateRender, name, err)
	}
	return tmpl, name, nil
}

// execute renders tmpl with vars.
func execute(tmpl *template.Template, vars map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

// style loads the statement stylesheet; a missing stylesheet is not an error.
func (e *templateEngine) style() (string, error) {
	css, err := e.loader.LoadStyle(assets.DefaultStyle)
	if errors.Is(err, assets.ErrStyleNotFound) {
		return "", nil
	}
	return css, err
}

func (e *templateEngine) funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": func(v any) (template.HTML, error) {
			if v == nil {
				return "", nil
			}
			return markup.Markdown(fmt.Sprint(v))
		},
		"money": formatMoney,
		"add": func(a, b any) (int, error) {
			x, err := toInt(a)
			if err != nil {
				return 0, err
			}
			y, err := toInt(b)
			if err != nil {
				return 0, err
			}
			return x + y, nil
		},
		"date": func(v any, format string) (string, error) {
			return dateutil.Format(v, format, e.now())
		},
	}
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// formatMoney renders an amount with two decimals and thousands separators,
// prefixed with the currency symbol or code. Non-numeric values pass through.
func formatMoney(amount any, currency string) string {
	f, ok := toFloat(amount)
	if !ok {
		if amount == nil {
			return ""
		}
		return fmt.Sprint(amount)
	}

	prefix := strings.ToUpper(currency)
	if sym, ok := currencySymbols[prefix]; ok {
		prefix = sym
	} else if prefix != "" {
		prefix += " "
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	cents := int64(math.Round(f * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, prefix, b.String(), cents%100)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func toInt(v any) (int, error) {
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %v", v)
	}
	return int(f), nil
}
