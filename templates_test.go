package statementpdf

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestFormatMoney - Currency formatting helper
// ---------------------------------------------------------------------------

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   any
		currency string
		want     string
	}{
		{name: "float dollars", amount: 1234.5, currency: "USD", want: "$1,234.50"},
		{name: "int euros", amount: 7, currency: "eur", want: "€7.00"},
		{name: "int64 from yaml", amount: int64(1000000), currency: "GBP", want: "£1,000,000.00"},
		{name: "uint64 from yaml", amount: uint64(999), currency: "USD", want: "$999.00"},
		{name: "negative", amount: -42.125, currency: "USD", want: "-$42.13"},
		{name: "numeric string", amount: "19.9", currency: "USD", want: "$19.90"},
		{name: "unknown currency uses code", amount: 3.5, currency: "chf", want: "CHF 3.50"},
		{name: "no currency", amount: 3.5, currency: "", want: "3.50"},
		{name: "non numeric passes through", amount: "n/a", currency: "USD", want: "n/a"},
		{name: "nil is empty", amount: nil, currency: "USD", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatMoney(tt.amount, tt.currency); got != tt.want {
				t.Errorf("formatMoney(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	t.Parallel()

	for _, v := range []any{3, int64(3), uint64(3), 3.0, "3"} {
		got, err := toInt(v)
		if err != nil || got != 3 {
			t.Errorf("toInt(%#v) = %d, %v; want 3, nil", v, got, err)
		}
	}
	for _, v := range []any{2.5, "x", nil, []int{1}} {
		if _, err := toInt(v); err == nil {
			t.Errorf("toInt(%#v) expected error, got nil", v)
		}
	}
}

// ---------------------------------------------------------------------------
// TestTemplateEngine - Loading and executing templates
// ---------------------------------------------------------------------------

func TestTemplateEngine_Inline(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	tmpl, name, err := e.load(`<p>{{ add .n 1 }} {{ money .amount "USD" }} {{ date "today" "DD/MM/YYYY" }}</p>`)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if name != "inline" {
		t.Errorf("name = %q, want %q", name, "inline")
	}

	got, err := execute(tmpl, map[string]any{"n": int64(41), "amount": 5})
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	want := "<p>42 $5.00 14/03/2026</p>"
	if got != want {
		t.Errorf("execute() = %q, want %q", got, want)
	}
}

func TestTemplateEngine_Markdown(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	tmpl, _, err := e.load(`<div>{{ markdown .notes }}</div>`)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	got, err := execute(tmpl, map[string]any{"notes": "Paid **in full**"})
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if !strings.Contains(got, "<strong>in full</strong>") {
		t.Errorf("markdown not rendered: %q", got)
	}
}

func TestTemplateEngine_Errors(t *testing.T) {
	t.Parallel()

	e := newTestEngine()

	tests := []struct {
		name    string
		source  string
		wantErr error
	}{
		{name: "empty", source: "  ", wantErr: ErrEmptyTemplate},
		{name: "unknown asset", source: "missing", wantErr: ErrTemplateNotFound},
		{name: "invalid asset name", source: "../statement", wantErr: ErrTemplateNotFound},
		{name: "parse error", source: "<p>{{ .x </p>", wantErr: ErrTemplateRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := e.load(tt.source)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("load(%q) error = %v, want %v", tt.source, err, tt.wantErr)
			}
		})
	}
}

func TestTemplateEngine_ExecuteError(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	tmpl, _, err := e.load(`<p>{{ add .n 1 }}</p>`)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if _, err := execute(tmpl, map[string]any{"n": "abc"}); !errors.Is(err, ErrTemplateRender) {
		t.Errorf("execute() error = %v, want %v", err, ErrTemplateRender)
	}
}

func TestTemplateEngine_Style(t *testing.T) {
	t.Parallel()

	css, err := newTestEngine().style()
	if err != nil {
		t.Fatalf("style() error = %v", err)
	}
	if !strings.Contains(css, ".page-info") {
		t.Error("statement style should hide page-info placeholders")
	}
}

func TestIsInlineTemplate(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"statement":          false,
		"statement_footer":   false,
		"<p>hi</p>":          true,
		"Total {{ .total }}": true,
	}
	for in, want := range tests {
		if got := isInlineTemplate(in); got != want {
			t.Errorf("isInlineTemplate(%q) = %v, want %v", in, got, want)
		}
	}
}
