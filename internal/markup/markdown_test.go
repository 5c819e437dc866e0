package markup

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	t.Parallel()

	got, err := Markdown("Payment due within **30 days**.")
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}
	if !strings.Contains(string(got), "<strong>30 days</strong>") {
		t.Errorf("Markdown() = %q, want bold text", got)
	}
}

func TestMarkdown_EscapesRawHTML(t *testing.T) {
	t.Parallel()

	got, err := Markdown("<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}
	if strings.Contains(string(got), "<script>") {
		t.Errorf("Markdown() kept raw script: %q", got)
	}
}

func TestMarkdown_Empty(t *testing.T) {
	t.Parallel()

	got, err := Markdown("")
	if err != nil || got != "" {
		t.Errorf("Markdown(\"\") = %q, %v; want empty, nil", got, err)
	}
}
