package markup

import (
	"strings"
	"testing"
)

func TestExtractPageInfo(t *testing.T) {
	t.Parallel()

	doc := `<!DOCTYPE html><html><head></head><body>
<h1>Statement</h1>
<div class="footer page-info">Page {page} of {pages}</div>
<p>rows</p>
<span class="page-info">duplicate</span>
</body></html>`

	out, placeholder, found, err := ExtractPageInfo(doc)
	if err != nil {
		t.Fatalf("ExtractPageInfo() error = %v", err)
	}
	if !found {
		t.Fatal("ExtractPageInfo() found = false, want true")
	}
	if placeholder != "Page {page} of {pages}" {
		t.Errorf("placeholder = %q", placeholder)
	}
	if strings.Contains(out, "page-info") {
		t.Errorf("placeholders not removed: %s", out)
	}
	if !strings.Contains(out, "<h1>Statement</h1>") || !strings.Contains(out, "<p>rows</p>") {
		t.Errorf("document content lost: %s", out)
	}
}

func TestExtractPageInfo_NoPlaceholder(t *testing.T) {
	t.Parallel()

	_, placeholder, found, err := ExtractPageInfo("<html><body><p>x</p></body></html>")
	if err != nil {
		t.Fatalf("ExtractPageInfo() error = %v", err)
	}
	if found || placeholder != "" {
		t.Errorf("found = %v, placeholder = %q; want false, empty", found, placeholder)
	}
}

func TestExtractPageInfo_ClassMustMatchWholeWord(t *testing.T) {
	t.Parallel()

	_, _, found, err := ExtractPageInfo(`<html><body><p class="page-information">x</p></body></html>`)
	if err != nil {
		t.Fatalf("ExtractPageInfo() error = %v", err)
	}
	if found {
		t.Error("page-information must not match page-info")
	}
}

func TestPageNumberFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "default text",
			in:   "",
			want: `Page <span class="pageNumber"></span> of <span class="totalPages"></span>`,
		},
		{
			name: "custom text",
			in:   "{page}/{pages}",
			want: `<span class="pageNumber"></span>/<span class="totalPages"></span>`,
		},
		{
			name: "no tokens",
			in:   "Confidential",
			want: "Confidential",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := PageNumberFields(tt.in); got != tt.want {
				t.Errorf("PageNumberFields(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
