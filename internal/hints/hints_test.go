package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel() because they use
//   t.Setenv() and replace the package-level IsInContainer variable.

import (
	"strings"
	"testing"
)

func withContainer(t *testing.T, inContainer bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return inContainer }
}

func TestForBrowserConnect_InCI(t *testing.T) {
	withContainer(t, false)
	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("ROD_BROWSER_BIN", "")

	hint := ForBrowserConnect()

	for _, want := range []string{"hint:", "ROD_NO_SANDBOX", "ROD_BROWSER_BIN", "--backend remote"} {
		if !strings.Contains(hint, want) {
			t.Errorf("ForBrowserConnect() = %q, missing %q", hint, want)
		}
	}
}

func TestForBrowserConnect_InDocker(t *testing.T) {
	withContainer(t, true)
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("JENKINS_URL", "")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("ROD_BROWSER_BIN", "")

	if hint := ForBrowserConnect(); !strings.Contains(hint, "ROD_NO_SANDBOX") {
		t.Errorf("ForBrowserConnect() = %q, want ROD_NO_SANDBOX suggestion", hint)
	}
}

func TestForBrowserConnect_AllConfigured(t *testing.T) {
	withContainer(t, true)
	t.Setenv("ROD_NO_SANDBOX", "1")
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chromium")

	if hint := ForBrowserConnect(); hint != "" {
		t.Errorf("ForBrowserConnect() = %q, want empty", hint)
	}
}

func TestForRemoteBackend(t *testing.T) {
	t.Parallel()

	if hint := ForRemoteBackend(""); !strings.Contains(hint, "--backend-url") {
		t.Errorf("ForRemoteBackend(\"\") = %q, want --backend-url mention", hint)
	}
	if hint := ForRemoteBackend("http://render:3000"); !strings.Contains(hint, "http://render:3000") {
		t.Errorf("ForRemoteBackend(url) = %q, want url mention", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{name: "no paths", paths: nil, contains: "--config"},
		{name: "user config path", paths: []string{"./prod.yaml", "/home/u/.config/go-statementpdf/prod.yaml"}, contains: "create /home/u/.config/go-statementpdf/prod.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("ForConfigNotFound() = %q, want it to contain %q", hint, tt.contains)
			}
		})
	}
}

func TestForTemplateNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForTemplateNotFound(nil); hint != "" {
		t.Errorf("ForTemplateNotFound(nil) = %q, want empty", hint)
	}
	if hint := ForTemplateNotFound([]string{"invoice", "statement"}); !strings.Contains(hint, "invoice, statement") {
		t.Errorf("ForTemplateNotFound() = %q", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	for _, h := range []string{
		ForTimeout(),
		ForOutputDirectory(),
		ForMalformedData(),
		ForRemoteBackend(""),
	} {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
