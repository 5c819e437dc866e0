package fileutil_test

// Notes:
// - The WriteString and Close error branches in WriteTempFile are not tested
//   because triggering disk write failures is platform-specific.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-statementpdf/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "valid extension pdf", extension: "pdf", wantErr: nil},
		{name: "valid extension html", extension: "html", wantErr: nil},
		{name: "empty extension", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "forward slash path traversal", extension: "../etc/passwd", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash path traversal", extension: "..\\windows", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte injection", extension: "pdf\x00exe", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temporary file creation and cleanup
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile("<html><body>chunk</body></html>", "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}

	if !strings.Contains(filepath.Base(path), "statementpdf-") {
		t.Errorf("path %q does not contain prefix 'statementpdf-'", path)
	}
	if !strings.HasSuffix(path, ".html") {
		t.Errorf("path %q does not have extension .html", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read temp file: %v", err)
	}
	if string(data) != "<html><body>chunk</body></html>" {
		t.Errorf("file content = %q", string(data))
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after cleanup at %s", path)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, _, err := fileutil.WriteTempFile("x", "")
	if !errors.Is(err, fileutil.ErrExtensionEmpty) {
		t.Errorf("WriteTempFile() error = %v, want %v", err, fileutil.ErrExtensionEmpty)
	}
}

// ---------------------------------------------------------------------------
// TestTempSet - Request-scoped temporary files
// ---------------------------------------------------------------------------

func TestTempSet_WriteAndCleanup(t *testing.T) {
	t.Parallel()

	set, err := fileutil.NewTempSet("req1")
	if err != nil {
		t.Fatalf("NewTempSet() error = %v", err)
	}

	first, err := set.WriteFile("chunk", "pdf", []byte("%PDF-1"))
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	second, err := set.WriteFile("chunk", "pdf", []byte("%PDF-2"))
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if first == second {
		t.Fatalf("WriteFile() returned the same path twice: %s", first)
	}
	if filepath.Dir(first) != set.Dir() {
		t.Errorf("file %s not inside set dir %s", first, set.Dir())
	}

	paths := set.Paths()
	if len(paths) != 2 || paths[0] != first || paths[1] != second {
		t.Errorf("Paths() = %v, want [%s %s]", paths, first, second)
	}

	if err := set.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if _, err := os.Stat(set.Dir()); !os.IsNotExist(err) {
		t.Errorf("temp dir still exists after cleanup: %s", set.Dir())
	}

	// Idempotent.
	if err := set.Cleanup(); err != nil {
		t.Errorf("second Cleanup() error = %v", err)
	}
}

func TestTempSet_WriteAfterCleanup(t *testing.T) {
	t.Parallel()

	set, err := fileutil.NewTempSet("closed")
	if err != nil {
		t.Fatalf("NewTempSet() error = %v", err)
	}
	if err := set.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	_, err = set.WriteFile("chunk", "pdf", nil)
	if !errors.Is(err, fileutil.ErrTempSetClosed) {
		t.Errorf("WriteFile() error = %v, want %v", err, fileutil.ErrTempSetClosed)
	}
}

func TestTempSet_RejectsTraversal(t *testing.T) {
	t.Parallel()

	if _, err := fileutil.NewTempSet("../escape"); !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("NewTempSet() error = %v, want %v", err, fileutil.ErrExtensionPathTraversal)
	}

	set, err := fileutil.NewTempSet("ok")
	if err != nil {
		t.Fatalf("NewTempSet() error = %v", err)
	}
	defer set.Cleanup()

	if _, err := set.WriteFile("../x", "pdf", nil); !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("WriteFile() error = %v, want %v", err, fileutil.ErrExtensionPathTraversal)
	}
}

func TestTempSet_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	set, err := fileutil.NewTempSet("concurrent")
	if err != nil {
		t.Fatalf("NewTempSet() error = %v", err)
	}
	defer set.Cleanup()

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := set.WriteFile("footer", "pdf", []byte("x")); err != nil {
				t.Errorf("WriteFile() error = %v", err)
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, p := range set.Paths() {
		if seen[p] {
			t.Errorf("duplicate path %s", p)
		}
		seen[p] = true
	}
	if len(seen) != n {
		t.Errorf("got %d unique paths, want %d", len(seen), n)
	}
}
