// Package fileutil provides temporary file handling for a single render request.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrTempSetClosed          = errors.New("temp set already cleaned up")
)

// tempPrefix names every file and directory this package creates.
const tempPrefix = "statementpdf-"

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", tempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// TempSet owns every temporary file created while serving one request.
// All files live in a private directory that Cleanup removes as a whole,
// so a file is never leaked even if its writer failed halfway.
// Safe for concurrent use.
type TempSet struct {
	mu     sync.Mutex
	dir    string
	paths  []string
	seq    int
	closed bool
}

// NewTempSet creates the private directory for a request.
// The tag is embedded in the directory name to ease debugging (e.g. a request id).
func NewTempSet(tag string) (*TempSet, error) {
	if strings.ContainsAny(tag, "/\\\x00") {
		return nil, ErrExtensionPathTraversal
	}
	dir, err := os.MkdirTemp("", tempPrefix+tag+"-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	return &TempSet{dir: dir}, nil
}

// Dir returns the directory holding the set's files.
func (s *TempSet) Dir() string {
	return s.dir
}

// WriteFile stores data in a new file of the set and returns its path.
// The name is "<stem>-<seq>.<extension>"; seq makes names unique within the set.
func (s *TempSet) WriteFile(stem, extension string, data []byte) (string, error) {
	if err := ValidateExtension(extension); err != nil {
		return "", err
	}
	if strings.ContainsAny(stem, "/\\\x00") {
		return "", ErrExtensionPathTraversal
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrTempSetClosed
	}
	s.seq++
	path := filepath.Join(s.dir, fmt.Sprintf("%s-%06d.%s", stem, s.seq, extension))
	s.paths = append(s.paths, path)
	s.mu.Unlock()

	// #nosec G306 -- private temp directory
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	return path, nil
}

// Paths returns the files created so far, in creation order.
func (s *TempSet) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Cleanup deletes every file of the set and its directory.
// Idempotent: calling it again is a no-op.
func (s *TempSet) Cleanup() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.paths = nil
	s.mu.Unlock()

	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("removing temp dir: %w", err)
	}
	return nil
}
