// Package yamlutil wraps YAML parsing to isolate the external dependency.
// Statement data files are JSON or YAML; both go through this package since
// JSON is a subset of YAML.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// Input size limits.
var (
	// MaxConfigSize limits config files (1MB).
	MaxConfigSize = 1 << 20

	// MaxDataSize limits statement data files (256MB); statements with
	// hundreds of thousands of transactions are expected.
	MaxDataSize = 256 << 20
)

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNotMapping     = errors.New("yamlutil: document root is not a mapping")
)

func validateInput(data []byte, v any, limit int) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > limit {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), limit)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// UnmarshalStrict decodes a config document, rejecting unknown fields.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v, MaxConfigSize); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// DecodeVariables decodes a statement data document into template variables.
// The root must be a mapping.
func DecodeVariables(data []byte) (map[string]any, error) {
	var root any
	if err := validateInput(data, &root, MaxDataSize); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	vars, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, root)
	}
	return vars, nil
}
