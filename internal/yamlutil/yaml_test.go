package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-statementpdf/internal/yamlutil"
)

type testConfig struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Config decoding
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		anyErr  bool
	}{
		{name: "valid", data: []byte("name: a\ncount: 2"), dest: &testConfig{}},
		{name: "nil data", data: nil, dest: &testConfig{}, wantErr: yamlutil.ErrNilData},
		{name: "nil destination", data: []byte("name: a"), dest: nil, wantErr: yamlutil.ErrNilDestination},
		{name: "unknown field", data: []byte("name: a\nbogus: 1"), dest: &testConfig{}, anyErr: true},
		{
			name:    "too large",
			data:    []byte("name: " + strings.Repeat("x", yamlutil.MaxConfigSize)),
			dest:    &testConfig{},
			wantErr: yamlutil.ErrInputTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
				}
			case tt.anyErr:
				if err == nil {
					t.Error("UnmarshalStrict() expected error, got nil")
				}
			default:
				if err != nil {
					t.Errorf("UnmarshalStrict() unexpected error: %v", err)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDecodeVariables - Statement data decoding
// ---------------------------------------------------------------------------

func TestDecodeVariables_YAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
customer: ACME
groupedInvoices:
  - number: INV-1
    transactions:
      - {description: fee, amount: 10}
      - {description: tax, amount: 2}
`)
	vars, err := yamlutil.DecodeVariables(data)
	if err != nil {
		t.Fatalf("DecodeVariables() error = %v", err)
	}
	if vars["customer"] != "ACME" {
		t.Errorf("customer = %v, want ACME", vars["customer"])
	}
	invoices, ok := vars["groupedInvoices"].([]any)
	if !ok || len(invoices) != 1 {
		t.Fatalf("groupedInvoices = %#v, want one invoice", vars["groupedInvoices"])
	}
	inv, ok := invoices[0].(map[string]any)
	if !ok {
		t.Fatalf("invoice = %T, want map", invoices[0])
	}
	txs, ok := inv["transactions"].([]any)
	if !ok || len(txs) != 2 {
		t.Errorf("transactions = %#v, want 2 rows", inv["transactions"])
	}
}

func TestDecodeVariables_JSON(t *testing.T) {
	t.Parallel()

	vars, err := yamlutil.DecodeVariables([]byte(`{"groupedInvoices": [], "title": "Statement"}`))
	if err != nil {
		t.Fatalf("DecodeVariables() error = %v", err)
	}
	if vars["title"] != "Statement" {
		t.Errorf("title = %v, want Statement", vars["title"])
	}
}

func TestDecodeVariables_RootNotMapping(t *testing.T) {
	t.Parallel()

	_, err := yamlutil.DecodeVariables([]byte("- a\n- b\n"))
	if !errors.Is(err, yamlutil.ErrNotMapping) {
		t.Errorf("DecodeVariables() error = %v, want %v", err, yamlutil.ErrNotMapping)
	}
}

func TestDecodeVariables_Empty(t *testing.T) {
	t.Parallel()

	if _, err := yamlutil.DecodeVariables(nil); !errors.Is(err, yamlutil.ErrNilData) {
		t.Errorf("DecodeVariables(nil) error = %v, want %v", err, yamlutil.ErrNilData)
	}
}
