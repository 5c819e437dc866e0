package statementpdf

import (
	"fmt"
	"maps"
)

// Template variable keys read by the pipeline.
const (
	varGroupedInvoices = "groupedInvoices"
	varTransactions    = "transactions"
	varChunk           = "chunk"
	varCurrentPage     = "currentPage"
	varTotalPages      = "totalPages"
)

// invoice is one entry of groupedInvoices with its transaction rows.
type invoice struct {
	fields       map[string]any
	transactions []any
}

// withTransactions returns a shallow copy of the invoice holding only rows.
func (inv invoice) withTransactions(rows []any) map[string]any {
	out := maps.Clone(inv.fields)
	if out == nil {
		out = make(map[string]any, 1)
	}
	out[varTransactions] = rows
	return out
}

// groupedInvoices reads vars["groupedInvoices"]. A missing key or an empty
// list yields no invoices and no error.
func groupedInvoices(vars map[string]any) ([]invoice, error) {
	raw, ok := vars[varGroupedInvoices]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := asList(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, want a list", ErrMalformedInvoices, varGroupedInvoices, raw)
	}

	out := make([]invoice, 0, len(list))
	for i, item := range list {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: invoice %d is %T, want a mapping", ErrMalformedInvoices, i, item)
		}
		var txs []any
		if rawTxs, present := fields[varTransactions]; present && rawTxs != nil {
			txs, ok = asList(rawTxs)
			if !ok {
				return nil, fmt.Errorf("%w: invoice %d transactions is %T, want a list", ErrMalformedInvoices, i, rawTxs)
			}
		}
		out = append(out, invoice{fields: fields, transactions: txs})
	}
	return out, nil
}

// hasGroupedInvoices reports whether vars carries a non-empty invoice list.
func hasGroupedInvoices(vars map[string]any) bool {
	list, ok := asList(vars[varGroupedInvoices])
	return ok && len(list) > 0
}

// asList accepts the list shapes produced by YAML/JSON decoding and by Go callers.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

// withVars returns a shallow copy of vars with extra keys set.
func withVars(vars map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(vars)+len(extra))
	maps.Copy(out, vars)
	maps.Copy(out, extra)
	return out
}
