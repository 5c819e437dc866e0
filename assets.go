package statementpdf

import (
	"fmt"

	"github.com/alnah/go-statementpdf/internal/assets"
)

// Built-in asset names.
const (
	// StatementTemplate renders a statement, chunk by chunk.
	StatementTemplate = assets.StatementTemplate

	// FooterTemplate renders one page footer from currentPage and totalPages.
	FooterTemplate = assets.FooterTemplate

	// InvoiceTemplate renders a single invoice on the direct path.
	InvoiceTemplate = assets.InvoiceTemplate
)

// AssetLoader loads HTML templates and CSS styles by name.
// Implementations may read from the filesystem, a database, object storage...
type AssetLoader interface {
	// LoadTemplate returns templates/{name}.html.
	LoadTemplate(name string) (string, error)

	// LoadStyle returns styles/{name}.css.
	LoadStyle(name string) (string, error)
}

var _ AssetLoader = (*assets.AssetResolver)(nil)

// NewAssetLoader returns a loader reading basePath/templates and
// basePath/styles first, falling back to the built-in assets.
// An empty basePath uses only the built-in assets.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return resolver, nil
}
