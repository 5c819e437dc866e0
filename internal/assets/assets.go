package assets

// Built-in asset names.
const (
	StatementTemplate = "statement"
	FooterTemplate    = "statement_footer"
	InvoiceTemplate   = "invoice"
	DefaultStyle      = "statement"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// TemplateNames lists the embedded template names, sorted.
func TemplateNames() []string {
	return defaultLoader.TemplateNames()
}
