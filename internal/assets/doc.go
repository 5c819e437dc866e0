// Package assets provides the statement templates and stylesheets.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in templates and styles (go:embed)
//	    ├── FilesystemLoader  - templates and styles from a directory on disk
//	    └── AssetResolver     - custom directory first, embedded fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # e.g. statement.css
//	└── templates/
//	    └── {name}.html          # e.g. statement.html, statement_footer.html
//
// # Built-in assets
//
// The statement template renders a header, one section per invoice with its
// transaction rows, and a page-info placeholder used for page numbering. The
// statement_footer template renders the footer band of a single page; it
// receives currentPage and totalPages next to the statement variables. The
// invoice template renders a single invoice document.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
