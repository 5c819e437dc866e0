// Package markup transforms rendered report HTML before it reaches a
// rendering backend:
//   - Minify drops comments and redundant whitespace from very large chunks
//   - ExtractPageInfo lifts page-number placeholders out of the document flow
//   - InjectCSS adds a shared stylesheet
//   - Markdown renders free-text statement notes
//
// Nothing here changes how a document looks once rendered.
package markup
