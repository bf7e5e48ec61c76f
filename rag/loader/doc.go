// Package loader provides the document loaders used to feed the indexer:
// PDF files (parsed by langchaingo) and plain text or markdown files.
package loader
