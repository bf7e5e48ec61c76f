// Package store holds the in-memory vector store segments are indexed into,
// plus a deterministic embedder for tests and offline runs.
package store
