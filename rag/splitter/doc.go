// Package splitter cuts loaded documents into the segments that get embedded.
package splitter
