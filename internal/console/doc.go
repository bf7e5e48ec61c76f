// Package console runs the interactive question loop of the chat programs.
package console
