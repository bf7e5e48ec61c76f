package tool

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// cleanSnippet strips markup from a search snippet and collapses whitespace.
// Search APIs highlight matches with tags such as <strong>.
func cleanSnippet(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}
