package console

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var blankLines = regexp.MustCompile(`\n{3,}`)

// MarkdownToText renders markdown to HTML and keeps the text only, so
// replies read cleanly on terminals that do not render markdown.
func MarkdownToText(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.Render(doc, renderer)

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(string(rendered)))
	if err != nil {
		return md
	}
	dom.Find("script, style").Remove()
	dom.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})

	text := strings.TrimSpace(dom.Text())
	return blankLines.ReplaceAllString(text, "\n\n")
}
