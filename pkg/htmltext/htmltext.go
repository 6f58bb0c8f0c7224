// Package htmltext converts rendered WordPress HTML fragments to plain
// text: script/style subtrees are discarded, block-level elements collapse
// to line breaks, and entities are decoded. The conversion is deterministic
// so re-running a dump reproduces identical text files.
package htmltext

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// blockTags end a visual line; their close emits a line break.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"article": true, "section": true, "header": true, "footer": true,
	"nav": true, "main": true, "blockquote": true, "pre": true,
	"table": true, "tr": true,
}

var excessBlankLines = regexp.MustCompile(`\n{3,}`)

// Text strips fragment down to plain text. Invalid or empty markup yields
// an empty string rather than an error; a record with no extractable text
// is the caller's skip decision, not a failure.
func Text(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	doc.Find("script,style,noscript").Remove()

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			b.WriteByte('\n')
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}

	return tidy(b.String())
}

// tidy trims per-line whitespace and collapses runs of blank lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = excessBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Salvage runs readability's article extraction over fragment. It is the
// fallback when Text finds nothing but the markup is clearly non-empty,
// which happens with pages built entirely out of theme markup. link gives
// readability a resolution base and may be empty.
func Salvage(fragment, link string) string {
	base, err := url.Parse(link)
	if err != nil {
		base = &url.URL{}
	}
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(fragment), base)
	if err != nil {
		return ""
	}
	return tidy(article.TextContent)
}
