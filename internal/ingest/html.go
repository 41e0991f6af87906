package ingest

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedElements never contribute visible text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"svg":      true,
	"template": true,
}

// pageContent is the text extracted from one HTML document.
type pageContent struct {
	Title string
	Text  string
	Links []string
}

// parsePage extracts the readable text, title and same-document links
// from raw HTML. A parse failure returns the zero value; the HTML
// parser is lenient enough that this only happens on truncated input.
func parsePage(raw string) pageContent {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return pageContent{}
	}

	var out pageContent
	var text strings.Builder
	var walk func(n *html.Node, skip bool)
	walk = func(n *html.Node, skip bool) {
		switch n.Type {
		case html.ElementNode:
			if skippedElements[n.Data] {
				skip = true
			}
			if n.Data == "title" && n.FirstChild != nil {
				out.Title = strings.TrimSpace(n.FirstChild.Data)
			}
			if n.Data == "a" {
				for _, attr := range n.Attr {
					if attr.Key == "href" && attr.Val != "" {
						out.Links = append(out.Links, attr.Val)
					}
				}
			}
		case html.TextNode:
			if !skip {
				if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
					text.WriteString(trimmed)
					text.WriteByte('\n')
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child, skip)
		}
	}
	walk(root, false)

	out.Text = strings.TrimSpace(text.String())
	return out
}
