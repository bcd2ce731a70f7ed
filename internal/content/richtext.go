// ABOUTME: Rich-text helpers for idea content
// ABOUTME: Extracts visible text from HTML and renders markdown submissions to HTML

package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Content formats accepted on input. Content is always stored as HTML.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown converts markdown to HTML. Raw HTML in the source is not passed through.
func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// visibleText returns the whitespace-collapsed text a reader would see in an HTML
// fragment, skipping script, style and template contents.
func visibleText(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template, atom.Noscript:
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	for _, n := range nodes {
		f(n)
	}

	return strings.Join(strings.Fields(sb.String()), " "), nil
}

// normalizeContent renders content to HTML according to format and checks that it
// has visible text.
func normalizeContent(content, format string) (string, error) {
	switch format {
	case "", FormatHTML:
	case FormatMarkdown:
		rendered, err := renderMarkdown(content)
		if err != nil {
			return "", &ValidationError{Field: "content", Message: err.Error()}
		}
		content = rendered
	default:
		return "", &ValidationError{Field: "content_format", Message: fmt.Sprintf("unknown format %q", format)}
	}

	text, err := visibleText(content)
	if err != nil {
		return "", &ValidationError{Field: "content", Message: err.Error()}
	}
	if text == "" {
		return "", &ValidationError{Field: "content", Message: "content is required"}
	}
	return content, nil
}
