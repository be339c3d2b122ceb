// Package sanitize strips active content from generated documents
// before they are stored or rendered. Body markup goes through a
// bluemonday policy; the head keeps only the fixed runtime assets the
// document shell depends on. Clean is idempotent: sanitizing already
// sanitized output is a no-op.
package sanitize

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// allowedAssetHosts are the only origins head scripts and stylesheets
// may load from. Everything the document shell emits resolves here.
var allowedAssetHosts = []string{
	"https://cdn.tailwindcss.com",
	"https://cdnjs.cloudflare.com/",
	"https://fonts.googleapis.com/",
	"https://fonts.gstatic.com/",
}

var bodyPolicy = newBodyPolicy()

// newBodyPolicy builds the bluemonday policy for body content: rich
// structural and text markup with classes and inline styles, no
// scripts, no event handlers, no javascript: URLs.
func newBodyPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowElements(
		"section", "header", "footer", "nav", "main", "aside", "article",
		"figure", "figcaption", "button", "form", "label", "input",
		"select", "option", "textarea", "span", "i",
	)
	p.AllowAttrs("class", "id").Globally()
	p.AllowAttrs("style").Globally()
	p.AllowAttrs("role", "aria-label", "aria-hidden", "aria-labelledby").Globally()
	p.AllowStyling()
	p.AllowImages()
	p.AllowLists()
	p.AllowTables()
	p.AllowAttrs("type", "placeholder", "name", "value").OnElements("input", "button", "textarea", "select", "option")
	p.AllowAttrs("for").OnElements("label")
	p.AllowAttrs("loading").OnElements("img")
	p.RequireNoFollowOnLinks(false)

	return p
}

// Clean sanitizes a complete generated document. Unparseable input
// degrades to body-policy sanitization of the whole string, which is
// strictly safer than returning it untouched.
func Clean(doc string) string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return bodyPolicy.Sanitize(doc)
	}

	head, body := findHeadBody(root)
	if body == nil {
		return bodyPolicy.Sanitize(doc)
	}

	var headHTML string
	if head != nil {
		filterHead(head)
		headHTML = renderChildren(head)
	}

	bodyHTML := bodyPolicy.Sanitize(renderChildren(body))

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>")
	sb.WriteString(headHTML)
	sb.WriteString("</head>\n<body>")
	sb.WriteString(bodyHTML)
	sb.WriteString("</body>\n</html>")
	return sb.String()
}

func findHeadBody(root *html.Node) (head, body *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "head":
				head = n
			case "body":
				body = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if head != nil && body != nil {
				return
			}
			walk(c)
		}
	}
	walk(root)
	return head, body
}

// filterHead removes every head child that is not a known-safe tag.
// Scripts survive only when they load from an allowed host or are the
// shell's inline tailwind.config block.
func filterHead(head *html.Node) {
	var drop []*html.Node
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if !headNodeAllowed(c) {
			drop = append(drop, c)
		}
	}
	for _, n := range drop {
		head.RemoveChild(n)
	}
}

func headNodeAllowed(n *html.Node) bool {
	if n.Type == html.TextNode {
		return true
	}
	if n.Type != html.ElementNode {
		return false
	}

	switch n.Data {
	case "meta", "title", "style":
		return true
	case "link":
		rel := attr(n, "rel")
		return rel == "stylesheet" && allowedAssetURL(attr(n, "href"))
	case "script":
		if src := attr(n, "src"); src != "" {
			return allowedAssetURL(src)
		}
		return strings.Contains(textContent(n), "tailwind.config")
	}
	return false
}

func allowedAssetURL(u string) bool {
	for _, prefix := range allowedAssetHosts {
		if u == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(u, prefix) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func renderChildren(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		// Render errors only occur on unrenderable node types, which
		// a parsed tree never contains.
		_ = html.Render(&buf, c)
	}
	return buf.String()
}
