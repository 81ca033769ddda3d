package compat

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var allowedTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "ul": true, "ol": true, "li": true, "br": true,
	"strong": true, "em": true, "b": true, "i": true, "a": true,
}

const droppedTags = "script, style, iframe, object, embed, form, input, button, textarea, select, link, meta, noscript, svg, math, template, head, title"

var spaceRun = regexp.MustCompile(`[ \t]+`)

// SanitizeHTML reduces model-authored markup to headings, paragraphs, lists,
// emphasis and http(s) links. Every other element is unwrapped or dropped.
func SanitizeHTML(in string) string {
	if strings.TrimSpace(in) == "" {
		return ""
	}
	root, err := parseFragment(in)
	if err != nil {
		return ""
	}
	root.Find(droppedTags).Remove()

	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		if !allowedTags[tag] {
			if s.Contents().Length() == 0 {
				s.Remove()
				return
			}
			s.Contents().Unwrap()
			return
		}
		node := s.Get(0)
		href, hasHref := s.Attr("href")
		node.Attr = node.Attr[:0]
		if tag == "a" {
			if hasHref && safeURL(href) {
				s.SetAttr("href", strings.TrimSpace(href))
				s.SetAttr("rel", "noopener noreferrer")
			} else {
				s.Contents().Unwrap()
			}
		}
	})

	out, err := root.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// StripHTML renders markup as plain text with one block per line.
func StripHTML(in string) string {
	if strings.TrimSpace(in) == "" {
		return ""
	}
	root, err := parseFragment(in)
	if err != nil {
		return ""
	}
	root.Find("script, style").Remove()
	root.Find("li").PrependHtml("- ")
	root.Find("p, li, br, div, tr, h1, h2, h3, h4, h5, h6").AfterHtml("\n")

	lines := strings.Split(root.Text(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// parseFragment parses markup in a <body> context and hangs the resulting
// nodes under a detached container, so stray end tags cannot close it.
func parseFragment(in string) (*goquery.Selection, error) {
	nodes, err := html.ParseFragment(strings.NewReader(in), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, err
	}
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(container).Selection, nil
}

func safeURL(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "https://") || strings.HasPrefix(href, "http://")
}
