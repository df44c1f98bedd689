package markdown

import (
	"bytes"
	"fmt"
	stdhtml "html"

	gmast "github.com/yuin/goldmark/ast"
)

// tocMarker is what Goldmark renders a lone [TOC] paragraph to.
var tocMarker = []byte("<p>[TOC]</p>")

// Heading is one table-of-contents entry.
type Heading struct {
	Level int
	ID    string
	Title string
}

// collectHeadings walks the parsed document and extracts headings with the
// IDs assigned by the auto-heading-ID parser option.
func collectHeadings(doc gmast.Node, source []byte) []Heading {
	var headings []Heading
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		entry := Heading{Level: h.Level, Title: headingText(h, source)}
		if id, found := h.AttributeString("id"); found {
			if b, ok := id.([]byte); ok {
				entry.ID = string(b)
			}
		}
		headings = append(headings, entry)
		return gmast.WalkSkipChildren, nil
	})
	return headings
}

// headingText concatenates the plain text content of a heading node.
func headingText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(child gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
		case *gmast.String:
			buf.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}

// renderTOC renders collected headings as a nested list wrapped in a
// div.toc container. An empty heading list yields an empty container so the
// marker never leaks into the output.
func renderTOC(headings []Heading) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<div class="toc">`)
	buf.WriteByte('\n')
	if len(headings) > 0 {
		writeTOCList(&buf, buildTOCTree(headings))
	}
	buf.WriteString("</div>")
	return buf.Bytes()
}

type tocNode struct {
	heading  Heading
	children []*tocNode
}

// buildTOCTree nests headings by level: a heading becomes a child of the
// closest preceding heading with a smaller level.
func buildTOCTree(headings []Heading) []*tocNode {
	var roots []*tocNode
	var stack []*tocNode
	for _, h := range headings {
		node := &tocNode{heading: h}
		for len(stack) > 0 && stack[len(stack)-1].heading.Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
		}
		stack = append(stack, node)
	}
	return roots
}

func writeTOCList(buf *bytes.Buffer, nodes []*tocNode) {
	buf.WriteString("<ul>\n")
	for _, node := range nodes {
		fmt.Fprintf(buf, `<li><a href="#%s">%s</a>`, node.heading.ID, stdhtml.EscapeString(node.heading.Title))
		if len(node.children) > 0 {
			buf.WriteByte('\n')
			writeTOCList(buf, node.children)
		}
		buf.WriteString("</li>\n")
	}
	buf.WriteString("</ul>\n")
}
