// Package markdown wraps the Goldmark renderer with the small set of
// behaviors the homepage pipeline relies on: tables, fenced code blocks with
// optional syntax highlighting, auto heading IDs, raw HTML passthrough and a
// [TOC] directive.
package markdown

import (
	"bytes"
	"fmt"

	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Options tunes the converter.
type Options struct {
	// HighlightStyle selects a chroma style for fenced code blocks.
	// Empty disables highlighting and leaves plain <pre><code> output.
	HighlightStyle string
}

// Converter renders Markdown source to an HTML fragment.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter constructs a Converter with the pipeline's extension set.
func NewConverter(opts Options) *Converter {
	extenders := []goldmark.Extender{
		extension.Table,
	}
	if opts.HighlightStyle != "" {
		extenders = append(extenders, highlighting.NewHighlighting(
			highlighting.WithStyle(opts.HighlightStyle),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extenders...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// README content legitimately contains raw HTML (centered logo block,
		// injected <del> spans), so it must pass through unescaped.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Converter{md: md}
}

// Convert renders source into a well-formed HTML fragment (no <html>/<body>
// wrapper). A paragraph consisting solely of the [TOC] marker is replaced
// with a table of contents built from the document's headings.
func (c *Converter) Convert(source []byte) ([]byte, error) {
	doc := c.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	out := buf.Bytes()
	if bytes.Contains(out, tocMarker) {
		out = bytes.Replace(out, tocMarker, renderTOC(collectHeadings(doc, source)), 1)
	}
	return out, nil
}
