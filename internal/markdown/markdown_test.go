package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convert(t *testing.T, source string) string {
	t.Helper()
	out, err := NewConverter(Options{}).Convert([]byte(source))
	require.NoError(t, err)
	return string(out)
}

func TestConvert_Fragment(t *testing.T) {
	html := convert(t, "# Hello\n\nworld\n")

	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "world")
	assert.NotContains(t, html, "<html>")
	assert.NotContains(t, html, "<body>")
}

func TestConvert_FencedCodeBlock(t *testing.T) {
	html := convert(t, "```\nfn main() {}\n```\n")

	assert.Contains(t, html, "<pre>")
	assert.Contains(t, html, "fn main()")
}

func TestConvert_Table(t *testing.T) {
	html := convert(t, "| a | b |\n|---|---|\n| 1 | 2 |\n")

	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>1</td>")
}

func TestConvert_RawHTMLPassthrough(t *testing.T) {
	html := convert(t, `<p align="center">centered</p>`+"\n\nand <del>gone</del> inline\n")

	assert.Contains(t, html, `<p align="center">centered</p>`)
	assert.Contains(t, html, "<del>gone</del>")
}

func TestConvert_HeadingIDs(t *testing.T) {
	html := convert(t, "## Getting Started\n")

	assert.Contains(t, html, `id="getting-started"`)
}

func TestConvert_TOCDirective(t *testing.T) {
	source := "[TOC]\n\n# Intro\n\n## Install\n\n## Usage\n\n# Reference\n"
	html := convert(t, source)

	require.NotContains(t, html, "[TOC]")
	assert.Contains(t, html, `<div class="toc">`)
	assert.Contains(t, html, `<a href="#intro">Intro</a>`)
	assert.Contains(t, html, `<a href="#install">Install</a>`)
	assert.Contains(t, html, `<a href="#reference">Reference</a>`)

	// Install/Usage nest under Intro.
	tocEnd := strings.Index(html, "</div>")
	require.Greater(t, tocEnd, 0)
	toc := html[:tocEnd]
	assert.Equal(t, 2, strings.Count(toc, "<ul>"), "expected one top-level and one nested list")
}

func TestConvert_TOCOnlyFirstMarkerReplaced(t *testing.T) {
	html := convert(t, "[TOC]\n\n# One\n\n[TOC]\n")

	assert.Contains(t, html, `<div class="toc">`)
	assert.Contains(t, html, "<p>[TOC]</p>")
}

func TestConvert_HighlightedCode(t *testing.T) {
	out, err := NewConverter(Options{HighlightStyle: "github"}).Convert([]byte("```go\npackage main\n```\n"))
	require.NoError(t, err)

	// chroma emits inline-styled spans instead of a bare code block
	assert.Contains(t, string(out), "<pre")
	assert.Contains(t, string(out), "style=")
}

func TestCollectHeadings_SkipsNonHeadings(t *testing.T) {
	source := "# Top\n\ntext\n\n### Deep\n"
	html := convert(t, "[TOC]\n\n"+source)

	assert.Contains(t, html, `<a href="#top">Top</a>`)
	assert.Contains(t, html, `<a href="#deep">Deep</a>`)
}

func TestRenderTOC_EscapesTitles(t *testing.T) {
	out := renderTOC([]Heading{{Level: 1, ID: "a-b", Title: "A & B"}})
	assert.Contains(t, string(out), "A &amp; B")
}

func TestRenderTOC_EmptyHeadings(t *testing.T) {
	out := renderTOC(nil)
	assert.Equal(t, "<div class=\"toc\">\n</div>", string(out))
}
