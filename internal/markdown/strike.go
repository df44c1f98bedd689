package markdown

import "regexp"

// strikePattern matches double-tilde spans. Non-greedy so adjacent spans are
// not merged; (?s) lets a span cross line boundaries.
var strikePattern = regexp.MustCompile(`(?s)~~(.*?)~~`)

// RewriteStrikethrough replaces every well-formed ~~text~~ span with an
// equivalent <del> span, preserving inner content exactly. This is a textual
// rewrite applied before rendering, not a markdown-aware transform; text with
// no remaining markers passes through unchanged, so the rewrite is idempotent
// on its own output.
func RewriteStrikethrough(source []byte) []byte {
	return strikePattern.ReplaceAll(source, []byte("<del>$1</del>"))
}
