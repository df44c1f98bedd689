package site

import (
	"fmt"
	stdhtml "html"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// Rewriter replaces known inline-centered README blocks in rendered HTML with
// class-carrying equivalents. Both rewrites are optional: a fragment without
// the pattern passes through byte-identical, and at most one occurrence of
// each pattern is replaced.
type Rewriter struct {
	logo        *regexp.Regexp
	logoRepl    string
	tagline     *regexp.Regexp
	taglineRepl string
}

// NewRewriter builds the tolerant patterns from configuration. Empty config
// fields disable the corresponding rewrite.
func NewRewriter(cfg config.SiteConfig) *Rewriter {
	r := &Rewriter{}

	if cfg.LogoImage != "" {
		r.logo = regexp.MustCompile(fmt.Sprintf(
			`(?i)<p align=["']center["']>\s*<img\s+src=["']%s["']\s+alt=["']%s["']\s*/?>\s*</p>`,
			regexp.QuoteMeta(cfg.LogoImage), regexp.QuoteMeta(cfg.LogoAlt)))
		r.logoRepl = fmt.Sprintf(`<p class="readme__logo"><img src="%s" alt="%s" /></p>`,
			cfg.LogoImage, cfg.LogoAlt)
	}

	if cfg.Tagline != "" {
		r.tagline = regexp.MustCompile(fmt.Sprintf(
			`(?i)<p align=["']center["']>\s*%s\s*</p>`, taglineBody(cfg.Tagline)))
		r.taglineRepl = fmt.Sprintf(`<p class="readme__tagline">%s</p>`,
			stdhtml.EscapeString(cfg.Tagline))
	}

	return r
}

// RewriteResult carries the post-processed fragment and which rewrites fired.
type RewriteResult struct {
	HTML             []byte
	LogoRewritten    bool
	TaglineRewritten bool
}

// Apply runs both rewrites. Patterns not present are silently skipped.
func (r *Rewriter) Apply(html []byte) RewriteResult {
	result := RewriteResult{HTML: html}
	if r.logo != nil {
		result.HTML, result.LogoRewritten = replaceFirst(r.logo, result.HTML, r.logoRepl)
	}
	if r.tagline != nil {
		result.HTML, result.TaglineRewritten = replaceFirst(r.tagline, result.HTML, r.taglineRepl)
	}
	return result
}

// taglineBody converts the configured tagline text into a pattern tolerant of
// flexible whitespace and of `&` appearing entity-encoded in rendered output.
func taglineBody(text string) string {
	tokens := strings.Fields(text)
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			// Whitespace around a bare ampersand is optional in source HTML.
			if tok == "&" || tokens[i-1] == "&" {
				b.WriteString(`\s*`)
			} else {
				b.WriteString(`\s+`)
			}
		}
		quoted := regexp.QuoteMeta(tok)
		b.WriteString(strings.ReplaceAll(quoted, "&", `&(?:amp;)?`))
	}
	return b.String()
}

// replaceFirst replaces only the first match, leaving any later occurrence of
// the pattern untouched. The input slice is returned unchanged when there is
// no match.
func replaceFirst(re *regexp.Regexp, src []byte, repl string) ([]byte, bool) {
	loc := re.FindIndex(src)
	if loc == nil {
		return src, false
	}
	out := make([]byte, 0, len(src)-(loc[1]-loc[0])+len(repl))
	out = append(out, src[:loc[0]]...)
	out = append(out, repl...)
	out = append(out, src[loc[1]:]...)
	return out, true
}
