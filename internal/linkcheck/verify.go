package linkcheck

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/errors"
)

// BrokenLink describes an internal reference whose target does not exist.
type BrokenLink struct {
	Link   *Link
	Target string // resolved filesystem path that was checked
	Reason string
}

func (b *BrokenLink) String() string {
	return fmt.Sprintf("<%s %s=%q>: %s", b.Link.Tag, b.Link.Attribute, b.Link.URL, b.Reason)
}

// Report summarizes one verification run over a generated page.
type Report struct {
	Total    int // links extracted
	Internal int // internal links considered
	Skipped  int // anchors, mailto:, etc.
	External int // external links (not verified)
	Broken   []*BrokenLink
}

// OK reports whether every verified internal reference resolved.
func (r *Report) OK() bool { return len(r.Broken) == 0 }

// VerifyPage extracts links from the page at pagePath and checks every
// internal reference against contentDir. External links are counted but
// never fetched.
func VerifyPage(pagePath, contentDir string) (*Report, error) {
	links, err := ExtractLinks(pagePath)
	if err != nil {
		return nil, err
	}

	absContent, err := filepath.Abs(contentDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve content directory").
			WithContext("path", contentDir)
	}
	absContent = resolveSymlinks(absContent)
	pageDir := resolveSymlinks(filepath.Dir(pagePath))

	report := &Report{Total: len(links)}
	for _, link := range links {
		if !link.IsInternal {
			report.External++
			continue
		}
		if !shouldVerifyLink(link) {
			report.Skipped++
			continue
		}
		report.Internal++

		target, reason := resolveInternal(link.URL, pageDir, absContent)
		if reason != "" {
			report.Broken = append(report.Broken, &BrokenLink{Link: link, Target: target, Reason: reason})
			continue
		}
		if _, err := os.Stat(target); err != nil {
			report.Broken = append(report.Broken, &BrokenLink{
				Link:   link,
				Target: target,
				Reason: fmt.Sprintf("target does not exist: %s", target),
			})
		}
	}
	return report, nil
}

// resolveSymlinks evaluates symlinks so the escape check below compares real
// paths on both sides (a symlinked content dir would otherwise misclassify
// valid targets). Paths that cannot be resolved are used as-is.
func resolveSymlinks(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}

// resolveInternal maps an internal URL to a filesystem path. Root-relative
// paths resolve against the content directory, everything else against the
// directory of the page being checked. A non-empty reason means the link is
// broken without touching the filesystem.
func resolveInternal(linkURL, pageDir, contentDir string) (target, reason string) {
	u, err := url.Parse(linkURL)
	if err != nil {
		return "", fmt.Sprintf("unparseable URL: %v", err)
	}

	p := u.Path
	if p == "" {
		// Query-only or fragment-only reference, points at the page itself.
		return pageDir, ""
	}

	if strings.HasPrefix(p, "/") {
		target = filepath.Join(contentDir, filepath.FromSlash(p))
	} else {
		target = filepath.Join(pageDir, filepath.FromSlash(p))
	}

	// Directory references resolve to their index page.
	if strings.HasSuffix(p, "/") {
		target = filepath.Join(target, "index.html")
	}

	// Reject escapes from the content tree before stat'ing anything.
	abs, err := filepath.Abs(target)
	if err != nil {
		return target, fmt.Sprintf("cannot resolve path: %v", err)
	}
	if !strings.HasPrefix(abs, contentDir+string(filepath.Separator)) && abs != contentDir {
		return abs, "reference escapes the content directory"
	}
	return abs, ""
}
