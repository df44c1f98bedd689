package site

import (
	"fmt"
	"strings"
)

// placeholderName is the single substitution point the homepage template must
// contain.
const placeholderName = "readme"

// Expand substitutes $name and ${name} placeholders in tmpl with values from
// vars, with $$ as the escape for a literal dollar sign. Referencing a name
// missing from vars, or a dangling $, is an error. The set of names actually
// referenced is returned so callers can verify required placeholders.
func Expand(tmpl string, vars map[string]string) (string, map[string]bool, error) {
	var out strings.Builder
	used := make(map[string]bool)

	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		if c != '$' {
			out.WriteByte(c)
			i++
			continue
		}

		// c == '$'
		if i+1 >= len(tmpl) {
			return "", nil, fmt.Errorf("dangling $ at end of template")
		}
		next := tmpl[i+1]
		switch {
		case next == '$':
			out.WriteByte('$')
			i += 2
		case next == '{':
			end := strings.IndexByte(tmpl[i+2:], '}')
			if end < 0 {
				return "", nil, fmt.Errorf("unterminated ${ placeholder")
			}
			name := tmpl[i+2 : i+2+end]
			if !validPlaceholderName(name) {
				return "", nil, fmt.Errorf("invalid placeholder name %q", name)
			}
			val, ok := vars[name]
			if !ok {
				return "", nil, fmt.Errorf("unknown placeholder %q", name)
			}
			out.WriteString(val)
			used[name] = true
			i += 2 + end + 1
		case isIdentStart(next):
			j := i + 1
			for j < len(tmpl) && isIdentPart(tmpl[j]) {
				j++
			}
			name := tmpl[i+1 : j]
			val, ok := vars[name]
			if !ok {
				return "", nil, fmt.Errorf("unknown placeholder %q", name)
			}
			out.WriteString(val)
			used[name] = true
			i = j
		default:
			return "", nil, fmt.Errorf("invalid $ sequence at offset %d", i)
		}
	}

	return out.String(), used, nil
}

// Assemble substitutes the rendered fragment into the template's $readme
// placeholder. A template that never references the placeholder is malformed.
func Assemble(tmpl, fragment string) (string, error) {
	page, used, err := Expand(tmpl, map[string]string{placeholderName: fragment})
	if err != nil {
		return "", err
	}
	if !used[placeholderName] {
		return "", fmt.Errorf("template does not contain the $%s placeholder", placeholderName)
	}
	return page, nil
}

func validPlaceholderName(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentPart(name[i]) {
			return false
		}
	}
	return true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
