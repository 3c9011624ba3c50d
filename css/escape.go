package css

import (
	"strconv"
	"strings"
)

// EscapeClass escapes a class token so it can be used as a class selector
// (without leading dot). Characters outside of [A-Za-z0-9_-] and non-ASCII
// runes are backslash escaped, a leading digit (or a digit following a
// leading dash) is escaped by its code point as required by CSS syntax.
func EscapeClass(class string) string {
	// Fast path: nothing to escape.
	if isPlainIdent(class) {
		return class
	}

	var b strings.Builder
	b.Grow(len(class) + 8)
	for i, r := range class {
		switch {
		case r == 0:
			b.WriteString(`\fffd `)
		case r >= '0' && r <= '9' && (i == 0 || (i == 1 && class[0] == '-')):
			b.WriteByte('\\')
			b.WriteString(strconv.FormatInt(int64(r), 16))
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f:
			b.WriteByte('\\')
			b.WriteString(strconv.FormatInt(int64(r), 16))
			b.WriteByte(' ')
		case r == '-' && i == 0 && len(class) == 1:
			b.WriteString(`\-`)
		case r >= 0x80 || r == '-' || r == '_' || isAlnum(r):
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isPlainIdent(s string) bool {
	if s == "" || s == "-" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 || !(isAlnum(rune(c)) || c == '-' || c == '_') {
			return false
		}
	}
	if s[0] >= '0' && s[0] <= '9' {
		return false
	}
	if len(s) > 1 && s[0] == '-' && s[1] >= '0' && s[1] <= '9' {
		return false
	}
	return true
}

// IsIdent reports whether s can be used as a bare CSS identifier (for example
// an unquoted attribute selector value).
func IsIdent(s string) bool {
	if !isPlainIdent(s) {
		return false
	}
	return !strings.HasPrefix(s, "--")
}

// Quote returns s as a CSS double quoted string.
func Quote(s string) string {
	return `"` + cssEscapeDoubleQuoted(s) + `"`
}

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes and double quotes are escaped per CSS syntax: \" and \\.
func cssEscapeDoubleQuoted(s string) string {
	// Fast path: nothing to escape.
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
