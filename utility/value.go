package utility

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"twc/css"
	"twc/variant"
)

// family is the common shape of built-in matchers: a table of exact base
// names plus an optional parser for value-carrying bases.
type family struct {
	desc    Descriptor
	statics map[string][]css.Property
	parse   func(c Candidate) []css.Property
}

func newFamily(cat Category, prio uint32, statics map[string][]css.Property, wildcards []string, parse func(Candidate) []css.Property) *family {
	patterns := make([]string, 0, len(statics)+len(wildcards))
	for name := range statics {
		patterns = append(patterns, name)
	}
	sort.Strings(patterns)
	patterns = append(patterns, wildcards...)
	return &family{
		desc:    Descriptor{Priority: prio, Category: cat, Patterns: patterns},
		statics: statics,
		parse:   parse,
	}
}

func (f *family) Describe() Descriptor {
	d := f.desc
	d.Patterns = slices.Clone(f.desc.Patterns)
	return d
}

func (f *family) Parse(c Candidate) []css.Property {
	if !c.HasArbitrary {
		if decls, ok := f.statics[c.Base]; ok {
			return slices.Clone(decls)
		}
	}
	if f.parse == nil {
		return nil
	}
	return f.parse(c)
}

// decl is a shortcut for declaration list construction.
func decl(kv ...string) []css.Property {
	if len(kv)%2 != 0 {
		panic("decl: odd number of arguments")
	}
	out := make([]css.Property, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		out = append(out, css.Property{Name: kv[i], Value: kv[i+1]})
	}
	return out
}

// each returns declarations setting every property to value.
func each(props []string, value string) []css.Property {
	out := make([]css.Property, 0, len(props))
	for _, p := range props {
		out = append(out, css.Property{Name: p, Value: value})
	}
	return out
}

// cutPrefix finds the longest prefix from table such that base is
// "prefix-rest". Leading dash of base is reported as negative. Table keys
// must not start with dash.
func cutPrefix[T any](base string, table map[string]T) (prefix, rest string, negative bool, val T, ok bool) {
	if strings.HasPrefix(base, "-") {
		negative = true
		base = base[1:]
	}
	best := -1
	for p := range table {
		if len(p) > best && len(base) > len(p)+1 && base[len(p)] == '-' && strings.HasPrefix(base, p) {
			best = len(p)
			prefix = p
		}
	}
	if best < 0 {
		return "", "", false, val, false
	}
	return prefix, base[len(prefix)+1:], negative, table[prefix], true
}

// arbitraryValue converts bracket content into CSS value: underscores stand
// for spaces unless escaped, an optional type hint ("length:", "color:") is
// returned separately.
func arbitraryValue(raw string) (value, hint string) {
	if i := strings.IndexByte(raw, ':'); i > 0 {
		switch raw[:i] {
		case "length", "color", "number", "percentage", "url", "family-name", "absolute-size":
			hint, raw = raw[:i], raw[i+1:]
		}
	}
	var sb strings.Builder
	sb.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		switch {
		case raw[i] == '\\' && i+1 < len(raw) && raw[i+1] == '_':
			sb.WriteByte('_')
			i++
		case raw[i] == '_':
			sb.WriteByte(' ')
		default:
			sb.WriteByte(raw[i])
		}
	}
	return strings.TrimSpace(sb.String()), hint
}

// bracketed returns arbitrary value when rest is exactly the placeholder.
func bracketed(c Candidate, rest string) (string, string, bool) {
	if !c.HasArbitrary || rest != variant.ArbitraryPlaceholder {
		return "", "", false
	}
	v, hint := arbitraryValue(c.Arbitrary)
	if v == "" {
		return "", "", false
	}
	return v, hint, true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// spacing converts spacing scale step into length: 4 -> 1rem, 0.5 ->
// 0.125rem, px -> 1px.
func spacing(step string) (string, bool) {
	switch step {
	case "px":
		return "1px", true
	case "0":
		return "0px", true
	}
	n, err := strconv.ParseFloat(step, 64)
	if err != nil || n < 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return "", false
	}
	// only whole and half steps are on the scale
	if n*2 != math.Trunc(n*2) || strings.ContainsAny(step, "eE+") {
		return "", false
	}
	return formatFloat(n*0.25) + "rem", true
}

// fraction converts "1/2" into percentage.
func fraction(s string) (string, bool) {
	a, b, ok := strings.Cut(s, "/")
	if !ok {
		return "", false
	}
	num, err1 := strconv.Atoi(a)
	den, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil || num < 0 || den <= 0 {
		return "", false
	}
	return percent(float64(num) * 100 / float64(den)), true
}

func percent(f float64) string {
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s + "%"
}

// integer parses non-negative decimal integer.
func integer(s string) (int, bool) {
	if s == "" || strings.ContainsAny(s, "+-") {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ratio converts integer percentage step into factor: 50 -> 0.5.
func ratio(s string) (string, bool) {
	n, ok := integer(s)
	if !ok {
		return "", false
	}
	u, err := safecast.Conv[uint32](n)
	if err != nil {
		return "", false
	}
	return formatFloat(float64(u) / 100), true
}

// negate returns negative form of CSS value.
func negate(v string) string {
	switch {
	case v == "0px" || v == "0" || v == "0%":
		return v
	case v != "" && (v[0] >= '0' && v[0] <= '9' || v[0] == '.'):
		return "-" + v
	default:
		return "calc(" + v + " * -1)"
	}
}

// looksLikeLength is used to tell font sizes and border widths from colors
// in arbitrary values.
func looksLikeLength(v string) bool {
	if v == "" {
		return false
	}
	if c := v[0]; c >= '0' && c <= '9' || c == '.' {
		return true
	}
	for _, fn := range []string{"calc(", "clamp(", "min(", "max("} {
		if strings.HasPrefix(v, fn) {
			return true
		}
	}
	return false
}

// looksLikeColor accepts hex colors, color functions and plain keywords.
func looksLikeColor(v string) bool {
	if v == "" {
		return false
	}
	if v[0] == '#' {
		return len(v) > 1
	}
	for _, fn := range []string{"rgb(", "rgba(", "hsl(", "hsla(", "hwb(", "lab(", "lch(", "oklab(", "oklch(", "color(", "color-mix(", "var(--"} {
		if strings.HasPrefix(v, fn) {
			return true
		}
	}
	return css.IsIdent(v) && !looksLikeLength(v)
}

func sortedPatterns(p []string) []string {
	sort.Strings(p)
	return p
}
