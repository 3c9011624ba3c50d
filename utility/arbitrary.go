package utility

import (
	"strings"

	"twc/css"
	"twc/variant"
)

// Arbitrary handles arbitrary properties: [mask-type:luminance],
// [--scroll-offset:56px].
func Arbitrary() Matcher {
	return newFamily(CategoryArbitrary, PriorityArbitrary, nil, []string{variant.ArbitraryPlaceholder}, func(c Candidate) []css.Property {
		if c.Base != variant.ArbitraryPlaceholder || !c.HasArbitrary {
			return nil
		}
		prop, raw, ok := strings.Cut(c.Arbitrary, ":")
		if !ok || !isPropertyName(prop) {
			return nil
		}
		value, _ := arbitraryValue(raw)
		if value == "" {
			return nil
		}
		return decl(prop, value)
	})
}

func isPropertyName(s string) bool {
	if s == "" || s == "-" || s == "--" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '-' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' && i > 0 || c == '_' && strings.HasPrefix(s, "--")) {
			return false
		}
	}
	return true
}

// Builtin returns all built-in matchers.
func Builtin() []Matcher {
	return []Matcher{
		Arbitrary(),
		BorderSpacing(),
		Typography(),
		BorderWidth(),
		Spacing(),
		Sizing(),
		Color(),
		Layout(),
		FlexGrid(),
		Radius(),
		Effects(),
		Filters(),
		Transforms(),
	}
}
