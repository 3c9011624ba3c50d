package utility

import (
	"strings"

	"twc/css"
)

var borderWidthProps = map[string][]string{
	"border":   {"border-width"},
	"border-x": {"border-left-width", "border-right-width"},
	"border-y": {"border-top-width", "border-bottom-width"},
	"border-t": {"border-top-width"},
	"border-r": {"border-right-width"},
	"border-b": {"border-bottom-width"},
	"border-l": {"border-left-width"},
	"border-s": {"border-inline-start-width"},
	"border-e": {"border-inline-end-width"},
}

const ringShadow = "0 0 0 var(--tw-ring-width) var(--tw-ring-color, rgb(59 130 246 / 0.5))"

func borderStatics() map[string][]css.Property {
	m := map[string][]css.Property{
		"outline":        decl("outline-style", "solid"),
		"outline-none":   decl("outline", "2px solid transparent", "outline-offset", "2px"),
		"outline-dashed": decl("outline-style", "dashed"),
		"outline-dotted": decl("outline-style", "dotted"),
		"outline-double": decl("outline-style", "double"),
		"ring":           decl("--tw-ring-width", "3px", "box-shadow", ringShadow),
		"ring-inset":     decl("--tw-ring-inset", "inset"),
	}
	for p, props := range borderWidthProps {
		m[p] = each(props, "1px")
	}
	for _, s := range []string{"solid", "dashed", "dotted", "double", "hidden", "none"} {
		m["border-"+s] = decl("border-style", s)
	}
	return m
}

// BorderWidth handles border, outline and ring widths and styles. It
// outranks color utilities sharing the same prefixes.
func BorderWidth() Matcher {
	wildcards := []string{"border-*", "outline-*", "ring-*"}
	return newFamily(CategoryBorder, PrioritySpecific, borderStatics(), wildcards, func(c Candidate) []css.Property {
		if rest, ok := cutWord(c.Base, "outline"); ok {
			if after, ok := strings.CutPrefix(rest, "offset-"); ok {
				if v, ok := lineWidth(c, after); ok {
					return decl("outline-offset", v)
				}
				return nil
			}
			if v, ok := lineWidth(c, rest); ok {
				return decl("outline-width", v)
			}
			return nil
		}
		if rest, ok := cutWord(c.Base, "ring"); ok {
			if v, ok := lineWidth(c, rest); ok {
				return decl("--tw-ring-width", v, "box-shadow", ringShadow)
			}
			return nil
		}
		_, rest, negative, targets, ok := cutPrefix(c.Base, borderWidthProps)
		if !ok || negative {
			return nil
		}
		if v, ok := lineWidth(c, rest); ok {
			return each(targets, v)
		}
		return nil
	})
}

// lineWidth accepts integer pixel widths and arbitrary lengths.
func lineWidth(c Candidate, rest string) (string, bool) {
	if v, hint, ok := bracketed(c, rest); ok {
		if hint == "length" || hint == "" && looksLikeLength(v) {
			return v, true
		}
		return "", false
	}
	if c.HasArbitrary {
		return "", false
	}
	if _, ok := integer(rest); ok {
		return rest + "px", true
	}
	return "", false
}

// BorderSpacing handles table border spacing. It is the most specific of
// "border-" utilities.
func BorderSpacing() Matcher {
	return newFamily(CategoryBorder, PrioritySpecialized, nil, []string{"border-spacing-*"}, func(c Candidate) []css.Property {
		rest, ok := cutWord(c.Base, "border-spacing")
		if !ok {
			return nil
		}
		axis := ""
		if after, ok := strings.CutPrefix(rest, "x-"); ok {
			axis, rest = "x", after
		} else if after, ok := strings.CutPrefix(rest, "y-"); ok {
			axis, rest = "y", after
		}
		v, ok := spacingValue(c, rest)
		if !ok {
			return nil
		}
		const value = "var(--tw-border-spacing-x) var(--tw-border-spacing-y)"
		switch axis {
		case "x":
			return decl("--tw-border-spacing-x", v, "border-spacing", value)
		case "y":
			return decl("--tw-border-spacing-y", v, "border-spacing", value)
		default:
			return decl("--tw-border-spacing-x", v, "--tw-border-spacing-y", v, "border-spacing", value)
		}
	})
}

var radii = map[string]string{
	"none": "0px",
	"sm":   "0.125rem",
	"":     "0.25rem",
	"md":   "0.375rem",
	"lg":   "0.5rem",
	"xl":   "0.75rem",
	"2xl":  "1rem",
	"3xl":  "1.5rem",
	"full": "9999px",
}

var radiusCorners = map[string][]string{
	"":   {"border-radius"},
	"t":  {"border-top-left-radius", "border-top-right-radius"},
	"r":  {"border-top-right-radius", "border-bottom-right-radius"},
	"b":  {"border-bottom-right-radius", "border-bottom-left-radius"},
	"l":  {"border-top-left-radius", "border-bottom-left-radius"},
	"s":  {"border-start-start-radius", "border-end-start-radius"},
	"e":  {"border-start-end-radius", "border-end-end-radius"},
	"tl": {"border-top-left-radius"},
	"tr": {"border-top-right-radius"},
	"br": {"border-bottom-right-radius"},
	"bl": {"border-bottom-left-radius"},
}

// Radius handles border radius utilities: rounded, rounded-lg, rounded-t-md.
func Radius() Matcher {
	return newFamily(CategoryBorder, PriorityGeneric, nil, []string{"rounded", "rounded-*"}, func(c Candidate) []css.Property {
		if c.Base == "rounded" {
			return decl("border-radius", radii[""])
		}
		rest, ok := cutWord(c.Base, "rounded")
		if !ok {
			return nil
		}
		side, size := "", rest
		if s, after, found := strings.Cut(rest, "-"); found {
			if _, ok := radiusCorners[s]; ok {
				side, size = s, after
			}
		} else if _, ok := radiusCorners[rest]; ok {
			side, size = rest, ""
		}
		targets := radiusCorners[side]
		if v, _, ok := bracketed(c, size); ok {
			return each(targets, v)
		}
		if c.HasArbitrary {
			return nil
		}
		if v, ok := radii[size]; ok {
			return each(targets, v)
		}
		return nil
	})
}
