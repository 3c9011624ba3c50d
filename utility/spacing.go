package utility

import (
	"twc/css"
)

var paddingProps = map[string][]string{
	"p":  {"padding"},
	"px": {"padding-left", "padding-right"},
	"py": {"padding-top", "padding-bottom"},
	"pt": {"padding-top"},
	"pr": {"padding-right"},
	"pb": {"padding-bottom"},
	"pl": {"padding-left"},
	"ps": {"padding-inline-start"},
	"pe": {"padding-inline-end"},
}

var marginProps = map[string][]string{
	"m":  {"margin"},
	"mx": {"margin-left", "margin-right"},
	"my": {"margin-top", "margin-bottom"},
	"mt": {"margin-top"},
	"mr": {"margin-right"},
	"mb": {"margin-bottom"},
	"ml": {"margin-left"},
	"ms": {"margin-inline-start"},
	"me": {"margin-inline-end"},
}

var gapProps = map[string][]string{
	"gap":   {"gap"},
	"gap-x": {"column-gap"},
	"gap-y": {"row-gap"},
}

// Spacing handles padding, margin (negative and auto included) and gap.
func Spacing() Matcher {
	props := make(map[string][]string, len(paddingProps)+len(marginProps)+len(gapProps))
	var wildcards []string
	for _, t := range []map[string][]string{paddingProps, marginProps, gapProps} {
		for p, v := range t {
			props[p] = v
			wildcards = append(wildcards, p+"-*")
		}
	}
	for p := range marginProps {
		wildcards = append(wildcards, "-"+p+"-*")
	}
	return newFamily(CategorySpacing, PriorityGeneric, nil, sortedPatterns(wildcards), func(c Candidate) []css.Property {
		prefix, rest, negative, targets, ok := cutPrefix(c.Base, props)
		if !ok {
			return nil
		}
		_, isMargin := marginProps[prefix]
		if negative && !isMargin {
			return nil
		}
		value, ok := spacingValue(c, rest)
		if !ok {
			if isMargin && rest == "auto" && !negative {
				return each(targets, "auto")
			}
			return nil
		}
		if negative {
			value = negate(value)
		}
		return each(targets, value)
	})
}

// spacingValue resolves scale step or arbitrary length.
func spacingValue(c Candidate, rest string) (string, bool) {
	if v, _, ok := bracketed(c, rest); ok {
		return v, true
	}
	if c.HasArbitrary {
		return "", false
	}
	return spacing(rest)
}

var sizingProps = map[string][]string{
	"w":     {"width"},
	"h":     {"height"},
	"size":  {"width", "height"},
	"min-w": {"min-width"},
	"min-h": {"min-height"},
	"max-w": {"max-width"},
	"max-h": {"max-height"},
}

var containerSizes = map[string]string{
	"3xs":   "16rem",
	"2xs":   "18rem",
	"xs":    "20rem",
	"sm":    "24rem",
	"md":    "28rem",
	"lg":    "32rem",
	"xl":    "36rem",
	"2xl":   "42rem",
	"3xl":   "48rem",
	"4xl":   "56rem",
	"5xl":   "64rem",
	"6xl":   "72rem",
	"7xl":   "80rem",
	"prose": "65ch",
}

// Sizing handles width and height utilities including min and max forms.
func Sizing() Matcher {
	var wildcards []string
	for p := range sizingProps {
		wildcards = append(wildcards, p+"-*")
	}
	return newFamily(CategorySizing, PriorityGeneric, nil, sortedPatterns(wildcards), func(c Candidate) []css.Property {
		prefix, rest, negative, targets, ok := cutPrefix(c.Base, sizingProps)
		if !ok || negative {
			return nil
		}
		if v, _, ok := bracketed(c, rest); ok {
			return each(targets, v)
		}
		if c.HasArbitrary {
			return nil
		}
		if v, ok := sizeValue(prefix, rest); ok {
			return each(targets, v)
		}
		return nil
	})
}

func sizeValue(prefix, rest string) (string, bool) {
	if v, ok := spacing(rest); ok {
		return v, true
	}
	if v, ok := fraction(rest); ok {
		return v, true
	}
	vertical := prefix == "h" || prefix == "min-h" || prefix == "max-h"
	switch rest {
	case "auto":
		if prefix == "min-w" || prefix == "min-h" {
			return "", false
		}
		return "auto", true
	case "full":
		return "100%", true
	case "min":
		return "min-content", true
	case "max":
		return "max-content", true
	case "fit":
		return "fit-content", true
	case "none":
		if prefix == "max-w" || prefix == "max-h" {
			return "none", true
		}
	case "screen":
		if vertical {
			return "100vh", true
		}
		return "100vw", true
	case "dvh", "svh", "lvh":
		if vertical {
			return "100" + rest, true
		}
	case "dvw", "svw", "lvw":
		if !vertical {
			return "100" + rest, true
		}
	}
	if prefix == "max-w" {
		if v, ok := containerSizes[rest]; ok {
			return v, true
		}
	}
	return "", false
}
