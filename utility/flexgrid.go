package utility

import (
	"strconv"

	"twc/css"
)

func flexGridStatics() map[string][]css.Property {
	m := map[string][]css.Property{
		"flex-row":          decl("flex-direction", "row"),
		"flex-row-reverse":  decl("flex-direction", "row-reverse"),
		"flex-col":          decl("flex-direction", "column"),
		"flex-col-reverse":  decl("flex-direction", "column-reverse"),
		"flex-wrap":         decl("flex-wrap", "wrap"),
		"flex-wrap-reverse": decl("flex-wrap", "wrap-reverse"),
		"flex-nowrap":       decl("flex-wrap", "nowrap"),
		"flex-1":            decl("flex", "1 1 0%"),
		"flex-auto":         decl("flex", "1 1 auto"),
		"flex-initial":      decl("flex", "0 1 auto"),
		"flex-none":         decl("flex", "none"),
		"grow":              decl("flex-grow", "1"),
		"grow-0":            decl("flex-grow", "0"),
		"shrink":            decl("flex-shrink", "1"),
		"shrink-0":          decl("flex-shrink", "0"),

		"grid-flow-row":       decl("grid-auto-flow", "row"),
		"grid-flow-col":       decl("grid-auto-flow", "column"),
		"grid-flow-dense":     decl("grid-auto-flow", "dense"),
		"grid-flow-row-dense": decl("grid-auto-flow", "row dense"),
		"grid-flow-col-dense": decl("grid-auto-flow", "column dense"),
		"grid-cols-none":      decl("grid-template-columns", "none"),
		"grid-cols-subgrid":   decl("grid-template-columns", "subgrid"),
		"grid-rows-none":      decl("grid-template-rows", "none"),
		"grid-rows-subgrid":   decl("grid-template-rows", "subgrid"),
		"col-auto":            decl("grid-column", "auto"),
		"col-span-full":       decl("grid-column", "1 / -1"),
		"row-auto":            decl("grid-row", "auto"),
		"row-span-full":       decl("grid-row", "1 / -1"),
	}
	align := map[string]string{
		"start":    "flex-start",
		"end":      "flex-end",
		"center":   "center",
		"between":  "space-between",
		"around":   "space-around",
		"evenly":   "space-evenly",
		"stretch":  "stretch",
		"baseline": "baseline",
		"normal":   "normal",
	}
	for k, v := range align {
		if k != "baseline" {
			m["justify-"+k] = decl("justify-content", v)
			m["content-"+k] = decl("align-content", v)
		}
		switch k {
		case "start", "end", "center", "stretch", "baseline":
			m["items-"+k] = decl("align-items", v)
			m["self-"+k] = decl("align-self", v)
			m["place-items-"+k] = decl("place-items", k)
			m["place-self-"+k] = decl("place-self", k)
			if k != "baseline" {
				m["place-content-"+k] = decl("place-content", k)
			}
		case "between", "around", "evenly":
			m["place-content-"+k] = decl("place-content", v)
		}
	}
	m["self-auto"] = decl("align-self", "auto")
	m["place-self-auto"] = decl("place-self", "auto")
	return m
}

var flexGridWords = map[string]string{
	"flex":   "flex",
	"basis":  "flex-basis",
	"grow":   "flex-grow",
	"shrink": "flex-shrink",
	"order":  "order",

	"grid-cols": "grid-template-columns",
	"grid-rows": "grid-template-rows",
	"col-span":  "grid-column",
	"col-start": "grid-column-start",
	"col-end":   "grid-column-end",
	"row-span":  "grid-row",
	"row-start": "grid-row-start",
	"row-end":   "grid-row-end",
}

// FlexGrid handles flexbox and grid container and item utilities.
func FlexGrid() Matcher {
	wildcards := []string{"-order-*", "col-*", "row-*"}
	for w := range flexGridWords {
		switch w {
		case "col-span", "col-start", "col-end", "row-span", "row-start", "row-end":
			// covered by col-* and row-*
		default:
			wildcards = append(wildcards, w+"-*")
		}
	}
	return newFamily(CategoryFlexGrid, PriorityGeneric, flexGridStatics(), sortedPatterns(wildcards), parseFlexGrid)
}

func parseFlexGrid(c Candidate) []css.Property {
	word, rest, negative, prop, ok := cutPrefix(c.Base, flexGridWords)
	if !ok || negative && word != "order" {
		return nil
	}
	if v, _, ok := bracketed(c, rest); ok {
		if negative {
			v = negate(v)
		}
		return decl(prop, v)
	}
	if c.HasArbitrary {
		return nil
	}

	switch word {
	case "basis":
		if v, ok := sizeValue("w", rest); ok && rest != "screen" {
			return decl(prop, v)
		}
	case "grow", "shrink":
		if _, ok := integer(rest); ok {
			return decl(prop, rest)
		}
	case "order":
		switch rest {
		case "first":
			return decl(prop, "-9999")
		case "last":
			return decl(prop, "9999")
		case "none":
			return decl(prop, "0")
		}
		if n, ok := integer(rest); ok && n > 0 {
			if negative {
				return decl(prop, "-"+rest)
			}
			return decl(prop, rest)
		}
	case "grid-cols", "grid-rows":
		if n, ok := integer(rest); ok && n > 0 {
			return decl(prop, "repeat("+strconv.Itoa(n)+", minmax(0, 1fr))")
		}
	case "col-span", "row-span":
		if n, ok := integer(rest); ok && n > 0 {
			return decl(prop, "span "+strconv.Itoa(n)+" / span "+strconv.Itoa(n))
		}
	case "col-start", "col-end", "row-start", "row-end":
		if n, ok := integer(rest); ok && n > 0 {
			return decl(prop, strconv.Itoa(n))
		}
		if rest == "auto" {
			return decl(prop, "auto")
		}
	}
	return nil
}
