package utility

import (
	"twc/css"
)

func layoutStatics() map[string][]css.Property {
	m := map[string][]css.Property{
		"block":        decl("display", "block"),
		"inline-block": decl("display", "inline-block"),
		"inline":       decl("display", "inline"),
		"flex":         decl("display", "flex"),
		"inline-flex":  decl("display", "inline-flex"),
		"grid":         decl("display", "grid"),
		"inline-grid":  decl("display", "inline-grid"),
		"table":        decl("display", "table"),
		"contents":     decl("display", "contents"),
		"flow-root":    decl("display", "flow-root"),
		"hidden":       decl("display", "none"),

		"static":   decl("position", "static"),
		"fixed":    decl("position", "fixed"),
		"absolute": decl("position", "absolute"),
		"relative": decl("position", "relative"),
		"sticky":   decl("position", "sticky"),

		"visible":   decl("visibility", "visible"),
		"invisible": decl("visibility", "hidden"),
		"collapse":  decl("visibility", "collapse"),

		"isolate":        decl("isolation", "isolate"),
		"isolation-auto": decl("isolation", "auto"),
		"box-border":     decl("box-sizing", "border-box"),
		"box-content":    decl("box-sizing", "content-box"),
	}
	for _, v := range []string{"left", "right", "none", "start", "end"} {
		prop := v
		if v == "start" || v == "end" {
			prop = "inline-" + v
		}
		m["float-"+v] = decl("float", prop)
		if v != "none" {
			m["clear-"+v] = decl("clear", prop)
		}
	}
	m["clear-both"] = decl("clear", "both")
	m["clear-none"] = decl("clear", "none")
	for _, v := range []string{"contain", "cover", "fill", "none", "scale-down"} {
		m["object-"+v] = decl("object-fit", v)
	}
	for _, v := range []string{"auto", "hidden", "clip", "visible", "scroll"} {
		m["overflow-"+v] = decl("overflow", v)
		m["overflow-x-"+v] = decl("overflow-x", v)
		m["overflow-y-"+v] = decl("overflow-y", v)
	}
	return m
}

var insetProps = map[string][]string{
	"inset":   {"inset"},
	"inset-x": {"left", "right"},
	"inset-y": {"top", "bottom"},
	"top":     {"top"},
	"right":   {"right"},
	"bottom":  {"bottom"},
	"left":    {"left"},
	"start":   {"inset-inline-start"},
	"end":     {"inset-inline-end"},
}

// Layout handles display, position, visibility, float, object fit,
// overflow, inset placement and z-index.
func Layout() Matcher {
	wildcards := []string{"z-*"}
	for p := range insetProps {
		wildcards = append(wildcards, p+"-*", "-"+p+"-*")
	}
	return newFamily(CategoryLayout, PriorityGeneric, layoutStatics(), sortedPatterns(wildcards), func(c Candidate) []css.Property {
		if rest, ok := cutWord(c.Base, "z"); ok {
			if v, _, ok := bracketed(c, rest); ok {
				return decl("z-index", v)
			}
			if n, ok := integer(rest); ok && n%10 == 0 && n <= 50 && !c.HasArbitrary {
				return decl("z-index", rest)
			}
			if rest == "auto" {
				return decl("z-index", "auto")
			}
			return nil
		}

		_, rest, negative, targets, ok := cutPrefix(c.Base, insetProps)
		if !ok {
			return nil
		}
		var value string
		if v, _, ok := bracketed(c, rest); ok {
			value = v
		} else if c.HasArbitrary {
			return nil
		} else if v, ok := spacing(rest); ok {
			value = v
		} else if v, ok := fraction(rest); ok {
			value = v
		} else {
			switch rest {
			case "auto":
				value = "auto"
			case "full":
				value = "100%"
			default:
				return nil
			}
		}
		if negative {
			if value == "auto" {
				return nil
			}
			value = negate(value)
		}
		return each(targets, value)
	})
}

// cutWord returns rest of "word-rest" base.
func cutWord(base, word string) (string, bool) {
	if len(base) > len(word)+1 && base[len(word)] == '-' && base[:len(word)] == word {
		return base[len(word)+1:], true
	}
	return "", false
}
