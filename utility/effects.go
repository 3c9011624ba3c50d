package utility

import (
	"twc/css"
)

var shadows = map[string]string{
	"sm":    "0 1px 2px 0 rgb(0 0 0 / 0.05)",
	"":      "0 1px 3px 0 rgb(0 0 0 / 0.1), 0 1px 2px -1px rgb(0 0 0 / 0.1)",
	"md":    "0 4px 6px -1px rgb(0 0 0 / 0.1), 0 2px 4px -2px rgb(0 0 0 / 0.1)",
	"lg":    "0 10px 15px -3px rgb(0 0 0 / 0.1), 0 4px 6px -4px rgb(0 0 0 / 0.1)",
	"xl":    "0 20px 25px -5px rgb(0 0 0 / 0.1), 0 8px 10px -6px rgb(0 0 0 / 0.1)",
	"2xl":   "0 25px 50px -12px rgb(0 0 0 / 0.25)",
	"inner": "inset 0 2px 4px 0 rgb(0 0 0 / 0.05)",
	"none":  "0 0 #0000",
}

// Effects handles opacity and box shadows.
func Effects() Matcher {
	statics := map[string][]css.Property{"shadow": decl("box-shadow", shadows[""])}
	return newFamily(CategoryEffects, PriorityGeneric, statics, []string{"opacity-*", "shadow-*"}, func(c Candidate) []css.Property {
		if rest, ok := cutWord(c.Base, "opacity"); ok {
			if v, _, ok := bracketed(c, rest); ok {
				return decl("opacity", v)
			}
			if n, ok := integer(rest); ok && n <= 100 && !c.HasArbitrary {
				v, _ := ratio(rest)
				return decl("opacity", v)
			}
			return nil
		}
		if rest, ok := cutWord(c.Base, "shadow"); ok {
			if v, _, ok := bracketed(c, rest); ok {
				return decl("box-shadow", v)
			}
			if v, ok := shadows[rest]; ok && !c.HasArbitrary {
				return decl("box-shadow", v)
			}
		}
		return nil
	})
}

// filterChain lists every filter function variable so filters compose.
const filterChain = "var(--tw-blur,) var(--tw-brightness,) var(--tw-contrast,) var(--tw-grayscale,) " +
	"var(--tw-hue-rotate,) var(--tw-invert,) var(--tw-saturate,) var(--tw-sepia,)"

var blurs = map[string]string{
	"none": "0",
	"sm":   "4px",
	"":     "8px",
	"md":   "12px",
	"lg":   "16px",
	"xl":   "24px",
	"2xl":  "40px",
	"3xl":  "64px",
}

func filter(name, fn string) []css.Property {
	return decl("--tw-"+name, fn, "filter", filterChain)
}

// Filters handles CSS filter utilities. Each utility sets its own variable
// and the shared filter chain.
func Filters() Matcher {
	statics := map[string][]css.Property{
		"blur":        filter("blur", "blur(8px)"),
		"grayscale":   filter("grayscale", "grayscale(100%)"),
		"invert":      filter("invert", "invert(100%)"),
		"sepia":       filter("sepia", "sepia(100%)"),
		"filter-none": decl("filter", "none"),
	}
	wildcards := []string{
		"-hue-rotate-*", "blur-*", "brightness-*", "contrast-*", "grayscale-*",
		"hue-rotate-*", "invert-*", "saturate-*", "sepia-*",
	}
	words := map[string]bool{
		"blur": true, "brightness": true, "contrast": true, "grayscale": true,
		"hue-rotate": true, "invert": true, "saturate": true, "sepia": true,
	}
	return newFamily(CategoryFilters, PriorityGeneric, statics, wildcards, func(c Candidate) []css.Property {
		word, rest, negative, _, ok := cutPrefix(c.Base, words)
		if !ok || negative && word != "hue-rotate" {
			return nil
		}
		if v, _, ok := bracketed(c, rest); ok {
			if negative {
				v = negate(v)
			}
			return filter(word, word+"("+v+")")
		}
		if c.HasArbitrary {
			return nil
		}
		switch word {
		case "blur":
			if v, ok := blurs[rest]; ok {
				return filter(word, "blur("+v+")")
			}
		case "brightness", "contrast", "saturate":
			if v, ok := ratio(rest); ok {
				return filter(word, word+"("+v+")")
			}
		case "grayscale", "invert", "sepia":
			if n, ok := integer(rest); ok && n <= 100 {
				return filter(word, word+"("+rest+"%)")
			}
		case "hue-rotate":
			if n, ok := integer(rest); ok && n <= 360 {
				if negative && n != 0 {
					rest = "-" + rest
				}
				return filter(word, "hue-rotate("+rest+"deg)")
			}
		}
		return nil
	})
}
