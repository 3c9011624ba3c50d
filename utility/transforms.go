package utility

import (
	"twc/css"
)

var transformWords = map[string]bool{
	"scale":       true,
	"scale-x":     true,
	"scale-y":     true,
	"rotate":      true,
	"translate-x": true,
	"translate-y": true,
	"skew-x":      true,
	"skew-y":      true,
}

const (
	scaleValue     = "var(--tw-scale-x, 1) var(--tw-scale-y, 1)"
	translateValue = "var(--tw-translate-x, 0) var(--tw-translate-y, 0)"
	skewValue      = "var(--tw-skew-x,) var(--tw-skew-y,)"
)

// Transforms handles scale, rotate, translate and skew utilities,
// negative forms included.
func Transforms() Matcher {
	var wildcards []string
	for w := range transformWords {
		wildcards = append(wildcards, w+"-*", "-"+w+"-*")
	}
	return newFamily(CategoryTransforms, PriorityGeneric, nil, sortedPatterns(wildcards), func(c Candidate) []css.Property {
		word, rest, negative, _, ok := cutPrefix(c.Base, transformWords)
		if !ok {
			return nil
		}
		v, _, isArbitrary := bracketed(c, rest)
		if !isArbitrary && c.HasArbitrary {
			return nil
		}

		switch word {
		case "scale", "scale-x", "scale-y":
			if !isArbitrary {
				if _, ok := integer(rest); !ok {
					return nil
				}
				v = rest + "%"
			}
			if negative {
				v = negate(v)
			}
			switch word {
			case "scale-x":
				return decl("--tw-scale-x", v, "scale", scaleValue)
			case "scale-y":
				return decl("--tw-scale-y", v, "scale", scaleValue)
			}
			return decl("--tw-scale-x", v, "--tw-scale-y", v, "scale", scaleValue)
		case "rotate":
			if !isArbitrary {
				if _, ok := integer(rest); !ok {
					return nil
				}
				v = rest + "deg"
			}
			if negative {
				v = negate(v)
			}
			return decl("rotate", v)
		case "translate-x", "translate-y":
			if !isArbitrary {
				var ok bool
				if v, ok = spacing(rest); !ok {
					if v, ok = fraction(rest); !ok {
						if rest != "full" {
							return nil
						}
						v = "100%"
					}
				}
			}
			if negative {
				v = negate(v)
			}
			return decl("--tw-"+word, v, "translate", translateValue)
		case "skew-x", "skew-y":
			if !isArbitrary {
				if _, ok := integer(rest); !ok {
					return nil
				}
				v = rest + "deg"
			}
			if negative {
				v = negate(v)
			}
			fn := "skewX("
			if word == "skew-y" {
				fn = "skewY("
			}
			return decl("--tw-"+word, fn+v+")", "transform", skewValue)
		}
		return nil
	})
}
