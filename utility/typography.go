package utility

import (
	"strings"

	"twc/css"
	"twc/variant"
)

// fontSizes maps size names to font-size and line-height.
var fontSizes = map[string][2]string{
	"xs":   {"0.75rem", "1rem"},
	"sm":   {"0.875rem", "1.25rem"},
	"base": {"1rem", "1.5rem"},
	"lg":   {"1.125rem", "1.75rem"},
	"xl":   {"1.25rem", "1.75rem"},
	"2xl":  {"1.5rem", "2rem"},
	"3xl":  {"1.875rem", "2.25rem"},
	"4xl":  {"2.25rem", "2.5rem"},
	"5xl":  {"3rem", "1"},
	"6xl":  {"3.75rem", "1"},
	"7xl":  {"4.5rem", "1"},
	"8xl":  {"6rem", "1"},
	"9xl":  {"8rem", "1"},
}

var fontWeights = map[string]string{
	"thin":       "100",
	"extralight": "200",
	"light":      "300",
	"normal":     "400",
	"medium":     "500",
	"semibold":   "600",
	"bold":       "700",
	"extrabold":  "800",
	"black":      "900",
}

var fontFamilies = map[string]string{
	"sans":  `ui-sans-serif, system-ui, sans-serif, "Apple Color Emoji", "Segoe UI Emoji", "Segoe UI Symbol", "Noto Color Emoji"`,
	"serif": `ui-serif, Georgia, Cambria, "Times New Roman", Times, serif`,
	"mono":  `ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, "Liberation Mono", "Courier New", monospace`,
}

var lineHeights = map[string]string{
	"none":    "1",
	"tight":   "1.25",
	"snug":    "1.375",
	"normal":  "1.5",
	"relaxed": "1.625",
	"loose":   "2",
}

var letterSpacings = map[string]string{
	"tighter": "-0.05em",
	"tight":   "-0.025em",
	"normal":  "0em",
	"wide":    "0.025em",
	"wider":   "0.05em",
	"widest":  "0.1em",
}

var typographyStatics = map[string][]css.Property{
	"uppercase":    decl("text-transform", "uppercase"),
	"lowercase":    decl("text-transform", "lowercase"),
	"capitalize":   decl("text-transform", "capitalize"),
	"normal-case":  decl("text-transform", "none"),
	"italic":       decl("font-style", "italic"),
	"not-italic":   decl("font-style", "normal"),
	"underline":    decl("text-decoration-line", "underline"),
	"overline":     decl("text-decoration-line", "overline"),
	"line-through": decl("text-decoration-line", "line-through"),
	"no-underline": decl("text-decoration-line", "none"),
	"truncate":     decl("overflow", "hidden", "text-overflow", "ellipsis", "white-space", "nowrap"),
	"antialiased":  decl("-webkit-font-smoothing", "antialiased", "-moz-osx-font-smoothing", "grayscale"),
	"text-left":    decl("text-align", "left"),
	"text-center":  decl("text-align", "center"),
	"text-right":   decl("text-align", "right"),
	"text-justify": decl("text-align", "justify"),
	"text-start":   decl("text-align", "start"),
	"text-end":     decl("text-align", "end"),
	"text-wrap":    decl("text-wrap", "wrap"),
	"text-nowrap":  decl("text-wrap", "nowrap"),
	"text-balance": decl("text-wrap", "balance"),
	"text-pretty":  decl("text-wrap", "pretty"),

	"text-ellipsis": decl("text-overflow", "ellipsis"),
	"text-clip":     decl("text-overflow", "clip"),

	"whitespace-normal":       decl("white-space", "normal"),
	"whitespace-nowrap":       decl("white-space", "nowrap"),
	"whitespace-pre":          decl("white-space", "pre"),
	"whitespace-pre-line":     decl("white-space", "pre-line"),
	"whitespace-pre-wrap":     decl("white-space", "pre-wrap"),
	"whitespace-break-spaces": decl("white-space", "break-spaces"),

	"decoration-solid":     decl("text-decoration-style", "solid"),
	"decoration-double":    decl("text-decoration-style", "double"),
	"decoration-dotted":    decl("text-decoration-style", "dotted"),
	"decoration-dashed":    decl("text-decoration-style", "dashed"),
	"decoration-wavy":      decl("text-decoration-style", "wavy"),
	"decoration-auto":      decl("text-decoration-thickness", "auto"),
	"decoration-from-font": decl("text-decoration-thickness", "from-font"),
}

// Typography handles font size, weight and family, line height, letter
// spacing, alignment and text decoration. Font sizes share the "text-"
// prefix with text colors and take precedence over them.
func Typography() Matcher {
	wildcards := []string{"text-*", "font-*", "leading-*", "tracking-*", "decoration-*"}
	return newFamily(CategoryTypography, PrioritySpecific, typographyStatics, wildcards, parseTypography)
}

func parseTypography(c Candidate) []css.Property {
	word, rest, ok := strings.Cut(c.Base, "-")
	if !ok || rest == "" {
		return nil
	}
	switch word {
	case "text":
		return fontSize(c, rest)
	case "font":
		if v, hint, ok := bracketed(c, rest); ok {
			if hint == "number" || hint == "" && isNumeric(v) {
				return decl("font-weight", v)
			}
			return decl("font-family", v)
		}
		if v, ok := fontWeights[rest]; ok {
			return decl("font-weight", v)
		}
		if v, ok := fontFamilies[rest]; ok {
			return decl("font-family", v)
		}
	case "leading":
		if v, _, ok := bracketed(c, rest); ok {
			return decl("line-height", v)
		}
		if v, ok := lineHeights[rest]; ok {
			return decl("line-height", v)
		}
		if n, ok := integer(rest); ok && n >= 3 && n <= 10 {
			v, _ := spacing(rest)
			return decl("line-height", v)
		}
	case "tracking":
		if v, _, ok := bracketed(c, rest); ok {
			return decl("letter-spacing", v)
		}
		if v, ok := letterSpacings[rest]; ok {
			return decl("letter-spacing", v)
		}
	case "decoration":
		if v, hint, ok := bracketed(c, rest); ok {
			if hint == "length" || hint == "" && looksLikeLength(v) {
				return decl("text-decoration-thickness", v)
			}
			return nil
		}
		if n, ok := integer(rest); ok && (n == 0 || n == 1 || n == 2 || n == 4 || n == 8) {
			return decl("text-decoration-thickness", rest+"px")
		}
	}
	return nil
}

// fontSize handles "lg", "lg/7" (with line height) and arbitrary lengths.
func fontSize(c Candidate, rest string) []css.Property {
	name, modifier, hasModifier := strings.Cut(rest, "/")

	var size, lineHeight string
	if v, hint, ok := bracketed(c, name); ok {
		if hint != "length" && hint != "absolute-size" && (hint != "" || !looksLikeLength(v)) {
			return nil
		}
		size = v
	} else if fs, ok := fontSizes[name]; ok && (!c.HasArbitrary || modifier == variant.ArbitraryPlaceholder) {
		size, lineHeight = fs[0], fs[1]
	} else {
		return nil
	}

	if hasModifier {
		switch {
		case modifier == variant.ArbitraryPlaceholder && name != variant.ArbitraryPlaceholder:
			v, _, ok := bracketed(c, modifier)
			if !ok {
				return nil
			}
			lineHeight = v
		default:
			if v, ok := lineHeights[modifier]; ok {
				lineHeight = v
			} else if v, ok := spacing(modifier); ok {
				lineHeight = v
			} else {
				return nil
			}
		}
	}
	if lineHeight == "" {
		return decl("font-size", size)
	}
	return decl("font-size", size, "line-height", lineHeight)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if (s[i] < '0' || s[i] > '9') && s[i] != '.' {
			return false
		}
	}
	return true
}
