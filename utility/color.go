package utility

import (
	"strconv"
	"strings"

	"twc/css"
	"twc/variant"
)

var colorProps = map[string]string{
	"bg":         "background-color",
	"text":       "color",
	"border":     "border-color",
	"outline":    "outline-color",
	"ring":       "--tw-ring-color",
	"fill":       "fill",
	"stroke":     "stroke",
	"decoration": "text-decoration-color",
	"accent":     "accent-color",
	"caret":      "caret-color",
}

var specialColors = map[string]string{
	"inherit":     "inherit",
	"current":     "currentColor",
	"transparent": "transparent",
	"black":       "#000",
	"white":       "#fff",
}

var shades = [...]string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900", "950"}

// palette holds hex values per hue, indexed like shades.
var palette = map[string][len(shades)]string{
	"slate":  {"#f8fafc", "#f1f5f9", "#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b", "#475569", "#334155", "#1e293b", "#0f172a", "#020617"},
	"gray":   {"#f9fafb", "#f3f4f6", "#e5e7eb", "#d1d5db", "#9ca3af", "#6b7280", "#4b5563", "#374151", "#1f2937", "#111827", "#030712"},
	"red":    {"#fef2f2", "#fee2e2", "#fecaca", "#fca5a5", "#f87171", "#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d", "#450a0a"},
	"orange": {"#fff7ed", "#ffedd5", "#fed7aa", "#fdba74", "#fb923c", "#f97316", "#ea580c", "#c2410c", "#9a3412", "#7c2d12", "#431407"},
	"yellow": {"#fefce8", "#fef9c3", "#fef08a", "#fde047", "#facc15", "#eab308", "#ca8a04", "#a16207", "#854d0e", "#713f12", "#422006"},
	"green":  {"#f0fdf4", "#dcfce7", "#bbf7d0", "#86efac", "#4ade80", "#22c55e", "#16a34a", "#15803d", "#166534", "#14532d", "#052e16"},
	"blue":   {"#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a", "#172554"},
	"indigo": {"#eef2ff", "#e0e7ff", "#c7d2fe", "#a5b4fc", "#818cf8", "#6366f1", "#4f46e5", "#4338ca", "#3730a3", "#312e81", "#1e1b4b"},
	"purple": {"#faf5ff", "#f3e8ff", "#e9d5ff", "#d8b4fe", "#c084fc", "#a855f7", "#9333ea", "#7e22ce", "#6b21a8", "#581c87", "#3b0764"},
}

// Color handles color utilities for backgrounds, text, borders and the rest
// of color-carrying properties, with optional "/opacity" modifier.
func Color() Matcher {
	var wildcards []string
	for p := range colorProps {
		wildcards = append(wildcards, p+"-*")
	}
	return newFamily(CategoryColor, PriorityGeneric, nil, sortedPatterns(wildcards), func(c Candidate) []css.Property {
		_, rest, negative, prop, ok := cutPrefix(c.Base, colorProps)
		if !ok || negative {
			return nil
		}
		name, modifier, hasModifier := strings.Cut(rest, "/")

		var value string
		switch {
		case name == variant.ArbitraryPlaceholder:
			v, hint, ok := bracketed(c, name)
			if !ok || hint != "" && hint != "color" || hint == "" && !looksLikeColor(v) {
				return nil
			}
			value = v
		case c.HasArbitrary && (!hasModifier || modifier != variant.ArbitraryPlaceholder):
			return nil
		default:
			if value, ok = namedColor(name); !ok {
				return nil
			}
		}

		if !hasModifier {
			return decl(prop, value)
		}
		alpha, ok := colorAlpha(c, modifier)
		if !ok {
			return nil
		}
		return decl(prop, withAlpha(value, alpha))
	})
}

// namedColor resolves "blue-500", "white" and friends.
func namedColor(name string) (string, bool) {
	if v, ok := specialColors[name]; ok {
		return v, true
	}
	hue, shade, ok := strings.Cut(name, "-")
	if !ok {
		return "", false
	}
	values, ok := palette[hue]
	if !ok {
		return "", false
	}
	for i, s := range shades {
		if s == shade {
			return values[i], true
		}
	}
	return "", false
}

// colorAlpha resolves opacity modifier: "50" -> 0.5, "[.35]" -> .35.
func colorAlpha(c Candidate, modifier string) (string, bool) {
	if modifier == variant.ArbitraryPlaceholder {
		v, _, ok := bracketed(c, modifier)
		return v, ok
	}
	n, ok := integer(modifier)
	if !ok || n > 100 {
		return "", false
	}
	return ratio(modifier)
}

// withAlpha applies alpha to color value. Hex colors become rgb() notation,
// everything else is mixed with transparent.
func withAlpha(color, alpha string) string {
	switch color {
	case "inherit", "transparent":
		return color
	}
	if r, g, b, ok := hexRGB(color); ok {
		return "rgb(" + strconv.Itoa(r) + " " + strconv.Itoa(g) + " " + strconv.Itoa(b) + " / " + alpha + ")"
	}
	pct := alpha
	if f, err := strconv.ParseFloat(alpha, 64); err == nil {
		pct = percent(f * 100)
	}
	return "color-mix(in oklab, " + color + " " + pct + ", transparent)"
}

func hexRGB(s string) (r, g, b int, ok bool) {
	s, found := strings.CutPrefix(s, "#")
	if !found {
		return 0, 0, 0, false
	}
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
