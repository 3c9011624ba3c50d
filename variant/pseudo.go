package variant

// pseudoClasses maps state variant names to pseudo-class selectors.
var pseudoClasses = map[string]string{
	// interactive
	"hover":         ":hover",
	"focus":         ":focus",
	"focus-visible": ":focus-visible",
	"focus-within":  ":focus-within",
	"active":        ":active",
	"visited":       ":visited",
	"target":        ":target",
	// structural
	"first":         ":first-child",
	"last":          ":last-child",
	"only":          ":only-child",
	"odd":           ":nth-child(odd)",
	"even":          ":nth-child(even)",
	"first-of-type": ":first-of-type",
	"last-of-type":  ":last-of-type",
	"only-of-type":  ":only-of-type",
	"empty":         ":empty",
	// forms
	"disabled":          ":disabled",
	"enabled":           ":enabled",
	"checked":           ":checked",
	"indeterminate":     ":indeterminate",
	"default":           ":default",
	"required":          ":required",
	"optional":          ":optional",
	"valid":             ":valid",
	"invalid":           ":invalid",
	"user-valid":        ":user-valid",
	"user-invalid":      ":user-invalid",
	"in-range":          ":in-range",
	"out-of-range":      ":out-of-range",
	"placeholder-shown": ":placeholder-shown",
	"autofill":          ":autofill",
	"read-only":         ":read-only",
	"open":              ":is([open], :popover-open, :open)",
}

// pseudoElements maps element variant names to pseudo-element selectors.
var pseudoElements = map[string]string{
	"before":       "::before",
	"after":        "::after",
	"placeholder":  "::placeholder",
	"file":         "::file-selector-button",
	"marker":       "::marker",
	"selection":    "::selection",
	"first-line":   "::first-line",
	"first-letter": "::first-letter",
	"backdrop":     "::backdrop",
}

// PseudoClass returns selector text for state variant name.
func PseudoClass(name string) (string, bool) {
	s, ok := pseudoClasses[name]
	return s, ok
}

// PseudoElement returns selector text for element variant name.
func PseudoElement(name string) (string, bool) {
	s, ok := pseudoElements[name]
	return s, ok
}

// DefaultBreakpoints returns the conventional breakpoint scale.
func DefaultBreakpoints() []Breakpoint {
	return []Breakpoint{
		{Name: "sm", MinWidth: "640px"},
		{Name: "md", MinWidth: "768px"},
		{Name: "lg", MinWidth: "1024px"},
		{Name: "xl", MinWidth: "1280px"},
		{Name: "2xl", MinWidth: "1536px"},
	}
}
