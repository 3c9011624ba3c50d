package variant

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Catalog resolves variant names into Variant values. It knows standard
// variants (dark mode, breakpoints, pseudo-classes and pseudo-elements) and
// delegates everything else to Registry. Catalog is safe for concurrent use.
type Catalog struct {
	breakpoints []Breakpoint
	byName      map[string]Breakpoint
	reg         *Registry
	standard    []string // sorted standard variant names for suggestions
	parsed      sync.Map // name -> Variant
}

// NewCatalog creates catalog for given breakpoints (expected in ascending
// width order) and registry. Nil registry means no custom variants besides
// aria, data and supports.
func NewCatalog(breakpoints []Breakpoint, reg *Registry) *Catalog {
	if reg == nil {
		reg = NewRegistry(WithCustomVariants(false))
	}
	c := &Catalog{
		breakpoints: slices.Clone(breakpoints),
		byName:      make(map[string]Breakpoint, len(breakpoints)),
		reg:         reg,
	}

	names := []string{"dark"}
	for _, bp := range breakpoints {
		c.byName[bp.Name] = bp
		names = append(names, bp.Name, "max-"+bp.Name)
	}
	for name := range pseudoClasses {
		names = append(names, name, "group-"+name, "peer-"+name, "not-"+name)
	}
	for name := range pseudoElements {
		names = append(names, name)
	}
	sort.Strings(names)
	c.standard = slices.Compact(names)
	return c
}

// Breakpoints returns configured breakpoints in configured order.
func (c *Catalog) Breakpoints() []Breakpoint {
	return slices.Clone(c.breakpoints)
}

// Registry returns custom variant registry used by catalog.
func (c *Catalog) Registry() *Registry {
	return c.reg
}

// Parse resolves variant name. Errors are *ValidationError values carrying
// suggestions.
func (c *Catalog) Parse(name string) (Variant, error) {
	if v, ok := c.parsed.Load(name); ok {
		return v.(Variant), nil
	}
	v, err := c.parse(name)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			enriched := *ve
			enriched.Suggestions = c.suggestFor(name)
			return Variant{}, &enriched
		}
		return Variant{}, err
	}
	c.parsed.Store(name, v)
	return v, nil
}

func (c *Catalog) parse(name string) (Variant, error) {
	if name == "dark" {
		return Dark(), nil
	}
	if bp, ok := c.byName[name]; ok {
		return Responsive(bp), nil
	}
	if rest, ok := strings.CutPrefix(name, "max-"); ok {
		if bp, ok := c.byName[rest]; ok {
			return Not(Responsive(bp)), nil
		}
	}
	if rest, ok := strings.CutPrefix(name, "not-"); ok && rest != "" {
		inner, err := c.parse(rest)
		if err != nil {
			return Variant{}, err
		}
		if inner.Kind == KindElement {
			return Variant{}, &ValidationError{Kind: UnknownVariantKind, Text: name, Reason: "pseudo-elements cannot be negated"}
		}
		return Not(inner), nil
	}
	if _, ok := pseudoClasses[name]; ok {
		return State(name), nil
	}
	if _, ok := pseudoElements[name]; ok {
		return Element(name), nil
	}
	if rest, ok := strings.CutPrefix(name, "group-"); ok {
		if _, ok := pseudoClasses[rest]; ok {
			return Group(rest), nil
		}
	}
	if rest, ok := strings.CutPrefix(name, "peer-"); ok {
		if _, ok := pseudoClasses[rest]; ok {
			return Peer(rest), nil
		}
	}
	if strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		return parseArbitrary(name)
	}

	cv, err := c.reg.Validate(name)
	if err != nil {
		return Variant{}, err
	}
	return Custom(cv), nil
}

// parseArbitrary handles [&:nth-child(3)] and [@media(any-hover:hover)]
// forms, underscores stand for spaces.
func parseArbitrary(name string) (Variant, error) {
	tmpl := strings.TrimSpace(strings.ReplaceAll(name[1:len(name)-1], "_", " "))
	if tmpl == "" {
		return Variant{}, &ValidationError{Kind: InvalidVariantName, Text: name, Pos: 1, Reason: "empty arbitrary variant"}
	}
	if err := checkTemplate(name, tmpl, 1); err != nil {
		return Variant{}, err
	}
	return Custom(CustomVariant{Kind: CustomName, Key: name, Template: tmpl}), nil
}

// Suggest returns standard and registered variant names starting with prefix,
// lexicographically ordered and capped at MaxSuggestions.
func (c *Catalog) Suggest(prefix string) []string {
	out := append(withPrefix(c.standard, prefix, MaxSuggestions), c.reg.Suggest(prefix)...)
	sort.Strings(out)
	out = slices.Compact(out)
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// Names returns all standard and registered variant names starting with
// prefix, lexicographically ordered. Parametrized variants (aria-*, data-*,
// supports-*, arbitrary) are listed only when registered.
func (c *Catalog) Names(prefix string) []string {
	out := append(withPrefix(c.standard, prefix, 0), c.reg.Names(prefix)...)
	sort.Strings(out)
	return slices.Compact(out)
}

// suggestFor builds suggestions for rejected variant text.
func (c *Catalog) suggestFor(name string) []string {
	hint := strings.Trim(name, "-_")
	if i := strings.IndexAny(hint, "=["); i >= 0 {
		hint = hint[:i]
	}
	if hint != "" {
		if s := c.Suggest(hint); len(s) > 0 {
			return s
		}
		if s := c.Suggest(hint[:1]); len(s) > 0 {
			return s
		}
	}
	return KindPrefixes()
}
