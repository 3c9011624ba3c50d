// Package compose wraps utility declarations into a CSS rule according to a
// variant chain: it builds the selector, collects media and supports
// conditions and computes specificity.
package compose

import (
	"fmt"
	"slices"
	"strings"

	"twc/common"
	"twc/css"
	"twc/variant"
)

// DefaultDarkClass is ancestor class used by class dark mode strategy.
const DefaultDarkClass = "dark"

// Options configures Composer.
type Options struct {
	DarkMode  common.DarkMode
	DarkClass string
}

// Composer builds rules. It is immutable and safe for concurrent use.
type Composer struct {
	darkMode  common.DarkMode
	darkClass string
}

// New creates composer.
func New(opts Options) *Composer {
	c := &Composer{darkMode: opts.DarkMode, darkClass: opts.DarkClass}
	if c.darkClass == "" {
		c.darkClass = DefaultDarkClass
	}
	return c
}

// state accumulates selector parts while walking variant chain, outer
// variants first.
type state struct {
	ancestors  []string // ".dark ", ".group:hover ", ".peer:checked ~ "
	suffix     strings.Builder
	elements   []string // pseudo-elements, always last in compound
	templates  []string // selector templates with "&", outer first
	media      []string
	supports   []string
	breakpoint string
}

// Compose builds rule for class (canonical token) with declarations decls
// under variants. When important is set every declaration is marked
// !important, decls itself is never modified.
func (c *Composer) Compose(class string, decls []css.Property, variants []variant.Variant, important bool) css.Rule {
	st := &state{}
	for _, v := range variants {
		c.apply(st, v, false)
	}

	sel := "." + css.EscapeClass(class) + st.suffix.String()
	for i := len(st.templates) - 1; i >= 0; i-- {
		sel = strings.ReplaceAll(st.templates[i], "&", sel)
	}
	sel = strings.Join(st.ancestors, "") + sel + strings.Join(st.elements, "")

	out := slices.Clone(decls)
	if important {
		for i := range out {
			out[i].Important = true
		}
	}

	return css.Rule{
		Class:        class,
		Selector:     sel,
		Declarations: out,
		Media:        joinMedia(st.media),
		Supports:     joinConditions(st.supports),
		Breakpoint:   st.breakpoint,
		Specificity:  css.Specificity(sel),
	}
}

func (c *Composer) apply(st *state, v variant.Variant, negated bool) {
	switch v.Kind {
	case variant.KindNot:
		if v.Inner == nil {
			panic("negation without operand")
		}
		c.apply(st, *v.Inner, !negated)

	case variant.KindResponsive:
		if negated {
			st.media = append(st.media, "not "+v.Breakpoint.Condition())
			return
		}
		st.media = append(st.media, v.Breakpoint.Condition())
		if st.breakpoint == "" {
			st.breakpoint = v.Breakpoint.Name
		}

	case variant.KindDark:
		if !c.darkMode.UsesClass() {
			const cond = "(prefers-color-scheme: dark)"
			if negated {
				st.media = append(st.media, "not "+cond)
			} else {
				st.media = append(st.media, cond)
			}
			return
		}
		dark := "." + css.EscapeClass(c.darkClass)
		if negated {
			st.suffix.WriteString(":not(" + dark + " *)")
		} else {
			st.ancestors = append(st.ancestors, dark+" ")
		}

	case variant.KindState:
		pseudo := mustPseudoClass(v.Name)
		if negated {
			st.suffix.WriteString(":not(" + pseudo + ")")
		} else {
			st.suffix.WriteString(pseudo)
		}

	case variant.KindGroup:
		pseudo := mustPseudoClass(v.Name)
		if negated {
			st.suffix.WriteString(":not(.group" + pseudo + " *)")
		} else {
			st.ancestors = append(st.ancestors, ".group"+pseudo+" ")
		}

	case variant.KindPeer:
		pseudo := mustPseudoClass(v.Name)
		if negated {
			st.suffix.WriteString(":not(.peer" + pseudo + " ~ *)")
		} else {
			st.ancestors = append(st.ancestors, ".peer"+pseudo+" ~ ")
		}

	case variant.KindElement:
		if negated {
			panic(fmt.Sprintf("pseudo-element %q cannot be negated", v.Name))
		}
		pseudo, ok := variant.PseudoElement(v.Name)
		if !ok {
			panic(fmt.Sprintf("unknown pseudo-element %q", v.Name))
		}
		st.elements = append(st.elements, pseudo)

	case variant.KindCustom:
		c.applyCustom(st, v.Custom, negated)

	default:
		panic(fmt.Sprintf("unexpected variant kind %v", v.Kind))
	}
}

func (c *Composer) applyCustom(st *state, cv variant.CustomVariant, negated bool) {
	switch {
	case cv.Kind == variant.Supports:
		st.supports = append(st.supports, condition(cv.Condition(), negated))

	case cv.Template == "":
		sel := cv.Selector()
		if negated {
			sel = ":not(" + sel + ")"
		}
		st.suffix.WriteString(sel)

	case cv.IsAtRule():
		if cond, ok := strings.CutPrefix(cv.Template, "@media"); ok {
			st.media = append(st.media, condition(strings.TrimSpace(cond), negated))
		} else if cond, ok := strings.CutPrefix(cv.Template, "@supports"); ok {
			st.supports = append(st.supports, condition(strings.TrimSpace(cond), negated))
		} else {
			panic(fmt.Sprintf("unsupported at-rule variant %q", cv.Template))
		}

	case negated:
		st.suffix.WriteString(":not(" + strings.ReplaceAll(cv.Template, "&", "*") + ")")

	default:
		st.templates = append(st.templates, cv.Template)
	}
}

func condition(cond string, negated bool) string {
	if negated {
		return "not " + cond
	}
	return cond
}

// joinConditions combines conditions with "and", negated ones are put in
// parentheses when combined.
func joinConditions(conds []string) string {
	switch len(conds) {
	case 0:
		return ""
	case 1:
		return conds[0]
	}
	parts := make([]string, len(conds))
	for i, cond := range conds {
		if strings.HasPrefix(cond, "not ") {
			cond = "(" + cond + ")"
		}
		parts[i] = cond
	}
	return strings.Join(parts, " and ")
}

// media types recognized at the start of a media condition, each one is
// mapped to its complement under negation
var mediaTypes = map[string]string{
	"all":    "",
	"print":  "screen",
	"screen": "print",
}

// splitMediaType recognizes `[not|only] type [and rest]` conditions. Negated
// type is only recognized standing alone and is returned as its complement,
// an empty type means condition can never match.
func splitMediaType(cond string) (typ, rest string, only, ok bool) {
	head, tail, _ := strings.Cut(cond, " ")
	negated := false
	switch head {
	case "not":
		negated = true
		head, tail, _ = strings.Cut(tail, " ")
	case "only":
		only = true
		head, tail, _ = strings.Cut(tail, " ")
	}
	complement, known := mediaTypes[head]
	if !known {
		return "", "", false, false
	}
	if negated {
		if tail != "" {
			return "", "", false, false
		}
		return complement, "", false, true
	}
	if tail == "" {
		return head, "", only, true
	}
	if rest, ok = strings.CutPrefix(tail, "and "); !ok {
		return "", "", false, false
	}
	return head, strings.TrimSpace(rest), only, true
}

// joinMedia combines media conditions. Media type has to lead the query, so
// it is hoisted to the front whatever the variant order was. Conflicting
// types produce a query which never matches.
func joinMedia(conds []string) string {
	if len(conds) < 2 {
		return joinConditions(conds)
	}

	var (
		typ      string
		only     bool
		never    bool
		features []string
	)
	for _, cond := range conds {
		t, rest, o, ok := splitMediaType(cond)
		if !ok {
			features = append(features, cond)
			continue
		}
		only = only || o
		switch {
		case t == "":
			never = true
		case typ == "" || typ == "all":
			typ = t
		case t != "all" && t != typ:
			never = true
		}
		if rest != "" {
			features = append(features, rest)
		}
	}
	if never {
		return "not all"
	}
	if typ == "" {
		return joinConditions(features)
	}
	if only {
		typ = "only " + typ
	}
	if len(features) == 0 {
		return typ
	}
	parts := make([]string, len(features))
	for i, cond := range features {
		if strings.HasPrefix(cond, "not ") {
			cond = "(" + cond + ")"
		}
		parts[i] = cond
	}
	return typ + " and " + strings.Join(parts, " and ")
}

func mustPseudoClass(name string) string {
	pseudo, ok := variant.PseudoClass(name)
	if !ok {
		panic(fmt.Sprintf("unknown pseudo-class %q", name))
	}
	return pseudo
}
