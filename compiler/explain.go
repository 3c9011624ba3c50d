package compiler

import (
	"strconv"

	"twc/utility"
	"twc/utils/debug"
	"twc/variant"
)

// Explain describes every compilation stage of raw token as indented text,
// stopping at the first failing stage.
func (c *Compiler) Explain(raw string) string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "token %q", raw)

	pc, err := variant.Decompose(raw)
	if err != nil {
		tw.Line(1, "decompose: %v", err)
		return tw.String()
	}
	tw.Line(1, "decompose")
	for i, name := range pc.Variants {
		tw.Line(2, "variant %s @%d", name, pc.VariantPos[i])
	}
	tw.Line(2, "base %s @%d", pc.Base, pc.BasePos)
	if pc.HasArbitrary {
		tw.Field(2, "arbitrary", pc.Arbitrary)
	}
	if pc.Important {
		tw.Line(2, "important")
	}

	for _, name := range pc.Variants {
		v, err := c.catalog.Parse(name)
		if err != nil {
			tw.Line(1, "variant %s: %v", name, err)
			return tw.String()
		}
		tw.Line(1, "variant %s: %s", name, v.Kind)
	}

	cand := utility.CandidateFrom(pc)
	decls, ok := c.router.Resolve(cand)
	if !ok {
		tw.Line(1, "utility %s: %v", cand, &utility.UnknownUtilityError{Base: cand.String()})
		return tw.String()
	}
	props := make([]string, len(decls))
	for i, d := range decls {
		props[i] = d.String()
	}
	tw.List(1, "utility "+cand.String(), props)

	rule, te := c.compile(raw)
	if te != nil {
		tw.Line(1, "rule: %v", te)
		return tw.String()
	}
	tw.Line(1, "rule")
	tw.Field(2, "selector", rule.Selector)
	tw.Field(2, "media", rule.Media)
	tw.Field(2, "supports", rule.Supports)
	tw.Field(2, "breakpoint", rule.Breakpoint)
	tw.Field(2, "specificity", strconv.FormatUint(uint64(rule.Specificity), 10))
	return tw.String()
}
