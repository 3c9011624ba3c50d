// Package variant turns raw utility tokens into variant chains: it splits
// tokens into variant names and base utility (Decompose), validates and keeps
// custom variants (Registry) and resolves variant names into typed values
// (Catalog).
package variant

import (
	"strings"
)

// Kind is a variant tag.
type Kind uint8

const (
	KindResponsive Kind = iota + 1 // breakpoint media query
	KindDark                       // dark mode
	KindState                      // pseudo-class on the element itself
	KindNot                        // negation of inner variant
	KindCustom                     // aria-*, data-*, supports-* and registered custom variants
	KindGroup                      // pseudo-class on a .group ancestor
	KindPeer                       // pseudo-class on a preceding .peer sibling
	KindElement                    // pseudo-element
)

func (k Kind) String() string {
	switch k {
	case KindResponsive:
		return "responsive"
	case KindDark:
		return "dark"
	case KindState:
		return "state"
	case KindNot:
		return "not"
	case KindCustom:
		return "custom"
	case KindGroup:
		return "group"
	case KindPeer:
		return "peer"
	case KindElement:
		return "element"
	default:
		return "unknown"
	}
}

// Breakpoint is a named responsive breakpoint.
type Breakpoint struct {
	Name     string
	MinWidth string // CSS length, e.g. "640px" or "40rem"
}

// Condition returns the media condition for the breakpoint.
func (b Breakpoint) Condition() string {
	return "(min-width: " + b.MinWidth + ")"
}

// Variant is a single element of a variant chain. Which fields are relevant
// depends on Kind:
//
//	KindResponsive  Breakpoint
//	KindState, KindGroup, KindPeer, KindElement  Name (utility spelling, e.g. "first", "hover", "before")
//	KindNot         Inner
//	KindCustom      Custom
type Variant struct {
	Kind       Kind
	Breakpoint Breakpoint
	Name       string
	Inner      *Variant
	Custom     CustomVariant
}

// Responsive returns breakpoint variant.
func Responsive(bp Breakpoint) Variant {
	return Variant{Kind: KindResponsive, Breakpoint: bp}
}

// Dark returns dark mode variant.
func Dark() Variant {
	return Variant{Kind: KindDark}
}

// State returns pseudo-class variant.
func State(name string) Variant {
	return Variant{Kind: KindState, Name: name}
}

// Group returns group ancestor state variant.
func Group(name string) Variant {
	return Variant{Kind: KindGroup, Name: name}
}

// Peer returns peer sibling state variant.
func Peer(name string) Variant {
	return Variant{Kind: KindPeer, Name: name}
}

// Element returns pseudo-element variant.
func Element(name string) Variant {
	return Variant{Kind: KindElement, Name: name}
}

// Custom returns custom variant.
func Custom(cv CustomVariant) Variant {
	return Variant{Kind: KindCustom, Custom: cv}
}

// Not returns negation of v. Double negation collapses.
func Not(v Variant) Variant {
	if v.Kind == KindNot && v.Inner != nil {
		return *v.Inner
	}
	inner := v
	return Variant{Kind: KindNot, Inner: &inner}
}

// String returns canonical variant text, the one which makes Catalog.Parse
// return the same variant.
func (v Variant) String() string {
	switch v.Kind {
	case KindResponsive:
		return v.Breakpoint.Name
	case KindDark:
		return "dark"
	case KindState, KindElement:
		return v.Name
	case KindGroup:
		return "group-" + v.Name
	case KindPeer:
		return "peer-" + v.Name
	case KindCustom:
		return v.Custom.String()
	case KindNot:
		if v.Inner == nil {
			return "not-"
		}
		if v.Inner.Kind == KindResponsive {
			return "max-" + v.Inner.Breakpoint.Name
		}
		return "not-" + v.Inner.String()
	default:
		return ""
	}
}

// Equal reports whether two variants are identical.
func (v Variant) Equal(o Variant) bool {
	if v.Kind != o.Kind || v.Breakpoint != o.Breakpoint || v.Name != o.Name || v.Custom != o.Custom {
		return false
	}
	if v.Inner == nil || o.Inner == nil {
		return v.Inner == o.Inner
	}
	return v.Inner.Equal(*o.Inner)
}

// Chain renders variant chain as token prefix, e.g. "sm:hover:".
func Chain(vs []Variant) string {
	if len(vs) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, v := range vs {
		sb.WriteString(v.String())
		sb.WriteByte(':')
	}
	return sb.String()
}
