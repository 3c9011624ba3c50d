// Package utility turns base utility names (what is left of a class token
// once variants are stripped) into CSS declarations. Each family of utilities
// is a Matcher, the Router dispatches a candidate to matchers in priority
// order.
package utility

import (
	"errors"
	"fmt"
	"strings"

	"twc/css"
	"twc/variant"
)

// Priority determines resolution order when more than one matcher could
// claim the same base. Higher values are checked first. Use increments of 50
// for future insertions.
const (
	PriorityGeneric     uint32 = 100 // color, spacing, layout
	PrioritySpecific    uint32 = 150 // font sizes, border widths
	PrioritySpecialized uint32 = 200 // border-spacing
	PriorityArbitrary   uint32 = 250 // [property:value]
)

// Category groups matchers for listing and debugging.
type Category string

const (
	CategorySpacing    Category = "spacing"
	CategorySizing     Category = "sizing"
	CategoryColor      Category = "color"
	CategoryTypography Category = "typography"
	CategoryLayout     Category = "layout"
	CategoryFlexGrid   Category = "flexbox-grid"
	CategoryBorder     Category = "border"
	CategoryEffects    Category = "effects"
	CategoryFilters    Category = "filters"
	CategoryTransforms Category = "transforms"
	CategoryArbitrary  Category = "arbitrary"
)

// Descriptor is static matcher metadata. Patterns are either literal base
// names ("flex") or a literal prefix followed by "*" ("bg-*"), they are used
// by Router for indexing and by CheckPriorities for overlap detection.
type Descriptor struct {
	Priority uint32
	Category Category
	Patterns []string
}

// Candidate is a base utility ready for matching. When the original token
// carried a bracketed value Base holds the "[]" placeholder and Arbitrary the
// bracket content.
type Candidate struct {
	Base         string
	Arbitrary    string
	HasArbitrary bool
}

// CandidateFrom builds candidate from decomposed class name.
func CandidateFrom(pc variant.ParsedClassName) Candidate {
	return Candidate{Base: pc.Base, Arbitrary: pc.Arbitrary, HasArbitrary: pc.HasArbitrary}
}

// String returns base with arbitrary value put back in place.
func (c Candidate) String() string {
	if !c.HasArbitrary {
		return c.Base
	}
	return strings.Replace(c.Base, variant.ArbitraryPlaceholder, "["+c.Arbitrary+"]", 1)
}

// Matcher recognizes one family of utilities. Parse returns nil when the
// candidate is not claimed. Matchers must be stateless after construction:
// Parse is called concurrently.
type Matcher interface {
	Describe() Descriptor
	Parse(c Candidate) []css.Property
}

var ErrUnknownUtility = errors.New("unknown utility")

// UnknownUtilityError is returned when no matcher claims base.
type UnknownUtilityError struct {
	Base string
}

func (e *UnknownUtilityError) Error() string {
	return fmt.Sprintf("unknown utility %q", e.Base)
}

func (e *UnknownUtilityError) Is(target error) bool {
	return target == ErrUnknownUtility
}
