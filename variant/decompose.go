package variant

import (
	"errors"
	"fmt"
	"strings"
)

// ArbitraryPlaceholder replaces extracted bracketed value in base utility.
const ArbitraryPlaceholder = "[]"

// DecomposeErrorKind classifies decomposition failures.
type DecomposeErrorKind uint8

const (
	UnbalancedBracket DecomposeErrorKind = iota + 1
	EmptySegment
	EmptyToken
)

var (
	ErrUnbalancedBracket = errors.New("unbalanced bracket")
	ErrEmptySegment      = errors.New("empty segment")
	ErrEmptyToken        = errors.New("empty token")
)

// DecomposeError reports malformed token structure.
type DecomposeError struct {
	Kind  DecomposeErrorKind
	Token string
	Pos   int // byte offset in Token
}

func (e *DecomposeError) Error() string {
	switch e.Kind {
	case UnbalancedBracket:
		return fmt.Sprintf("unbalanced bracket at position %d in %q", e.Pos, e.Token)
	case EmptySegment:
		return fmt.Sprintf("empty variant segment at position %d in %q", e.Pos, e.Token)
	default:
		return "empty class token"
	}
}

func (e *DecomposeError) Is(target error) bool {
	switch e.Kind {
	case UnbalancedBracket:
		return target == ErrUnbalancedBracket
	case EmptySegment:
		return target == ErrEmptySegment
	case EmptyToken:
		return target == ErrEmptyToken
	}
	return false
}

// ParsedClassName is the result of token decomposition. It is never modified
// after Decompose returns.
type ParsedClassName struct {
	Raw          string   // Token as authored
	Variants     []string // Variant names, outermost first
	VariantPos   []int    // Byte offset of every variant name in Raw
	Important    bool     // "!" prefix or suffix on base
	Base         string   // Base utility with arbitrary value replaced by placeholder
	BasePos      int      // Byte offset of base utility in Raw
	Arbitrary    string   // Bracketed value without brackets
	HasArbitrary bool
}

// Decompose splits raw token into variant names and base utility. Colons
// inside brackets or parentheses and escaped colons do not split. Variant
// names are not interpreted.
func Decompose(raw string) (ParsedClassName, error) {
	pc := ParsedClassName{Raw: raw}

	if strings.TrimSpace(raw) == "" {
		return pc, &DecomposeError{Kind: EmptyToken, Token: raw}
	}

	var (
		brackets []int // positions of open '['
		parens   int
		start    int
	)
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case '[':
			brackets = append(brackets, i)
		case ']':
			if len(brackets) == 0 {
				return pc, &DecomposeError{Kind: UnbalancedBracket, Token: raw, Pos: i}
			}
			brackets = brackets[:len(brackets)-1]
		case '(':
			parens++
		case ')':
			if parens > 0 {
				parens--
			}
		case ':':
			if len(brackets) > 0 || parens > 0 {
				continue
			}
			if i == start {
				return pc, &DecomposeError{Kind: EmptySegment, Token: raw, Pos: i}
			}
			pc.Variants = append(pc.Variants, raw[start:i])
			pc.VariantPos = append(pc.VariantPos, start)
			start = i + 1
		}
	}
	if len(brackets) > 0 {
		return pc, &DecomposeError{Kind: UnbalancedBracket, Token: raw, Pos: brackets[0]}
	}
	if start >= len(raw) {
		return pc, &DecomposeError{Kind: EmptySegment, Token: raw, Pos: len(raw)}
	}

	base, pos := raw[start:], start
	switch {
	case strings.HasPrefix(base, "!"):
		pc.Important = true
		base, pos = base[1:], pos+1
	case strings.HasSuffix(base, "!") && !strings.HasSuffix(base, `\!`):
		pc.Important = true
		base = base[:len(base)-1]
	}
	if base == "" {
		return pc, &DecomposeError{Kind: EmptySegment, Token: raw, Pos: pos}
	}

	pc.Base, pc.BasePos = base, pos
	if open := indexUnescaped(base, '['); open >= 0 {
		end := matchingBracket(base, open)
		pc.Arbitrary = base[open+1 : end]
		pc.HasArbitrary = true
		pc.Base = base[:open] + ArbitraryPlaceholder + base[end+1:]
	}
	return pc, nil
}

// Canonical returns the class string used as rule key and selector source.
func (pc ParsedClassName) Canonical() string {
	return pc.Raw
}

func indexUnescaped(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case c:
			return i
		}
	}
	return -1
}

// matchingBracket expects brackets to be balanced.
func matchingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	// balance was checked by Decompose
	panic(fmt.Sprintf("unbalanced brackets in %q", s))
}
