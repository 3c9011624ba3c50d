package compiler

import (
	"fmt"

	"go.uber.org/multierr"
)

// Stage names pipeline step which rejected a token.
type Stage uint8

const (
	StageDecompose Stage = iota + 1
	StageVariant
	StageUtility
)

func (s Stage) String() string {
	switch s {
	case StageDecompose:
		return "decompose"
	case StageVariant:
		return "variant"
	case StageUtility:
		return "utility"
	default:
		return fmt.Sprintf("Stage(%d)", s)
	}
}

// TokenError describes a rejected token. Pos is byte offset in Token of the
// offending Substring.
type TokenError struct {
	Token     string
	Pos       int
	Substring string
	Stage     Stage
	Err       error
}

func (e *TokenError) Error() string {
	if e.Substring == e.Token {
		return fmt.Sprintf("%s: %v", e.Token, e.Err)
	}
	return fmt.Sprintf("%s: %s at %d: %v", e.Token, e.Substring, e.Pos, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// Errors accumulates token errors in first-seen token order. When limit is
// reached further errors are only counted.
type Errors struct {
	limit   int
	items   []*TokenError
	dropped int
}

func newErrors(limit int) *Errors {
	return &Errors{limit: limit}
}

func (e *Errors) add(te *TokenError) {
	if e.limit > 0 && len(e.items) >= e.limit {
		e.dropped++
		return
	}
	e.items = append(e.items, te)
}

// Len returns number of recorded errors.
func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	return len(e.items)
}

// Dropped returns number of errors which did not fit into limit.
func (e *Errors) Dropped() int {
	if e == nil {
		return 0
	}
	return e.dropped
}

// Items returns recorded errors.
func (e *Errors) Items() []*TokenError {
	if e == nil {
		return nil
	}
	return e.items
}

// Err combines recorded errors, nil when there are none.
func (e *Errors) Err() error {
	if e == nil || len(e.items) == 0 {
		return nil
	}
	errs := make([]error, 0, len(e.items))
	for _, te := range e.items {
		errs = append(errs, te)
	}
	return multierr.Combine(errs...)
}
