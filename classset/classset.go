// Package classset keeps generated rules: one rule per canonical class, in
// first-seen order, with side indexes by responsive breakpoint and by
// conditional wrapper.
package classset

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/maruel/natural"

	"twc/css"
)

// ClassSet is ordered, deduplicated set of rules. It is safe for concurrent
// use, inserts are serialized.
type ClassSet struct {
	mu          sync.Mutex
	rules       map[string]css.Rule
	order       []string
	breakpoints map[string][]string // breakpoint name -> classes
	conditions  map[string][]string // wrapper -> classes, non-responsive conditional rules
	condOrder   []string            // wrappers in first-seen order
}

// New creates empty set.
func New() *ClassSet {
	return &ClassSet{
		rules:       make(map[string]css.Rule),
		breakpoints: make(map[string][]string),
		conditions:  make(map[string][]string),
	}
}

// Insert adds rule under canonical class name. Inserting already known name
// is a no-op and returns false: the first rule wins.
func (s *ClassSet) Insert(canonical string, rule css.Rule) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(canonical, rule)
}

func (s *ClassSet) insert(canonical string, rule css.Rule) bool {
	if _, exists := s.rules[canonical]; exists {
		return false
	}
	s.rules[canonical] = rule
	s.order = append(s.order, canonical)

	switch {
	case rule.Breakpoint != "":
		s.breakpoints[rule.Breakpoint] = append(s.breakpoints[rule.Breakpoint], canonical)
	case rule.Conditional():
		key := rule.Wrapper()
		if _, ok := s.conditions[key]; !ok {
			s.condOrder = append(s.condOrder, key)
		}
		s.conditions[key] = append(s.conditions[key], canonical)
	}
	return true
}

// Contains reports whether canonical class is present.
func (s *ClassSet) Contains(canonical string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rules[canonical]
	return ok
}

// Len returns number of rules.
func (s *ClassSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Rule returns rule for canonical class.
func (s *ClassSet) Rule(canonical string) (css.Rule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rules[canonical]
	return r, ok
}

// Classes returns canonical class names in insertion order.
func (s *ClassSet) Classes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

// OrderedRules returns rules in insertion order.
func (s *ClassSet) OrderedRules() []css.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]css.Rule, 0, len(s.order))
	for _, c := range s.order {
		out = append(out, s.rules[c])
	}
	return out
}

// Breakpoint returns classes of responsive bucket in insertion order.
func (s *ClassSet) Breakpoint(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.breakpoints[name])
}

// Conditions returns wrapper keys of non-responsive conditional buckets in
// first-seen order.
func (s *ClassSet) Conditions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.condOrder)
}

// Condition returns classes of conditional bucket.
func (s *ClassSet) Condition(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.conditions[key])
}

// Merge inserts rules from other set in other's order under the same
// canonical names. Classes already present are kept.
func (s *ClassSet) Merge(other *ClassSet) {
	if other == nil || other == s {
		return
	}
	other.mu.Lock()
	keys := slices.Clone(other.order)
	rules := make([]css.Rule, len(keys))
	for i, k := range keys {
		rules[i] = other.rules[k]
	}
	other.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, k := range keys {
		s.insert(k, rules[i])
	}
}

// Reset empties the set.
func (s *ClassSet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.rules)
	clear(s.breakpoints)
	clear(s.conditions)
	s.order = s.order[:0]
	s.condOrder = s.condOrder[:0]
}

// Stylesheet lays rules out for output: unconditional rules first, then
// responsive buckets in the given breakpoint order, then remaining
// conditional buckets in first-seen order. Rules within a bucket keep
// insertion order. Breakpoint buckets not named in breakpoints follow in
// natural order of their names.
func (s *ClassSet) Stylesheet(breakpoints []string) *css.Stylesheet {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheet := &css.Stylesheet{}
	for _, c := range s.order {
		if r := s.rules[c]; r.Breakpoint == "" && !r.Conditional() {
			sheet.Add(r)
		}
	}

	names := slices.Clone(breakpoints)
	var extra []string
	for name := range s.breakpoints {
		if !slices.Contains(names, name) {
			extra = append(extra, name)
		}
	}
	sort.Sort(natural.StringSlice(extra))
	names = append(names, extra...)

	for _, name := range names {
		for _, c := range s.breakpoints[name] {
			sheet.Add(s.rules[c])
		}
	}
	for _, key := range s.condOrder {
		for _, c := range s.conditions[key] {
			sheet.Add(s.rules[c])
		}
	}
	return sheet
}

// Dump writes human readable listing of the set for debugging: rules in
// insertion order followed by bucket indexes with naturally sorted keys.
func (s *ClassSet) Dump(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "rules: %d\n", len(s.order))
	for i, c := range s.order {
		r := s.rules[c]
		fmt.Fprintf(&b, "%4d %s\n", i, c)
		fmt.Fprintf(&b, "     selector: %s (specificity %d)\n", r.Selector, r.Specificity)
		if wrapper := r.Wrapper(); wrapper != "" {
			fmt.Fprintf(&b, "     wrapper: %s\n", wrapper)
		}
		for _, d := range r.Declarations {
			fmt.Fprintf(&b, "     %s\n", d)
		}
	}

	keys := make([]string, 0, len(s.breakpoints))
	for k := range s.breakpoints {
		keys = append(keys, k)
	}
	sort.Sort(natural.StringSlice(keys))
	for _, k := range keys {
		fmt.Fprintf(&b, "breakpoint %s: %s\n", k, strings.Join(s.breakpoints[k], " "))
	}

	keys = slices.Clone(s.condOrder)
	sort.Sort(natural.StringSlice(keys))
	for _, k := range keys {
		fmt.Fprintf(&b, "condition %s: %s\n", k, strings.Join(s.conditions[k], " "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
