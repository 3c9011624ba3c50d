package utility

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"twc/css"
)

// Router dispatches candidates to matchers. Matchers are ordered once at
// construction by priority (descending), equal priorities keep registration
// order. Router is read-only after construction and safe for concurrent use.
type Router struct {
	matchers []Matcher
	index    map[string][]Matcher // first word of base -> matchers in resolution order
	wild     []Matcher            // matchers which may claim any base
}

// NewRouter creates router for given matchers.
func NewRouter(matchers ...Matcher) *Router {
	sorted := slices.Clone(matchers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Describe().Priority > sorted[j].Describe().Priority
	})

	r := &Router{matchers: sorted, index: make(map[string][]Matcher)}

	keys := make([]map[string]bool, len(sorted))
	for i, m := range sorted {
		keys[i] = make(map[string]bool)
		for _, p := range m.Describe().Patterns {
			key, all := patternKey(p)
			if all {
				keys[i] = nil
				break
			}
			keys[i][key] = true
			r.index[key] = nil
		}
		if keys[i] == nil {
			r.wild = append(r.wild, m)
		}
	}
	for key := range r.index {
		var bucket []Matcher
		for i, m := range sorted {
			if keys[i] == nil || keys[i][key] {
				bucket = append(bucket, m)
			}
		}
		r.index[key] = bucket
	}
	return r
}

// Matchers returns matchers in resolution order.
func (r *Router) Matchers() []Matcher {
	return slices.Clone(r.matchers)
}

// Resolve returns declarations produced by the highest priority matcher
// which claims candidate.
func (r *Router) Resolve(c Candidate) ([]css.Property, bool) {
	bucket, ok := r.index[baseKey(c.Base)]
	if !ok {
		bucket = r.wild
	}
	for _, m := range bucket {
		if decls := m.Parse(c); len(decls) > 0 {
			return decls, true
		}
	}
	return nil, false
}

// ResolveBase resolves base without arbitrary value.
func (r *Router) ResolveBase(base string) ([]css.Property, error) {
	decls, ok := r.Resolve(Candidate{Base: base})
	if !ok {
		return nil, &UnknownUtilityError{Base: base}
	}
	return decls, nil
}

// baseKey returns first dash separated word of base, a leading dash (negative
// value) is part of the word.
func baseKey(base string) string {
	if base == "" {
		return ""
	}
	if i := strings.IndexAny(base[1:], "-/"); i >= 0 {
		return base[:i+1]
	}
	return base
}

// patternKey returns index key for pattern. all is true when pattern can
// match bases with different first words.
func patternKey(pattern string) (key string, all bool) {
	lit, wildcard := strings.CutSuffix(pattern, "*")
	if strings.Contains(lit, "*") {
		panic(fmt.Sprintf("pattern %q: wildcard allowed only at the end", pattern))
	}
	if !wildcard {
		return baseKey(lit), false
	}
	key = baseKey(lit)
	if len(key) == len(lit) {
		// "*" or "grow*": the wildcard continues the first word
		return "", true
	}
	return key, false
}

// Conflict describes two matchers of equal priority which can claim the same
// base.
type Conflict struct {
	Priority uint32
	First    Matcher
	Second   Matcher
	Patterns [2]string
}

func (c Conflict) String() string {
	return fmt.Sprintf("priority %d: %s (%q) overlaps %s (%q)", c.Priority,
		c.First.Describe().Category, c.Patterns[0], c.Second.Describe().Category, c.Patterns[1])
}

// CheckPriorities reports pairs of distinct matchers with equal priority
// whose patterns overlap. Routing between such matchers depends on
// registration order only, so a well formed matcher set reports none.
func CheckPriorities(matchers []Matcher) []Conflict {
	var out []Conflict
	for i := 0; i < len(matchers); i++ {
		di := matchers[i].Describe()
		for j := i + 1; j < len(matchers); j++ {
			dj := matchers[j].Describe()
			if di.Priority != dj.Priority {
				continue
			}
			if a, b, ok := firstOverlap(di.Patterns, dj.Patterns); ok {
				out = append(out, Conflict{Priority: di.Priority, First: matchers[i], Second: matchers[j], Patterns: [2]string{a, b}})
			}
		}
	}
	return out
}

func firstOverlap(as, bs []string) (string, string, bool) {
	for _, a := range as {
		for _, b := range bs {
			if patternsOverlap(a, b) {
				return a, b, true
			}
		}
	}
	return "", "", false
}

// patternsOverlap reports whether some base matches both patterns.
func patternsOverlap(a, b string) bool {
	la, wa := strings.CutSuffix(a, "*")
	lb, wb := strings.CutSuffix(b, "*")
	switch {
	case wa && wb:
		return strings.HasPrefix(la, lb) || strings.HasPrefix(lb, la)
	case wa:
		return strings.HasPrefix(lb, la)
	case wb:
		return strings.HasPrefix(la, lb)
	default:
		return la == lb
	}
}
