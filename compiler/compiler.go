// Package compiler runs utility tokens through the whole pipeline:
// decomposition, variant resolution, utility matching and rule composition,
// collecting results into a ClassSet. Tokens are compiled in parallel, the
// result does not depend on scheduling.
package compiler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"twc/cache"
	"twc/classset"
	"twc/common"
	"twc/compose"
	"twc/css"
	"twc/utility"
	"twc/variant"
)

// bump when generated rules change for the same configuration
const fingerprintVersion = 1

// Options configures Compiler.
type Options struct {
	Breakpoints         []variant.Breakpoint // nil means default breakpoints
	DarkMode            common.DarkMode
	DarkClass           string
	AllowCustomVariants bool
	CustomVariants      []css.VariantDefinition
	Matchers            []utility.Matcher // nil means built-in matchers
	Workers             int               // 0 means GOMAXPROCS
	MaxErrors           int               // 0 means no limit
	Cache               *cache.Store
	Log                 *zap.Logger
}

// Compiler is immutable after New and safe for concurrent use.
type Compiler struct {
	catalog     *variant.Catalog
	router      *utility.Router
	composer    *compose.Composer
	workers     int
	maxErrors   int
	cache       *cache.Store
	fingerprint string
	log         *zap.Logger
}

// New builds registry, catalog, router and composer from options.
func New(opts Options) (*Compiler, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("compiler")

	breakpoints := opts.Breakpoints
	if breakpoints == nil {
		breakpoints = variant.DefaultBreakpoints()
	}
	matchers := opts.Matchers
	if matchers == nil {
		matchers = utility.Builtin()
	} else {
		for _, c := range utility.CheckPriorities(matchers) {
			log.Warn("Ambiguous matcher priorities, registration order decides", zap.Stringer("conflict", c))
		}
	}
	if !opts.DarkMode.IsValid() {
		return nil, fmt.Errorf("%w: %d", common.ErrInvalidDarkMode, opts.DarkMode)
	}

	reg := variant.NewRegistry(variant.WithCustomVariants(opts.AllowCustomVariants))
	for _, def := range opts.CustomVariants {
		key, value, _ := strings.Cut(def.Name, "=")
		cv := variant.CustomVariant{Kind: variant.CustomName, Key: key, Value: value, Template: def.Template}
		if err := reg.Register(cv); err != nil {
			return nil, fmt.Errorf("unable to register custom variant %q: %w", def.Name, err)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	c := &Compiler{
		catalog:   variant.NewCatalog(breakpoints, reg),
		router:    utility.NewRouter(matchers...),
		composer:  compose.New(compose.Options{DarkMode: opts.DarkMode, DarkClass: opts.DarkClass}),
		workers:   workers,
		maxErrors: opts.MaxErrors,
		cache:     opts.Cache,
		log:       log,
	}

	fp, err := fingerprint(breakpoints, opts, c.router.Matchers())
	if err != nil {
		return nil, err
	}
	c.fingerprint = fp

	log.Debug("Compiler ready",
		zap.Int("breakpoints", len(breakpoints)),
		zap.Int("custom variants", reg.Len()),
		zap.Int("matchers", len(matchers)),
		zap.Int("workers", workers),
		zap.String("fingerprint", fp))
	return c, nil
}

// Catalog returns variant catalog.
func (c *Compiler) Catalog() *variant.Catalog {
	return c.catalog
}

// Router returns utility router.
func (c *Compiler) Router() *utility.Router {
	return c.router
}

// Fingerprint identifies configuration affecting generated rules.
func (c *Compiler) Fingerprint() string {
	return c.fingerprint
}

// BreakpointNames returns configured breakpoint names in order, suitable for
// ClassSet.Stylesheet.
func (c *Compiler) BreakpointNames() []string {
	bps := c.catalog.Breakpoints()
	names := make([]string, len(bps))
	for i, bp := range bps {
		names[i] = bp.Name
	}
	return names
}

// CompileToken compiles single token. Returned error is always *TokenError.
func (c *Compiler) CompileToken(raw string) (css.Rule, error) {
	rule, te := c.compile(raw)
	if te != nil {
		return css.Rule{}, te
	}
	return rule, nil
}

// Compile compiles tokens into new ClassSet. See CompileInto.
func (c *Compiler) Compile(ctx context.Context, tokens []string) (*classset.ClassSet, *Errors, error) {
	set := classset.New()
	errs, err := c.CompileInto(ctx, set, tokens)
	if err != nil {
		return nil, errs, err
	}
	return set, errs, nil
}

// slot holds outcome for a single token, owned by the worker compiling it.
type slot struct {
	rule   css.Rule
	err    *TokenError
	cached bool
}

// CompileInto compiles tokens not yet in set and inserts resulting rules in
// first-seen order. Rejected tokens produce no rules and are reported in
// returned Errors. Returned error is not nil only when ctx was canceled, in
// that case set is left untouched.
func (c *Compiler) CompileInto(ctx context.Context, set *classset.ClassSet, tokens []string) (*Errors, error) {
	tokens = pending(set, tokens)
	errs := newErrors(c.maxErrors)
	if len(tokens) == 0 {
		return errs, nil
	}

	slots := make([]slot, len(tokens))

	var todo []int
	hits, err := c.cache.Lookup(c.fingerprint, tokens)
	if err != nil {
		c.log.Warn("Unable to read cache, compiling everything", zap.Error(err))
	}
	for i, token := range tokens {
		if rule, ok := hits[token]; ok {
			slots[i] = slot{rule: rule, cached: true}
			continue
		}
		todo = append(todo, i)
	}

	if err := c.run(ctx, tokens, todo, slots); err != nil {
		return errs, err
	}

	var fresh []css.Rule
	for i, token := range tokens {
		s := &slots[i]
		if s.err != nil {
			c.log.Debug("Token rejected", zap.String("token", token), zap.Stringer("stage", s.err.Stage), zap.Error(s.err.Err))
			errs.add(s.err)
			continue
		}
		set.Insert(token, s.rule)
		if !s.cached {
			fresh = append(fresh, s.rule)
		}
	}

	if err := c.cache.Store(c.fingerprint, fresh); err != nil {
		c.log.Warn("Unable to update cache", zap.Error(err))
	}

	c.log.Debug("Tokens compiled",
		zap.Int("tokens", len(tokens)),
		zap.Int("cached", len(tokens)-len(todo)),
		zap.Int("compiled", len(fresh)),
		zap.Int("rejected", errs.Len()+errs.Dropped()))
	return errs, nil
}

// run compiles tokens at indexes todo, splitting them into contiguous chunks,
// one per worker. Every slot is written by exactly one worker.
func (c *Compiler) run(ctx context.Context, tokens []string, todo []int, slots []slot) error {
	if len(todo) == 0 {
		return ctx.Err()
	}
	chunks := split(len(todo), c.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(c.workers, len(chunks)))
	for _, ch := range chunks {
		g.Go(func() error {
			for _, i := range todo[ch[0]:ch[1]] {
				if err := gctx.Err(); err != nil {
					return err
				}
				rule, te := c.compile(tokens[i])
				slots[i] = slot{rule: rule, err: te}
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Compiler) compile(raw string) (css.Rule, *TokenError) {
	pc, err := variant.Decompose(raw)
	if err != nil {
		te := &TokenError{Token: raw, Substring: raw, Stage: StageDecompose, Err: err}
		var de *variant.DecomposeError
		if errors.As(err, &de) {
			te.Pos = de.Pos
		}
		return css.Rule{}, te
	}

	vs := make([]variant.Variant, 0, len(pc.Variants))
	for i, name := range pc.Variants {
		v, err := c.catalog.Parse(name)
		if err != nil {
			te := &TokenError{Token: raw, Pos: pc.VariantPos[i], Substring: name, Stage: StageVariant, Err: err}
			var ve *variant.ValidationError
			if errors.As(err, &ve) && ve.Kind == variant.InvalidVariantName {
				te.Pos += ve.Pos
			}
			return css.Rule{}, te
		}
		vs = append(vs, v)
	}

	decls, ok := c.router.Resolve(utility.CandidateFrom(pc))
	if !ok {
		base := utility.CandidateFrom(pc).String()
		return css.Rule{}, &TokenError{Token: raw, Pos: pc.BasePos, Substring: base, Stage: StageUtility,
			Err: &utility.UnknownUtilityError{Base: base}}
	}
	return c.composer.Compose(pc.Canonical(), decls, vs, pc.Important), nil
}

// pending drops duplicates, empty tokens and tokens already present in set,
// keeping first-seen order.
func pending(set *classset.ClassSet, tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if set.Contains(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// split divides n items into at most parts contiguous [from, to) ranges of
// nearly equal size.
func split(n, parts int) [][2]int {
	parts = max(1, min(parts, n))
	size, rest := n/parts, n%parts
	out := make([][2]int, 0, parts)
	for from := 0; from < n; {
		to := from + size
		if rest > 0 {
			to++
			rest--
		}
		out = append(out, [2]int{from, to})
		from = to
	}
	return out
}

func fingerprint(breakpoints []variant.Breakpoint, opts Options, matchers []utility.Matcher) (string, error) {
	in := struct {
		Version     int
		Breakpoints []variant.Breakpoint
		DarkMode    string
		DarkClass   string
		Variants    []css.VariantDefinition
		Matchers    []utility.Descriptor
	}{
		Version:     fingerprintVersion,
		Breakpoints: breakpoints,
		DarkMode:    opts.DarkMode.String(),
		DarkClass:   opts.DarkClass,
		Variants:    opts.CustomVariants,
	}
	for _, m := range matchers {
		in.Matchers = append(in.Matchers, m.Describe())
	}

	data, err := msgpack.Marshal(&in)
	if err != nil {
		return "", fmt.Errorf("unable to encode configuration fingerprint: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
