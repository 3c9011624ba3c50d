package compiler_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"go.uber.org/zap"

	"twc/cache"
	"twc/common"
	"twc/compiler"
	"twc/css"
	"twc/utility"
	"twc/variant"
)

func newCompiler(t *testing.T, opts compiler.Options) *compiler.Compiler {
	t.Helper()
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	c, err := compiler.New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestCompileToken_Scenarios(t *testing.T) {
	c := newCompiler(t, compiler.Options{DarkMode: common.DarkModeClass})

	tests := []struct {
		token       string
		selector    string
		media       string
		decls       string
		specificity uint32
	}{
		{"p-4", ".p-4", "", "padding: 1rem", 10},
		{"hover:bg-blue-500", `.hover\:bg-blue-500:hover`, "", "background-color: #3b82f6", 20},
		{"sm:dark:text-lg", `.dark .sm\:dark\:text-lg`, "(min-width: 640px)", "font-size: 1.125rem", 20},
		{"aria-checked:bg-green-500", `.aria-checked\:bg-green-500[aria-checked]`, "", "background-color: #22c55e", 20},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			r, err := c.CompileToken(tt.token)
			if err != nil {
				t.Fatalf("CompileToken() error = %v", err)
			}
			if r.Selector != tt.selector || r.Media != tt.media || r.Specificity != tt.specificity {
				t.Errorf("rule = %+v", r)
			}
			if len(r.Declarations) == 0 || r.Declarations[0].String() != tt.decls {
				t.Errorf("declarations = %v, want %s first", r.Declarations, tt.decls)
			}
		})
	}
}

func TestCompileToken_InvalidVariant(t *testing.T) {
	c := newCompiler(t, compiler.Options{})

	r, err := c.CompileToken("-invalid:bg-red-500")
	if err == nil {
		t.Fatalf("CompileToken() = %+v, want error", r)
	}
	if !errors.Is(err, variant.ErrInvalidVariantName) {
		t.Fatalf("error = %v, want ErrInvalidVariantName", err)
	}
	var te *compiler.TokenError
	if !errors.As(err, &te) {
		t.Fatalf("error %T is not *TokenError", err)
	}
	if te.Stage != compiler.StageVariant || te.Pos != 0 || te.Substring != "-invalid" {
		t.Errorf("token error = %+v", te)
	}
	var ve *variant.ValidationError
	if !errors.As(err, &ve) || ve.Char != '-' || len(ve.Suggestions) == 0 {
		t.Errorf("validation error = %+v", ve)
	}
}

func TestCompileToken_Errors(t *testing.T) {
	c := newCompiler(t, compiler.Options{})

	tests := []struct {
		token     string
		stage     compiler.Stage
		pos       int
		substring string
		target    error
	}{
		{"bg-[#f00", compiler.StageDecompose, 3, "bg-[#f00", variant.ErrUnbalancedBracket},
		{"hover::p-4", compiler.StageDecompose, 6, "hover::p-4", variant.ErrEmptySegment},
		{"hover:foo-bar", compiler.StageUtility, 6, "foo-bar", utility.ErrUnknownUtility},
		{"md:hover:bg-[#f00]/150", compiler.StageUtility, 9, "bg-[#f00]/150", utility.ErrUnknownUtility},
		{"hover:nope:p-4", compiler.StageVariant, 6, "nope", variant.ErrUnknownVariantKind},
		{"hover:aria-checked_:p-4", compiler.StageVariant, 18, "aria-checked_", variant.ErrInvalidVariantName},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			_, err := c.CompileToken(tt.token)
			var te *compiler.TokenError
			if !errors.As(err, &te) {
				t.Fatalf("error = %v, want *TokenError", err)
			}
			if te.Stage != tt.stage || te.Pos != tt.pos || te.Substring != tt.substring {
				t.Errorf("token error = stage %s pos %d substring %q", te.Stage, te.Pos, te.Substring)
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestCompile_RecoversPerToken(t *testing.T) {
	c := newCompiler(t, compiler.Options{Workers: 2})

	set, errs, err := c.Compile(context.Background(), []string{
		"p-4", "-invalid:bg-red-500", "m-2", "p-4", "foo", "", "hover:m-2",
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := set.Classes(); !slices.Equal(got, []string{"p-4", "m-2", "hover:m-2"}) {
		t.Errorf("classes = %v", got)
	}
	if errs.Len() != 2 {
		t.Fatalf("errors = %v, want 2", errs.Items())
	}
	if errs.Items()[0].Token != "-invalid:bg-red-500" || errs.Items()[1].Token != "foo" {
		t.Errorf("errors out of order: %v", errs.Err())
	}
	if errs.Err() == nil {
		t.Error("Err() = nil with recorded errors")
	}
}

func TestCompile_MaxErrors(t *testing.T) {
	c := newCompiler(t, compiler.Options{MaxErrors: 2})
	_, errs, err := c.Compile(context.Background(), []string{"a1", "a2", "a3", "a4", "p-1"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if errs.Len() != 2 || errs.Dropped() != 2 {
		t.Errorf("errors = %d, dropped = %d, want 2 and 2", errs.Len(), errs.Dropped())
	}
	if errs.Items()[0].Token != "a1" || errs.Items()[1].Token != "a2" {
		t.Errorf("kept wrong errors: %v", errs.Err())
	}
}

func tokens() []string {
	var out []string
	prefixes := []string{"", "hover:", "md:", "dark:", "sm:focus:", "not-first:", "lg:group-hover:", "print:", "supports-grid:", "max-md:"}
	bases := []string{"p-4", "m-2", "bg-blue-500", "text-lg", "w-1/2", "flex", "border-2", "rounded-lg", "opacity-50", "z-10",
		"text-red-500/50", "[mask-type:luminance]", "-mt-4", "grid-cols-3", "blur-sm"}
	for _, p := range prefixes {
		for _, b := range bases {
			out = append(out, p+b)
		}
	}
	// duplicates and failures spread over the input
	out = append(out, "p-4", "nope:p-4", "md:p-4", "bogus")
	return out
}

func TestCompile_Deterministic(t *testing.T) {
	defs := []css.VariantDefinition{{Name: "print", Template: "@media print"}}
	single := newCompiler(t, compiler.Options{Workers: 1, AllowCustomVariants: true, CustomVariants: defs})
	multi := newCompiler(t, compiler.Options{Workers: 7, AllowCustomVariants: true, CustomVariants: defs})

	in := tokens()
	a, aerrs, err := single.Compile(context.Background(), in)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	b, berrs, err := multi.Compile(context.Background(), in)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !slices.Equal(a.Classes(), b.Classes()) {
		t.Error("class order differs between single and multi worker runs")
	}
	sa := a.Stylesheet(single.BreakpointNames()).String()
	sb := b.Stylesheet(multi.BreakpointNames()).String()
	if sa != sb {
		t.Errorf("stylesheets differ:\n%s\n---\n%s", sa, sb)
	}
	if aerrs.Err().Error() != berrs.Err().Error() {
		t.Errorf("errors differ: %v vs %v", aerrs.Err(), berrs.Err())
	}
	if a.Len() != len(in)-4 {
		t.Errorf("Len() = %d, want %d", a.Len(), len(in)-4)
	}
	if single.Fingerprint() != multi.Fingerprint() {
		t.Error("worker count changed fingerprint")
	}
}

func TestCompileInto_Idempotent(t *testing.T) {
	c := newCompiler(t, compiler.Options{})
	set, _, err := c.Compile(context.Background(), []string{"p-4", "m-2"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	before := set.Stylesheet(c.BreakpointNames()).String()

	if _, err := c.CompileInto(context.Background(), set, []string{"m-2", "p-4", "w-4"}); err != nil {
		t.Fatalf("CompileInto() error = %v", err)
	}
	if got := set.Classes(); !slices.Equal(got, []string{"p-4", "m-2", "w-4"}) {
		t.Errorf("classes = %v", got)
	}
	if _, err := c.CompileInto(context.Background(), set, []string{"w-4"}); err != nil {
		t.Fatalf("CompileInto() error = %v", err)
	}
	if set.Len() != 3 {
		t.Errorf("Len() = %d after repeated insert", set.Len())
	}
	if after := set.Stylesheet(c.BreakpointNames()).String(); len(after) <= len(before) {
		t.Error("stylesheet did not grow")
	}
}

func TestCompile_Canceled(t *testing.T) {
	c := newCompiler(t, compiler.Options{Workers: 2})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set, _, err := c.Compile(ctx, []string{"p-4", "m-4"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Compile() error = %v, want context.Canceled", err)
	}
	if set != nil {
		t.Error("canceled run returned a set")
	}
}

func TestCompile_Cache(t *testing.T) {
	store, err := cache.Open(cache.MemoryPath, zap.NewNop())
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	defer store.Close()

	c := newCompiler(t, compiler.Options{Cache: store})
	first, _, err := c.Compile(context.Background(), []string{"p-4", "hover:m-2", "nope"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if n, _ := store.Count(c.Fingerprint()); n != 2 {
		t.Fatalf("cached %d rules, want 2", n)
	}

	second, _, err := c.Compile(context.Background(), []string{"w-4", "hover:m-2", "p-4"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := second.Classes(); !slices.Equal(got, []string{"w-4", "hover:m-2", "p-4"}) {
		t.Errorf("classes = %v", got)
	}
	r1, _ := first.Rule("hover:m-2")
	r2, _ := second.Rule("hover:m-2")
	if r1.Selector != r2.Selector || r1.Specificity != r2.Specificity {
		t.Errorf("cached rule %+v differs from compiled %+v", r2, r1)
	}
	if n, _ := store.Count(c.Fingerprint()); n != 3 {
		t.Errorf("cached %d rules, want 3", n)
	}

	other := newCompiler(t, compiler.Options{Cache: store, DarkMode: common.DarkModeMedia})
	if other.Fingerprint() == c.Fingerprint() {
		t.Error("dark mode change kept fingerprint")
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts compiler.Options
	}{
		{"custom variants disabled", compiler.Options{CustomVariants: []css.VariantDefinition{{Name: "print", Template: "@media print"}}}},
		{"bad variant name", compiler.Options{AllowCustomVariants: true, CustomVariants: []css.VariantDefinition{{Name: "-x", Template: "&:hover"}}}},
		{"bad template", compiler.Options{AllowCustomVariants: true, CustomVariants: []css.VariantDefinition{{Name: "x", Template: "@container x"}}}},
		{"bad dark mode", compiler.Options{DarkMode: common.DarkMode(7)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := compiler.New(tt.opts); err == nil {
				t.Error("New() succeeded")
			}
		})
	}
}

func TestNew_CustomMatchers(t *testing.T) {
	c := newCompiler(t, compiler.Options{Matchers: []utility.Matcher{utility.Spacing()}})
	if _, err := c.CompileToken("bg-blue-500"); err == nil {
		t.Error("color utility resolved without color matcher")
	}
	if _, err := c.CompileToken("p-4"); err != nil {
		t.Errorf("CompileToken(p-4) error = %v", err)
	}
}

func ExampleCompiler_Compile() {
	c, _ := compiler.New(compiler.Options{Workers: 1})
	set, errs, _ := c.Compile(context.Background(), []string{"p-4", "hover:bg-blue-500", "p-4", "-invalid:p-4"})
	fmt.Print(set.Stylesheet(c.BreakpointNames()))
	fmt.Println(errs.Len())
	// Output:
	// .p-4 {
	//   padding: 1rem;
	// }
	// .hover\:bg-blue-500:hover {
	//   background-color: #3b82f6;
	// }
	// 1
}
