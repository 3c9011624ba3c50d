package variant_test

import (
	"errors"
	"slices"
	"testing"

	"twc/variant"
)

func newCatalog(t *testing.T) *variant.Catalog {
	t.Helper()
	reg := variant.NewRegistry()
	if err := reg.Register(variant.CustomVariant{Kind: variant.CustomName, Key: "theme-midnight",
		Template: "&:where([data-theme=midnight] *)"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(variant.CustomVariant{Kind: variant.Aria, Key: "checked"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return variant.NewCatalog(variant.DefaultBreakpoints(), reg)
}

func TestCatalog_RoundTrip(t *testing.T) {
	c := newCatalog(t)
	sm := variant.Breakpoint{Name: "sm", MinWidth: "640px"}

	variants := []variant.Variant{
		variant.Responsive(sm),
		variant.Not(variant.Responsive(sm)),
		variant.Dark(),
		variant.Not(variant.Dark()),
		variant.State("hover"),
		variant.State("first"),
		variant.Not(variant.State("focus")),
		variant.Group("hover"),
		variant.Peer("checked"),
		variant.Not(variant.Group("focus")),
		variant.Element("before"),
		variant.Element("file"),
		variant.Custom(variant.CustomVariant{Kind: variant.Aria, Key: "checked"}),
		variant.Custom(variant.CustomVariant{Kind: variant.Data, Key: "theme", Value: "dark"}),
		variant.Custom(variant.CustomVariant{Kind: variant.Supports, Key: "display", Value: "grid"}),
		variant.Custom(variant.CustomVariant{Kind: variant.CustomName, Key: "theme-midnight",
			Template: "&:where([data-theme=midnight] *)"}),
		variant.Custom(variant.CustomVariant{Kind: variant.CustomName, Key: "[&:nth-child(3)]",
			Template: "&:nth-child(3)"}),
		variant.Not(variant.Custom(variant.CustomVariant{Kind: variant.Aria, Key: "expanded"})),
	}

	for _, v := range variants {
		t.Run(v.String(), func(t *testing.T) {
			got, err := c.Parse(v.String())
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", v.String(), err)
			}
			if !got.Equal(v) {
				t.Errorf("Parse(%q) = %+v, want %+v", v.String(), got, v)
			}
		})
	}
}

func TestCatalog_Parse(t *testing.T) {
	c := newCatalog(t)

	tests := []struct {
		name string
		kind variant.Kind
	}{
		{"md", variant.KindResponsive},
		{"max-lg", variant.KindNot},
		{"not-hover", variant.KindNot},
		{"odd", variant.KindState},
		{"placeholder", variant.KindElement},
		{"group-focus-within", variant.KindGroup},
		{"peer-invalid", variant.KindPeer},
		{"data-[state=open]", variant.KindCustom},
		{"supports-[backdrop-filter]", variant.KindCustom},
		{"[@media(any-hover:hover)]", variant.KindCustom},
	}
	for _, tt := range tests {
		v, err := c.Parse(tt.name)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.name, err)
			continue
		}
		if v.Kind != tt.kind {
			t.Errorf("Parse(%q) kind = %v, want %v", tt.name, v.Kind, tt.kind)
		}
	}
}

func TestCatalog_Errors(t *testing.T) {
	c := newCatalog(t)

	tests := []struct {
		name string
		want error
	}{
		{"-invalid", variant.ErrInvalidVariantName},
		{"hover_", variant.ErrInvalidVariantName},
		{"hoverr", variant.ErrUnknownVariantKind},
		{"not-before", variant.ErrUnknownVariantKind},
		{"[color:red]", variant.ErrInvalidVariantName},
		{"[@container(min-width:10rem)]", variant.ErrInvalidVariantName},
		{"xxl", variant.ErrUnknownVariantKind},
	}
	for _, tt := range tests {
		_, err := c.Parse(tt.name)
		if !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.name, err, tt.want)
			continue
		}
		var ve *variant.ValidationError
		if !errors.As(err, &ve) || len(ve.Suggestions) == 0 {
			t.Errorf("Parse(%q) carries no suggestions: %v", tt.name, err)
		}
	}
}

func TestCatalog_Suggestions(t *testing.T) {
	c := newCatalog(t)

	_, err := c.Parse("-invalid")
	var ve *variant.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Parse(-invalid) error = %v", err)
	}
	if ve.Char != '-' || ve.Pos != 0 {
		t.Errorf("char/pos = %q/%d, want '-'/0", ve.Char, ve.Pos)
	}
	if !slices.Contains(ve.Suggestions, "invalid") {
		t.Errorf("suggestions = %v, want to contain invalid", ve.Suggestions)
	}

	got := c.Suggest("aria-")
	if !slices.Equal(got, []string{"aria-checked"}) {
		t.Errorf("Suggest(aria-) = %v", got)
	}
	got = c.Suggest("group-f")
	want := []string{"group-first", "group-first-of-type", "group-focus", "group-focus-visible", "group-focus-within"}
	if !slices.Equal(got, want) {
		t.Errorf("Suggest(group-f) = %v, want %v", got, want)
	}
	if got := c.Names("f"); len(got) != 8 || !slices.Contains(got, "first-letter") {
		t.Errorf("Names(f) = %v", got)
	}
	if got := c.Names("dar"); !slices.Equal(got, []string{"dark"}) {
		t.Errorf("Names(dar) = %v", got)
	}
}

func TestCatalog_Memoized(t *testing.T) {
	c := newCatalog(t)
	a, err := c.Parse("not-group-hover")
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Parse("not-group-hover")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) || a.Inner != b.Inner {
		t.Errorf("second Parse returned a different value")
	}
}

func TestChain(t *testing.T) {
	vs := []variant.Variant{variant.Responsive(variant.Breakpoint{Name: "sm"}), variant.State("hover")}
	if got := variant.Chain(vs); got != "sm:hover:" {
		t.Errorf("Chain() = %q, want sm:hover:", got)
	}
	if got := variant.Chain(nil); got != "" {
		t.Errorf("Chain(nil) = %q", got)
	}
}
