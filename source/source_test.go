package source_test

import (
	"errors"
	"slices"
	"testing"

	"twc/source"
)

func TestExtract_Markup(t *testing.T) {
	doc := `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>p-8 in title is text</title></head>
<body class="bg-white dark:bg-slate-900">
  <div CLASS="  p-4   hover:bg-blue-500
      sm:dark:text-lg"  id="main">
    <img class="w-1/2 [mask-type:luminance]" src="x.png"/>
    <span data-x="m-4">text m-2</span>
    <my-widget className="aria-checked:bg-green-500"></my-widget>
  </div>
</body>
</html>`

	got, err := source.Extract("index.html", []byte(doc))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []string{
		"bg-white", "dark:bg-slate-900",
		"p-4", "hover:bg-blue-500", "sm:dark:text-lg",
		"w-1/2", "[mask-type:luminance]",
		"aria-checked:bg-green-500",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{`<div className="p-4 hover:m-2">`, []string{"div", "className", "p-4", "hover:m-2"}},
		{"const a = `bg-[#f00] text-lg`;", []string{"const", "a", "bg-[#f00]", "text-lg"}},
		{`clsx({'p-4': on}, "m-[calc(1px,2px)]")`, []string{"clsx(", "p-4", ":", "on", "m-[calc(1px,2px)]", ")"}},
		{`[grid-template-areas:'a_b'] data-[state=open]:p-4`, []string{"[grid-template-areas:'a_b']", "data-[state=open]:p-4"}},
		{"\t\n ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := source.Split(tt.text); !slices.Equal(got, tt.want) {
				t.Errorf("Split() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtract_Text(t *testing.T) {
	got, err := source.Extract("app.jsx", []byte(`<a className="underline !font-bold">`))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !slices.Contains(got, "underline") || !slices.Contains(got, "!font-bold") {
		t.Errorf("Extract() = %q", got)
	}
}

func TestExtract_Binary(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	for name, data := range map[string][]byte{
		"logo.png":  png,
		"data.html": []byte("p-4\x00m-4"),
	} {
		if _, err := source.Extract(name, data); !errors.Is(err, source.ErrBinary) {
			t.Errorf("Extract(%s) error = %v, want ErrBinary", name, err)
		}
	}
}

func TestKindOf(t *testing.T) {
	for name, want := range map[string]source.Kind{
		"a.html":     source.Markup,
		"B.HTM":      source.Markup,
		"c.vue":      source.Markup,
		"d.tsx":      source.Text,
		"README":     source.Text,
		"x.templ":    source.Markup,
		"dir.html/x": source.Text,
	} {
		if got := source.KindOf(name); got != want {
			t.Errorf("KindOf(%s) = %s, want %s", name, got, want)
		}
	}
}
