package config

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_Archive(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	stored := filepath.Join(dir, "input.html")
	if err := os.WriteFile(stored, []byte(`<div class="p-4"></div>`), 0644); err != nil {
		t.Fatalf("unable to write input: %v", err)
	}
	r.Store("sources/input.html", stored)
	r.StoreText("classset.txt", "rules: 1\n")
	if err := r.StoreCopy("copy", stored, nil); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	// absent files are ignored
	r.Store("missing", filepath.Join(dir, "missing.txt"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, r.Name())
	if files["sources/input.html"] != `<div class="p-4"></div>` {
		t.Errorf("stored file = %q", files["sources/input.html"])
	}
	if files["classset.txt"] != "rules: 1\n" {
		t.Errorf("stored text = %q", files["classset.txt"])
	}
	if _, ok := files["missing"]; ok {
		t.Error("absent file was archived")
	}
	manifest := files["MANIFEST"]
	for _, name := range []string{"classset.txt", "copy", "missing", "sources/input.html"} {
		if !strings.Contains(manifest, "\t"+name+"\t") {
			t.Errorf("manifest misses %s:\n%s", name, manifest)
		}
	}
}

func TestReport_StoreCopyDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "site")
	for name, content := range map[string]string{
		"index.html":         `<p class="m-2">`,
		"parts/nav.html":     `<nav class="flex">`,
		"parts/logo.png":     "\x89PNG",
		"scripts/app.min.js": "x",
	} {
		path := filepath.Join(src, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	keepHTML := func(p string) bool { return strings.HasSuffix(p, ".html") }
	if err := r.StoreCopy("sources/site", src, keepHTML); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	// snapshot is taken at the time of a call
	if err := os.WriteFile(filepath.Join(src, "index.html"), []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.StoreCopy("missing", filepath.Join(dir, "absent"), nil); err == nil {
		t.Error("expected error for absent path")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, r.Name())
	tests := []struct {
		name    string
		content string
		present bool
	}{
		{"sources/site/index.html", `<p class="m-2">`, true},
		{"sources/site/parts/nav.html", `<nav class="flex">`, true},
		{"sources/site/parts/logo.png", "", false},
		{"sources/site/scripts/app.min.js", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := files[tt.name]
			if ok != tt.present {
				t.Fatalf("present = %v, want %v", ok, tt.present)
			}
			if ok && got != tt.content {
				t.Errorf("content = %q, want %q", got, tt.content)
			}
		})
	}
}

func TestReport_StoreCopyVersionsNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.css")
	if err := os.WriteFile(path, []byte("@theme {}"), 0644); err != nil {
		t.Fatal(err)
	}
	r := &Report{entries: make(map[string]entry)}
	for range 2 {
		if err := r.StoreCopy("definitions.css", path, nil); err != nil {
			t.Fatalf("StoreCopy() error = %v", err)
		}
	}
	if len(r.entries) != 2 {
		t.Errorf("entries = %d, want 2", len(r.entries))
	}
	if _, ok := r.entries["definitions.css"]; !ok {
		t.Error("first copy is not stored under requested name")
	}
}

func TestReport_ConcurrentStore(t *testing.T) {
	conf := ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.StoreText(fmt.Sprintf("part-%02d.txt", i), "x")
		}()
	}
	wg.Wait()

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if files := readArchive(t, r.Name()); len(files) != 17 {
		t.Errorf("archive has %d files, want 17", len(files))
	}
}

func TestReport_DuplicateData(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.StoreText("a", "1")
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate entry")
		}
	}()
	r.StoreText("a", "2")
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	r.Store("x", "y")
	r.StoreText("x", "y")
	if err := r.StoreCopy("x", "y", nil); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name() = %q, want empty", r.Name())
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
