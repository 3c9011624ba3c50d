package cache_test

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"twc/cache"
	"twc/css"
)

func sampleRules() []css.Rule {
	return []css.Rule{
		{
			Class:        "p-4",
			Selector:     ".p-4",
			Declarations: []css.Property{{Name: "padding", Value: "1rem"}},
			Specificity:  10,
		},
		{
			Class:        "sm:hover:bg-blue-500",
			Selector:     `.sm\:hover\:bg-blue-500:hover`,
			Declarations: []css.Property{{Name: "background-color", Value: "#3b82f6", Important: true}},
			Media:        "(min-width: 640px)",
			Breakpoint:   "sm",
			Specificity:  20,
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s, err := cache.Open(cache.MemoryPath, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	rules := sampleRules()
	if err := s.Store("fp1", rules); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, err := s.Lookup("fp1", []string{"p-4", "sm:hover:bg-blue-500", "m-4"})
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Lookup() found %d rules, want 2", len(got))
	}
	r := got["sm:hover:bg-blue-500"]
	if r.Selector != rules[1].Selector || r.Media != rules[1].Media || r.Breakpoint != "sm" || r.Specificity != 20 {
		t.Errorf("rule = %+v, want %+v", r, rules[1])
	}
	if len(r.Declarations) != 1 || !r.Declarations[0].Important || r.Declarations[0].Value != "#3b82f6" {
		t.Errorf("declarations = %+v", r.Declarations)
	}

	// other fingerprint sees nothing
	got, err = s.Lookup("fp2", []string{"p-4"})
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Lookup(fp2) = %v, want empty", got)
	}
}

func TestStore_Purge(t *testing.T) {
	s, err := cache.Open(cache.MemoryPath, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if err := s.Store("fp1", sampleRules()); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := s.Store("fp2", sampleRules()[:1]); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := s.Purge("fp1"); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if n, _ := s.Count("fp1"); n != 0 {
		t.Errorf("Count(fp1) = %d after purge", n)
	}
	if n, _ := s.Count("fp2"); n != 1 {
		t.Errorf("Count(fp2) = %d, want 1", n)
	}
}

func TestStore_RejectsUnnamedRule(t *testing.T) {
	s, err := cache.Open(cache.MemoryPath, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	rules := append(sampleRules(), css.Rule{Selector: ".x"})
	if err := s.Store("fp", rules); err == nil {
		t.Fatal("Store() accepted rule without class")
	}
	// savepoint rolled back
	if n, _ := s.Count("fp"); n != 0 {
		t.Errorf("Count() = %d after failed store, want 0", n)
	}
}

func TestStore_Persistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "rules.db")

	s, err := cache.Open(path, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Store("fp", sampleRules()); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = cache.Open(path, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	if n, err := s.Count("fp"); err != nil || n != 2 {
		t.Errorf("Count() = %d, %v, want 2", n, err)
	}
	if s.Path() != path {
		t.Errorf("Path() = %q", s.Path())
	}
}

func TestStore_Nil(t *testing.T) {
	var s *cache.Store
	if err := s.Store("fp", sampleRules()); err != nil {
		t.Errorf("Store() error = %v", err)
	}
	got, err := s.Lookup("fp", []string{"p-4"})
	if err != nil || len(got) != 0 {
		t.Errorf("Lookup() = %v, %v", got, err)
	}
	if err := s.Purge("fp"); err != nil {
		t.Errorf("Purge() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
