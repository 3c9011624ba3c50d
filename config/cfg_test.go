package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"

	"twc/common"
	"twc/css"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Compiler.DarkMode != common.DarkModeClass || cfg.Compiler.DarkClass != "dark" {
		t.Errorf("dark mode = %s/%s", cfg.Compiler.DarkMode, cfg.Compiler.DarkClass)
	}
	bps := cfg.Compiler.VariantBreakpoints()
	if len(bps) != 5 || bps[0].Name != "sm" || bps[4].Name != "2xl" || bps[4].MinWidth != "1536px" {
		t.Errorf("breakpoints = %+v", bps)
	}
	if cfg.Cache.Enable {
		t.Error("cache enabled by default")
	}
	if !strings.Contains(cfg.Output.HeaderTemplate, "{{ .Name }}") {
		t.Errorf("header template was expanded: %q", cfg.Output.HeaderTemplate)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
compiler:
  workers: 4
  max_errors: 10
  dark_mode: media
  allow_custom_variants: false
  breakpoints:
    - name: tablet
      min_width: 40rem
    - name: desktop
      min_width: 64rem
  custom_variants: []
cache:
  enable: true
  path: /tmp/twc/cache.db
logging:
  console:
    level: debug
  file:
    level: none
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Compiler.Workers != 4 || cfg.Compiler.MaxErrors != 10 {
		t.Errorf("workers = %d, max errors = %d", cfg.Compiler.Workers, cfg.Compiler.MaxErrors)
	}
	if cfg.Compiler.DarkMode != common.DarkModeMedia {
		t.Errorf("DarkMode = %s, want media", cfg.Compiler.DarkMode)
	}
	if len(cfg.Compiler.Breakpoints) != 2 || cfg.Compiler.Breakpoints[1].Name != "desktop" {
		t.Errorf("breakpoints = %+v", cfg.Compiler.Breakpoints)
	}
	if len(cfg.Compiler.VariantDefinitions()) != 0 {
		t.Errorf("custom variants = %+v", cfg.Compiler.CustomVariants)
	}
	if !cfg.Cache.Enable || cfg.Cache.Path != "/tmp/twc/cache.db" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	// defaults survive
	if cfg.Compiler.DarkClass != "dark" {
		t.Errorf("DarkClass = %q, want default", cfg.Compiler.DarkClass)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\ncompiler:\n  workers: 1\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad dark mode", "version: 1\ncompiler:\n  dark_mode: sometimes\n"},
		{"negative workers", "version: 1\ncompiler:\n  workers: -1\n"},
		{"empty breakpoint", "version: 1\ncompiler:\n  breakpoints:\n    - name: sm\n"},
		{"bad log level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}
	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Compiler.DarkMode = common.DarkModeMedia

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "dark_mode: media") {
		t.Errorf("dump does not use enum names:\n%s", data)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Compiler.DarkMode != common.DarkModeMedia || len(cfg2.Compiler.Breakpoints) != len(cfg.Compiler.Breakpoints) {
		t.Errorf("round trip mismatch: %+v", cfg2.Compiler)
	}
}

func TestApplyDefinitions(t *testing.T) {
	conf := CompilerConfig{
		Breakpoints:    []BreakpointConfig{{Name: "sm", MinWidth: "640px"}, {Name: "md", MinWidth: "768px"}},
		CustomVariants: []VariantConfig{{Name: "print", Template: "@media print"}},
	}
	conf.ApplyDefinitions(&css.Definitions{
		Breakpoints: []css.BreakpointDefinition{{Name: "md", MinWidth: "50rem"}, {Name: "3xl", MinWidth: "120rem"}},
		Variants:    []css.VariantDefinition{{Name: "theme-midnight", Template: "&:where([data-theme=midnight] *)"}},
	})

	bps := conf.VariantBreakpoints()
	if len(bps) != 3 || bps[1].MinWidth != "50rem" || bps[2].Name != "3xl" {
		t.Errorf("breakpoints = %+v", bps)
	}
	defs := conf.VariantDefinitions()
	if len(defs) != 2 || defs[1].Name != "theme-midnight" {
		t.Errorf("variants = %+v", defs)
	}

	conf.ApplyDefinitions(&css.Definitions{ResetBreakpoints: true, Breakpoints: []css.BreakpointDefinition{{Name: "wide", MinWidth: "90rem"}}})
	if bps := conf.VariantBreakpoints(); len(bps) != 1 || bps[0].Name != "wide" {
		t.Errorf("breakpoints after reset = %+v", bps)
	}

	conf.ApplyDefinitions(nil)
}

func TestDarkMode_String(t *testing.T) {
	tests := []struct {
		mode     common.DarkMode
		expected string
	}{
		{common.DarkModeClass, "class"},
		{common.DarkModeMedia, "media"},
		{common.DarkMode(99), "DarkMode(99)"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.mode.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}
