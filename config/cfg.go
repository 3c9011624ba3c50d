package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"twc/common"
	"twc/css"
	"twc/variant"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	BreakpointConfig struct {
		Name     string `yaml:"name" validate:"required"`
		MinWidth string `yaml:"min_width" validate:"required"`
	}

	VariantConfig struct {
		Name     string `yaml:"name" validate:"required"`
		Template string `yaml:"template" validate:"required"`
	}

	CompilerConfig struct {
		Workers             int                `yaml:"workers" validate:"gte=0"`
		MaxErrors           int                `yaml:"max_errors" validate:"gte=0"`
		DarkMode            common.DarkMode    `yaml:"dark_mode" validate:"gte=0"`
		DarkClass           string             `yaml:"dark_class" validate:"required"`
		AllowCustomVariants bool               `yaml:"allow_custom_variants"`
		Breakpoints         []BreakpointConfig `yaml:"breakpoints" validate:"required,dive"`
		CustomVariants      []VariantConfig    `yaml:"custom_variants" validate:"dive"`
		DefinitionsPath     string             `yaml:"definitions_path,omitempty" sanitize:"path_clean" validate:"omitempty,filepath"`
	}

	OutputConfig struct {
		HeaderTemplate string `yaml:"header_template"`
	}

	CacheConfig struct {
		Enable bool   `yaml:"enable"`
		Path   string `yaml:"path" sanitize:"path_clean" validate:"required_if=Enable true"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Compiler  CompilerConfig `yaml:"compiler"`
		Output    OutputConfig   `yaml:"output"`
		Cache     CacheConfig    `yaml:"cache"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, header template is rendered
	// at output time with its own values
	HeaderTemplateFieldName TemplateFieldName = "header_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(HeaderTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// VariantBreakpoints converts configured breakpoints.
func (conf *CompilerConfig) VariantBreakpoints() []variant.Breakpoint {
	out := make([]variant.Breakpoint, 0, len(conf.Breakpoints))
	for _, bp := range conf.Breakpoints {
		out = append(out, variant.Breakpoint{Name: bp.Name, MinWidth: bp.MinWidth})
	}
	return out
}

// VariantDefinitions converts configured custom variants.
func (conf *CompilerConfig) VariantDefinitions() []css.VariantDefinition {
	out := make([]css.VariantDefinition, 0, len(conf.CustomVariants))
	for _, v := range conf.CustomVariants {
		out = append(out, css.VariantDefinition{Name: v.Name, Template: v.Template})
	}
	return out
}

// ApplyDefinitions merges definitions read from CSS on top of configured
// values: breakpoints with the same name are replaced, new ones are appended
// (all configured breakpoints are dropped first when definitions reset
// them), custom variants are appended.
func (conf *CompilerConfig) ApplyDefinitions(defs *css.Definitions) {
	if defs == nil {
		return
	}
	if defs.ResetBreakpoints {
		conf.Breakpoints = nil
	}
	for _, def := range defs.Breakpoints {
		replaced := false
		for i := range conf.Breakpoints {
			if conf.Breakpoints[i].Name == def.Name {
				conf.Breakpoints[i].MinWidth = def.MinWidth
				replaced = true
				break
			}
		}
		if !replaced {
			conf.Breakpoints = append(conf.Breakpoints, BreakpointConfig{Name: def.Name, MinWidth: def.MinWidth})
		}
	}
	for _, def := range defs.Variants {
		conf.CustomVariants = append(conf.CustomVariants, VariantConfig{Name: def.Name, Template: def.Template})
	}
}
