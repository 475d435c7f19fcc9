package config

import (
	"bytes"
	"codeextract/internal/core/errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultExtension = ".md"
	DefaultDebounce  = 500 * time.Millisecond
)

// Load reads, defaults, normalizes and validates the configuration at path.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := Finalize(cfg); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return cfg, nil
}

// Read decodes path and applies defaults without validating, so callers can
// layer environment and flag overrides before Finalize.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "failed to read config"), errors.CtxPath, path)
	}

	cfg, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return cfg, nil
}

// Decode parses data as YAML when ext is .yaml or .yml and as TOML otherwise.
func Decode(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, errors.CodeValidation, "invalid yaml config")
		}
	default:
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidation, "invalid toml config")
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.CodeValidation, "unknown config key "+undecoded[0].String())
		}
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration carrying only defaults.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Finalize normalizes and validates cfg in place.
func Finalize(cfg *Config) error {
	applyDefaults(cfg)
	normalize(cfg)
	return Validate(cfg)
}

func applyDefaults(cfg *Config) {
	if cfg.PreserveLayout == nil {
		enabled := true
		cfg.PreserveLayout = &enabled
	}
	if strings.TrimSpace(cfg.Output.Extension) == "" {
		cfg.Output.Extension = DefaultExtension
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
}

func normalize(cfg *Config) {
	cfg.BaseDir = strings.TrimSpace(cfg.BaseDir)
	cfg.Template = strings.TrimSpace(cfg.Template)
	for i, source := range cfg.Sources {
		cfg.Sources[i] = normalizeGroupID(source)
	}
	for i, pattern := range cfg.Exclude {
		cfg.Exclude[i] = strings.TrimSpace(pattern)
	}
	cfg.Output.Dir = strings.TrimSpace(cfg.Output.Dir)
	cfg.Output.Extension = strings.TrimSpace(cfg.Output.Extension)
	cfg.Output.Properties = strings.TrimSpace(cfg.Output.Properties)
	cfg.Output.Manifest = strings.TrimSpace(cfg.Output.Manifest)
	cfg.Metrics.Textfile = strings.TrimSpace(cfg.Metrics.Textfile)
	cfg.Tracing.Endpoint = strings.TrimSpace(cfg.Tracing.Endpoint)
}
