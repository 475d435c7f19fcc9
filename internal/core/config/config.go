package config

import "time"

// Config is the extraction configuration, read from TOML or YAML.
type Config struct {
	// BaseDir anchors every relative path below. Empty means the detected
	// project root.
	BaseDir string `toml:"base_dir" yaml:"base_dir"`
	// Sources are the source group identifiers, one directory each.
	Sources  []string `toml:"sources" yaml:"sources" validate:"required,min=1,dive,required"`
	Template string   `toml:"template" yaml:"template"`
	Skip     bool     `toml:"skip" yaml:"skip"`

	Recursive           bool     `toml:"recursive" yaml:"recursive"`
	IncludeConstructors bool     `toml:"include_constructors" yaml:"include_constructors"`
	PreserveLayout      *bool    `toml:"preserve_layout" yaml:"preserve_layout"`
	StrictVariables     bool     `toml:"strict_variables" yaml:"strict_variables"`
	Exclude             []string `toml:"exclude" yaml:"exclude" validate:"dive,required"`

	Output  Output  `toml:"output" yaml:"output"`
	Metrics Metrics `toml:"metrics" yaml:"metrics"`
	Tracing Tracing `toml:"tracing" yaml:"tracing"`
	Watch   Watch   `toml:"watch" yaml:"watch"`
}

// Output names the sinks the rendered text is published to. Every field is
// optional; an empty one disables its sink.
type Output struct {
	Dir        string `toml:"dir" yaml:"dir"`
	Extension  string `toml:"extension" yaml:"extension" validate:"omitempty,startswith=."`
	Properties string `toml:"properties" yaml:"properties"`
	Manifest   string `toml:"manifest" yaml:"manifest"`
}

type Metrics struct {
	Textfile string `toml:"textfile" yaml:"textfile"`
}

type Tracing struct {
	Endpoint string `toml:"endpoint" yaml:"endpoint" validate:"omitempty,hostname_port"`
	Insecure bool   `toml:"insecure" yaml:"insecure"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce" yaml:"debounce"`
	// MaxRunsPerSecond caps how often a burst of changes re-runs extraction.
	MaxRunsPerSecond float64 `toml:"max_runs_per_second" yaml:"max_runs_per_second" validate:"gte=0"`
	// ReloadConfig re-reads the configuration file when it changes.
	ReloadConfig bool `toml:"reload_config" yaml:"reload_config"`
}

// Preserve reports whether bodies keep their original layout.
func (c *Config) Preserve() bool {
	return c.PreserveLayout == nil || *c.PreserveLayout
}
