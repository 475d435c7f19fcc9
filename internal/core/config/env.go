package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: CODEEXTRACT_[SECTION]_[KEY] (e.g., CODEEXTRACT_TRACING_ENDPOINT).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.BaseDir, "CODEEXTRACT_BASE_DIR")
	setEnvList(&cfg.Sources, "CODEEXTRACT_SOURCES")
	setEnvString(&cfg.Template, "CODEEXTRACT_TEMPLATE")
	setEnvBool(&cfg.Skip, "CODEEXTRACT_SKIP")
	setEnvBool(&cfg.Recursive, "CODEEXTRACT_RECURSIVE")
	setEnvBool(&cfg.StrictVariables, "CODEEXTRACT_STRICT_VARIABLES")

	// Output
	setEnvString(&cfg.Output.Dir, "CODEEXTRACT_OUTPUT_DIR")
	setEnvString(&cfg.Output.Properties, "CODEEXTRACT_OUTPUT_PROPERTIES")
	setEnvString(&cfg.Output.Manifest, "CODEEXTRACT_OUTPUT_MANIFEST")

	// Observability
	setEnvString(&cfg.Metrics.Textfile, "CODEEXTRACT_METRICS_TEXTFILE")
	setEnvString(&cfg.Tracing.Endpoint, "CODEEXTRACT_TRACING_ENDPOINT")
	setEnvBool(&cfg.Tracing.Insecure, "CODEEXTRACT_TRACING_INSECURE")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "CODEEXTRACT_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRunsPerSecond, "CODEEXTRACT_WATCH_MAX_RUNS_PER_SECOND")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

// setEnvList splits a comma separated value.
func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		var items []string
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		slog.Debug("applying env override", "key", key, "value", val)
		*target = items
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
