package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeextract/internal/core/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	content := `
base_dir = "."
sources = ["src/test/java/samples", "./src/main/java/"]
template = "templates/doc.md.tmpl"
recursive = true
include_constructors = true
preserve_layout = false
strict_variables = true
exclude = ["*Test.java"]

[output]
dir = "target/codeextract"
properties = "target/codeextract.properties"
manifest = "target/codeextract.json"

[tracing]
endpoint = "localhost:4317"
insecure = true

[watch]
debounce = "1s"
max_runs_per_second = 2.5
`
	cfg, err := Load(writeConfig(t, "codeextract.toml", content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Sources) != 2 || cfg.Sources[0] != "src/test/java/samples" || cfg.Sources[1] != "src/main/java" {
		t.Errorf("unexpected sources: %v", cfg.Sources)
	}
	if cfg.Template != "templates/doc.md.tmpl" {
		t.Errorf("unexpected template: %q", cfg.Template)
	}
	if !cfg.Recursive || !cfg.IncludeConstructors || !cfg.StrictVariables {
		t.Errorf("expected boolean flags to be set: %+v", cfg)
	}
	if cfg.Preserve() {
		t.Error("expected preserve_layout=false to be honored")
	}
	if cfg.Output.Extension != DefaultExtension {
		t.Errorf("expected default extension, got %q", cfg.Output.Extension)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected 1s debounce, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRunsPerSecond != 2.5 {
		t.Errorf("unexpected max runs: %v", cfg.Watch.MaxRunsPerSecond)
	}
	if cfg.Tracing.Endpoint != "localhost:4317" {
		t.Errorf("unexpected tracing endpoint: %q", cfg.Tracing.Endpoint)
	}
}

func TestLoadYAML(t *testing.T) {
	content := `
sources:
  - samples
template: doc.tmpl
skip: true
watch:
  debounce: 250ms
`
	cfg, err := Load(writeConfig(t, "codeextract.yaml", content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Skip {
		t.Error("expected skip to be set")
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("expected 250ms debounce, got %v", cfg.Watch.Debounce)
	}
	if !cfg.Preserve() {
		t.Error("expected preserve_layout to default to true")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	if _, err := Load(writeConfig(t, "c.toml", "sources = [\"a\"]\ntemplate = \"t\"\ntemplates = \"x\"\n")); !errors.IsCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error for unknown toml key, got %v", err)
	}
	if _, err := Load(writeConfig(t, "c.yml", "sources: [a]\ntemplate: t\nbogus: 1\n")); !errors.IsCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error for unknown yaml key, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.IsCode(err, errors.CodeIO) {
		t.Fatalf("expected IO error, got %v", err)
	}
}

func TestReadThenFinalize(t *testing.T) {
	cfg, err := Read(writeConfig(t, "c.toml", "template = \"doc.tmpl\"\n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if err := Finalize(cfg); !errors.IsCode(err, errors.CodeValidation) {
		t.Fatalf("expected missing sources to fail validation, got %v", err)
	}

	cfg.Sources = []string{" samples/ "}
	if err := Finalize(cfg); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if cfg.Sources[0] != "samples" {
		t.Errorf("expected normalized source, got %q", cfg.Sources[0])
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CODEEXTRACT_SOURCES", "a, b,,c")
	t.Setenv("CODEEXTRACT_SKIP", "TRUE")
	t.Setenv("CODEEXTRACT_WATCH_DEBOUNCE", "2s")
	t.Setenv("CODEEXTRACT_WATCH_MAX_RUNS_PER_SECOND", "not-a-number")

	cfg := Default()
	cfg.Watch.MaxRunsPerSecond = 1
	ApplyEnvOverrides(cfg)

	if len(cfg.Sources) != 3 || cfg.Sources[2] != "c" {
		t.Errorf("unexpected sources: %v", cfg.Sources)
	}
	if !cfg.Skip {
		t.Error("expected skip override")
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("unexpected debounce: %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRunsPerSecond != 1 {
		t.Errorf("invalid override must be ignored, got %v", cfg.Watch.MaxRunsPerSecond)
	}
}
