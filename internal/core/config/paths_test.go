package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePaths_BaseDir(t *testing.T) {
	root := t.TempDir()
	cfg := validConfig()
	cfg.BaseDir = "project"
	cfg.Output.Dir = "target/docs"

	got, err := ResolvePaths(cfg, root)
	if err != nil {
		t.Fatal(err)
	}
	base := filepath.Join(root, "project")
	if got.BaseDir != base {
		t.Fatalf("expected base dir %q, got %q", base, got.BaseDir)
	}
	if got.Template != filepath.Join(base, "doc.tmpl") {
		t.Fatalf("unexpected template: %q", got.Template)
	}
	if got.OutputDir != filepath.Join(base, "target/docs") {
		t.Fatalf("unexpected output dir: %q", got.OutputDir)
	}
	if got.Properties != "" || got.Manifest != "" || got.Textfile != "" {
		t.Fatalf("unset sinks must stay empty: %+v", got)
	}
	if len(got.Sources) != 1 || got.Sources[0].ID != "samples" || got.Sources[0].Dir != filepath.Join(base, "samples") {
		t.Fatalf("unexpected sources: %+v", got.Sources)
	}
}

func TestResolvePaths_DetectsProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "pom.xml"), []byte("<project/>\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "module", "src")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ResolvePaths(validConfig(), nested)
	if err != nil {
		t.Fatal(err)
	}
	if got.BaseDir != filepath.Clean(root) {
		t.Fatalf("expected project root %q, got %q", root, got.BaseDir)
	}
}

func TestResolvePaths_AbsoluteOverrides(t *testing.T) {
	root := t.TempDir()
	tmpl := filepath.Join(root, "elsewhere", "doc.tmpl")
	cfg := validConfig()
	cfg.BaseDir = root
	cfg.Template = tmpl

	got, err := ResolvePaths(cfg, "/ignored")
	if err != nil {
		t.Fatal(err)
	}
	if got.Template != tmpl {
		t.Fatalf("expected absolute template to be kept, got %q", got.Template)
	}
}

func TestResolvePaths_EmptyCwd(t *testing.T) {
	if _, err := ResolvePaths(validConfig(), " "); err == nil {
		t.Fatal("expected error for empty cwd")
	}
}
