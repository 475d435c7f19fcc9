package config

import (
	"codeextract/internal/core/errors"
	"codeextract/internal/shared/util"
	"os"
	"path/filepath"
	"strings"
)

// Source is a configured source group with its directory resolved.
type Source struct {
	ID  string
	Dir string
}

type ResolvedPaths struct {
	BaseDir    string
	Sources    []Source
	Template   string
	OutputDir  string
	Properties string
	Manifest   string
	Textfile   string
}

// ResolvePaths anchors every configured path at the base directory, which
// itself is resolved against cwd.
func ResolvePaths(cfg *Config, cwd string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, errors.New(errors.CodeValidation, "cwd must not be empty")
	}

	baseDir := strings.TrimSpace(cfg.BaseDir)
	if baseDir != "" {
		baseDir = ResolveRelative(cwd, baseDir)
	} else {
		root, err := DetectProjectRoot([]string{cwd})
		if err != nil {
			return ResolvedPaths{}, errors.Wrap(err, errors.CodeIO, "failed to detect project root")
		}
		baseDir = root
	}

	resolved := ResolvedPaths{
		BaseDir:    filepath.Clean(baseDir),
		Template:   optionalPath(baseDir, cfg.Template),
		OutputDir:  optionalPath(baseDir, cfg.Output.Dir),
		Properties: optionalPath(baseDir, cfg.Output.Properties),
		Manifest:   optionalPath(baseDir, cfg.Output.Manifest),
		Textfile:   optionalPath(baseDir, cfg.Metrics.Textfile),
	}
	for _, id := range cfg.Sources {
		resolved.Sources = append(resolved.Sources, Source{ID: id, Dir: ResolveRelative(baseDir, id)})
	}
	return resolved, nil
}

func optionalPath(base, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return ResolveRelative(base, value)
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// DetectProjectRoot walks up from each candidate looking for a build marker
// and falls back to the working directory.
func DetectProjectRoot(candidates []string) (string, error) {
	markers := []string{
		"pom.xml",
		"build.gradle",
		"build.gradle.kts",
		".git",
		"codeextract.toml",
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range markers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}

// OutputName is the file name a group's text is published under.
func OutputName(groupID, extension string) string {
	name := strings.ReplaceAll(groupID, "/", "_")
	if name == "." || name == "" {
		name = "root"
	}
	return name + extension
}

// normalizeGroupID keeps "." for the base directory itself.
func normalizeGroupID(id string) string {
	if strings.TrimSpace(id) == "" {
		return ""
	}
	clean := util.NormalizePatternPath(id)
	if clean == "" {
		return "."
	}
	return clean
}
