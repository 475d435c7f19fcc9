package app

import (
	"bytes"
	"codeextract/internal/core/config"
	"codeextract/internal/core/errors"
	"codeextract/internal/core/ports"
	"codeextract/internal/shared/util"
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/magiconair/properties"
)

// DirPublisher writes one file per source group into Dir.
type DirPublisher struct {
	Dir       string
	Extension string
}

func (p DirPublisher) Name() string { return "dir" }

func (p DirPublisher) Publish(ctx context.Context, outputs map[string]string) error {
	for _, id := range util.SortedStringKeys(outputs) {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(p.Dir, config.OutputName(id, p.Extension))
		if err := util.WriteStringWithDirs(path, outputs[id], 0o644); err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeIO, "failed to write output"), errors.CtxPath, path)
		}
	}
	return nil
}

// PropertiesPublisher stores every output as a property keyed by
// Prefix + group id, the way build tools expose generated values.
type PropertiesPublisher struct {
	Path   string
	Prefix string
}

func (p PropertiesPublisher) Name() string { return "properties" }

func (p PropertiesPublisher) Publish(_ context.Context, outputs map[string]string) error {
	props := properties.NewProperties()
	props.DisableExpansion = true
	props.WriteSeparator = " = "
	for _, id := range util.SortedStringKeys(outputs) {
		if _, _, err := props.Set(p.Prefix+id, outputs[id]); err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "failed to set property"), errors.CtxGroup, id)
		}
	}

	var buf bytes.Buffer
	if _, err := props.Write(&buf, properties.UTF8); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode properties")
	}
	if err := util.WriteFileWithDirs(p.Path, buf.Bytes(), 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeIO, "failed to write properties"), errors.CtxPath, p.Path)
	}
	return nil
}

// ManifestPublisher writes the outputs as one JSON object.
type ManifestPublisher struct {
	Path string
}

func (p ManifestPublisher) Name() string { return "manifest" }

func (p ManifestPublisher) Publish(_ context.Context, outputs map[string]string) error {
	data, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode manifest")
	}
	data = append(data, '\n')
	if err := util.WriteFileWithDirs(p.Path, data, 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeIO, "failed to write manifest"), errors.CtxPath, p.Path)
	}
	return nil
}

// Publishers builds the sinks enabled by the resolved paths.
func Publishers(cfg *config.Config, paths config.ResolvedPaths) []ports.Publisher {
	var out []ports.Publisher
	if paths.OutputDir != "" {
		out = append(out, DirPublisher{Dir: paths.OutputDir, Extension: cfg.Output.Extension})
	}
	if paths.Properties != "" {
		out = append(out, PropertiesPublisher{Path: paths.Properties})
	}
	if paths.Manifest != "" {
		out = append(out, ManifestPublisher{Path: paths.Manifest})
	}
	return out
}
