// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ifc-lca-export/internal/store"
	"github.com/pdiddy/ifc-lca-export/pkg/types"
)

// ExportYAML writes res, rows and statistics, to path as YAML.
func ExportYAML(path string, res *Result) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes res, rows and statistics, to path as indented JSON.
func ExportJSON(path string, res *Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// writeSinks writes res to every sink with a path in cfg.
func writeSinks(ctx context.Context, cfg types.SinkConfig, res *Result, w io.Writer, logger *slog.Logger) error {
	if cfg.XLSXPath != "" {
		if err := WriteXLSX(cfg.XLSXPath, res); err != nil {
			return fmt.Errorf("writing XLSX: %w", err)
		}
		success.Fprintf(w, "XLSX saved: %s\n", cfg.XLSXPath)
	}
	if cfg.YAMLPath != "" {
		if err := ExportYAML(cfg.YAMLPath, res); err != nil {
			return fmt.Errorf("writing YAML: %w", err)
		}
		success.Fprintf(w, "YAML saved: %s\n", cfg.YAMLPath)
	}
	if cfg.JSONPath != "" {
		if err := ExportJSON(cfg.JSONPath, res); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
		success.Fprintf(w, "JSON saved: %s\n", cfg.JSONPath)
	}
	if cfg.SQLitePath != "" {
		s, err := store.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer s.Close()

		run, err := s.Save(ctx, res.Source, res.Schema, res.Records)
		if err != nil {
			return fmt.Errorf("storing export: %w", err)
		}
		success.Fprintf(w, "SQLite saved: %s (run %s)\n", cfg.SQLitePath, run.ID)
		logger.Info("export stored", "db", cfg.SQLitePath, "run", run.ID, "rows", run.Rows)
	}
	return nil
}
