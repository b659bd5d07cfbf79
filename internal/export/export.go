// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export turns an IFC model into LCA rows. It resolves every
// element of a category, keeps those with a volume, writes the CSV and
// any configured sinks, and prints a summary of the run.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/pdiddy/ifc-lca-export/internal/ifc"
	"github.com/pdiddy/ifc-lca-export/internal/resolve"
	"github.com/pdiddy/ifc-lca-export/pkg/types"
)

// topCodes is the number of classification codes counted in Stats.
const topCodes = 10

// StoreyStat sums the exported volume of one storey.
type StoreyStat struct {
	Storey string  `json:"storey" yaml:"storey"`
	Volume float64 `json:"volume" yaml:"volume"`
	Count  int     `json:"count" yaml:"count"`
}

// CodeCount is the number of rows carrying one classification code.
type CodeCount struct {
	Code  string `json:"code" yaml:"code"`
	Count int    `json:"count" yaml:"count"`
}

// Stats aggregates the exported rows.
type Stats struct {
	TotalVolume float64 `json:"total_volume" yaml:"total_volume"`

	// QuantityCounts holds how many rows set each quantity.
	QuantityCounts map[types.Quantity]int `json:"quantity_counts" yaml:"quantity_counts"`

	// Storeys is sorted by storey name.
	Storeys []StoreyStat `json:"storeys" yaml:"storeys"`

	// Classified counts rows with a classification code or name.
	Classified int `json:"classified" yaml:"classified"`

	// TopCodes holds the most frequent codes among classified rows,
	// highest count first and first appearance on ties. An empty code
	// takes a slot like any other.
	TopCodes []CodeCount `json:"top_codes" yaml:"top_codes"`
}

// Result holds the rows and counters of one export.
type Result struct {
	Source   string         `json:"source" yaml:"source"`
	Schema   string         `json:"schema" yaml:"schema"`
	Elements int            `json:"elements" yaml:"elements"`
	Skipped  int            `json:"skipped" yaml:"skipped"`
	Records  []types.Record `json:"records" yaml:"records"`
	Stats    Stats          `json:"stats" yaml:"stats"`
}

// Rows returns the number of exported rows.
func (r *Result) Rows() int { return len(r.Records) }

// Extract resolves every element of category in m in ascending instance
// order. Elements without GrossVolume and NetVolume are counted as
// skipped.
func Extract(ctx context.Context, m *ifc.Model, category string, logger *slog.Logger) (*Result, error) {
	r := resolve.New(m, logger)
	elements := m.ByType(category)

	res := &Result{
		Schema:   m.Schema(),
		Elements: len(elements),
	}
	for _, e := range elements {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		rsv := r.Resolve(e)
		if !rsv.Qualified {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rsv.Record)
	}
	res.Stats = Summarize(res.Records)
	return res, nil
}

// Summarize computes the statistics of records.
func Summarize(records []types.Record) Stats {
	st := Stats{QuantityCounts: make(map[types.Quantity]int)}
	storeys := make(map[string]*StoreyStat)
	codes := make(map[string]int)
	var codeOrder []string

	for _, rec := range records {
		st.TotalVolume += rec.Menge
		for q := range rec.Quantities {
			st.QuantityCounts[q]++
		}

		s, ok := storeys[rec.BuildingStorey]
		if !ok {
			s = &StoreyStat{Storey: rec.BuildingStorey}
			storeys[rec.BuildingStorey] = s
		}
		s.Volume += rec.Menge
		s.Count++

		if rec.Classified() {
			st.Classified++
			if _, seen := codes[rec.ClassificationCode]; !seen {
				codeOrder = append(codeOrder, rec.ClassificationCode)
			}
			codes[rec.ClassificationCode]++
		}
	}

	for _, s := range storeys {
		st.Storeys = append(st.Storeys, *s)
	}
	slices.SortFunc(st.Storeys, func(a, b StoreyStat) int { return strings.Compare(a.Storey, b.Storey) })

	for _, code := range codeOrder {
		st.TopCodes = append(st.TopCodes, CodeCount{Code: code, Count: codes[code]})
	}
	slices.SortStableFunc(st.TopCodes, func(a, b CodeCount) int { return b.Count - a.Count })
	if len(st.TopCodes) > topCodes {
		st.TopCodes = st.TopCodes[:topCodes]
	}
	return st
}

// Run loads cfg.InputPath, extracts cfg.Category, writes the CSV and the
// configured sinks, and prints progress and the summary to w. When no
// element qualifies nothing is written.
func Run(ctx context.Context, cfg types.ExportConfig, w io.Writer, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fmt.Fprintf(w, "Loading IFC file: %s\n", cfg.InputPath)
	m, err := ifc.Open(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("loading IFC file: %w", err)
	}
	fmt.Fprintf(w, "Model loaded: %s | %d elements\n", m.Schema(), len(m.ByType(cfg.Category)))
	logger.Info("model loaded", "path", cfg.InputPath, "schema", m.Schema(), "instances", m.Len())

	fmt.Fprintf(w, "\nExtracting data from %d elements...\n", len(m.ByType(cfg.Category)))
	res, err := Extract(ctx, m, cfg.Category, logger)
	if err != nil {
		return res, err
	}
	res.Source = cfg.InputPath
	fmt.Fprintf(w, "%d elements with volume extracted\n", res.Rows())
	fmt.Fprintf(w, "   %d elements without volume skipped\n", res.Skipped)

	if res.Rows() == 0 {
		fmt.Fprintln(w, "\nNo data to export!")
		return res, nil
	}

	if err := WriteCSVFile(cfg.OutputPath, res.Records); err != nil {
		return res, err
	}
	logger.Info("csv written", "path", cfg.OutputPath, "rows", res.Rows())

	PrintSummary(w, res, cfg.OutputPath, cfg.PreviewRows)

	if err := writeSinks(ctx, cfg.Sinks, res, w, logger); err != nil {
		return res, err
	}
	return res, nil
}
