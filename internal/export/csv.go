// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pdiddy/ifc-lca-export/internal/step"
	"github.com/pdiddy/ifc-lca-export/pkg/types"
)

// Fields returns the cells of rec in RecordColumns order. Unset
// quantities are empty.
func Fields(rec types.Record) []string {
	fields := []string{
		rec.GUID, rec.IFCClass, rec.Material, rec.TypeName,
		rec.BuildingStorey, rec.ClassificationCode, rec.ClassificationName,
	}
	for _, q := range types.Quantities {
		fields = append(fields, quantityField(rec.Quantities, q))
	}
	return append(fields, step.FormatReal(rec.Menge))
}

func quantityField(qs types.QuantitySet, q types.Quantity) string {
	v, ok := qs.Get(q)
	if !ok {
		return ""
	}
	return step.FormatReal(v)
}

// WriteCSV writes records as UTF-8 CSV with a byte-order mark, a header
// row and LF line endings.
func WriteCSV(w io.Writer, records []types.Record) error {
	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bw)

	if err := cw.Write(types.RecordColumns()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(Fields(rec)); err != nil {
			return fmt.Errorf("writing row %s: %w", rec.GUID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return bw.Close()
}

// WriteCSVFile writes records to path, replacing any existing file.
func WriteCSVFile(path string, records []types.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
