// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/ifc-lca-export/pkg/types"
)

const (
	elementsSheet = "Elements"
	storeysSheet  = "Storeys"
)

// WriteXLSX writes the rows of res to an Excel workbook at path. The
// Elements sheet mirrors the CSV with numeric quantity cells; the
// Storeys sheet holds the per-storey volume.
func WriteXLSX(path string, res *Result) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", elementsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	cols := types.RecordColumns()
	if err := writeSheetRow(f, elementsSheet, 1, stringsToCells(cols)); err != nil {
		return err
	}
	for i, rec := range res.Records {
		if err := writeSheetRow(f, elementsSheet, i+2, recordCells(rec)); err != nil {
			return err
		}
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(elementsSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	if err := f.SetPanes(elementsSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if _, err := f.NewSheet(storeysSheet); err != nil {
		return fmt.Errorf("creating storey sheet: %w", err)
	}
	if err := writeSheetRow(f, storeysSheet, 1, []any{types.ColumnBuildingStorey, "Volume", "Count"}); err != nil {
		return err
	}
	for i, s := range res.Stats.Storeys {
		if err := writeSheetRow(f, storeysSheet, i+2, []any{s.Storey, s.Volume, s.Count}); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(storeysSheet, "A1", "C1", headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

// recordCells returns rec as sheet cells. Unset quantities are nil and
// leave the cell blank.
func recordCells(rec types.Record) []any {
	cells := []any{
		rec.GUID, rec.IFCClass, rec.Material, rec.TypeName,
		rec.BuildingStorey, rec.ClassificationCode, rec.ClassificationName,
	}
	for _, q := range types.Quantities {
		if v, ok := rec.Quantities.Get(q); ok {
			cells = append(cells, v)
		} else {
			cells = append(cells, nil)
		}
	}
	return append(cells, rec.Menge)
}

func stringsToCells(ss []string) []any {
	cells := make([]any, len(ss))
	for i, s := range ss {
		cells[i] = s
	}
	return cells
}
