// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ifc-lca-export/internal/ifc"
	"github.com/pdiddy/ifc-lca-export/internal/store"
	"github.com/pdiddy/ifc-lca-export/pkg/types"
)

var samplePath = filepath.Join("..", "..", "testdata", "sample.ifc")

const sampleCSV = "\ufeff" +
	"GUID,IFCClass,Material,TypeName,BuildingStorey,ClassificationCode,ClassificationName," +
	"GrossVolume,NetVolume,Length,GrossArea,NetArea,GrossFootprintArea,NetFootprintArea," +
	"GrossSideArea,NetSideArea,GrossSurfaceArea,NetSurfaceArea,Menge\n" +
	"3vB2YO$MX4xv5uCqZZG05x,IfcWall,Concrete C30/37,Exterior 300,EG,C02.01,Aussenwand tragend,4.5,4.2,10.0,,,,,30.0,28.25,,,4.5\n" +
	"1Ws0Rn9fH0xBQhM9gR6Ab1,IfcSlab,Concrete,Concrete,Storey_3.5,C04.01,Geschossdecke,,2.0,,20.0,,,,,,,,2.0\n" +
	"2hQwW0F1nEzRdBq8vL1yT3,IfcColumn,Column,Column,OG1,C03.01,Structural columns exterior,0.72,0.7,3.0,,,,,,,5.5,,0.72\n" +
	"3Fp0g$Kx15kOa9yQm7TcVe,IfcBuildingElementProxy,BuildingElementProxy,BuildingElementProxy,Unknown,E02.01,,1.5,,,,,,,,,,,1.5\n"

func init() {
	color.NoColor = true
}

func sampleConfig(t *testing.T) types.ExportConfig {
	t.Helper()
	cfg := types.DefaultExportConfig()
	cfg.InputPath = samplePath
	cfg.OutputPath = filepath.Join(t.TempDir(), "out.csv")
	return cfg
}

func writeIFC(t *testing.T, data ...string) string {
	t.Helper()
	src := "ISO-10303-21;\nHEADER;\nFILE_DESCRIPTION((''),'2;1');\n" +
		"FILE_NAME('','',(''),(''),'','','');\nFILE_SCHEMA(('IFC4'));\nENDSEC;\nDATA;\n" +
		strings.Join(data, "\n") + "\nENDSEC;\nEND-ISO-10303-21;\n"
	path := filepath.Join(t.TempDir(), "model.ifc")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestExtractSample(t *testing.T) {
	m, err := ifc.Open(samplePath)
	require.NoError(t, err)

	res, err := Extract(context.Background(), m, types.DefaultCategory, nil)
	require.NoError(t, err)

	assert.Equal(t, "IFC4", res.Schema)
	assert.Equal(t, 6, res.Elements)
	assert.Equal(t, 4, res.Rows())
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, res.Elements, res.Rows()+res.Skipped)

	var guids []string
	for _, rec := range res.Records {
		guids = append(guids, rec.GUID)
		vol, ok := rec.Quantities.Volume()
		require.True(t, ok, rec.GUID)
		assert.Equal(t, vol, rec.Menge, rec.GUID)
	}
	assert.Equal(t, []string{
		"3vB2YO$MX4xv5uCqZZG05x", "1Ws0Rn9fH0xBQhM9gR6Ab1",
		"2hQwW0F1nEzRdBq8vL1yT3", "3Fp0g$Kx15kOa9yQm7TcVe",
	}, guids)

	st := res.Stats
	assert.InDelta(t, 8.72, st.TotalVolume, 1e-9)
	assert.Equal(t, 4, st.Classified)
	assert.Equal(t, map[types.Quantity]int{
		types.GrossVolume: 3, types.NetVolume: 3, types.Length: 2, types.GrossArea: 1,
		types.GrossSideArea: 1, types.NetSideArea: 1, types.GrossSurfaceArea: 1,
	}, st.QuantityCounts)

	var storeys []string
	for _, s := range st.Storeys {
		storeys = append(storeys, s.Storey)
		assert.Equal(t, 1, s.Count)
	}
	assert.Equal(t, []string{"EG", "OG1", "Storey_3.5", "Unknown"}, storeys)
}

func TestExtractCategory(t *testing.T) {
	m, err := ifc.Open(samplePath)
	require.NoError(t, err)

	res, err := Extract(context.Background(), m, "IfcWall", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Elements)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "IfcWall", res.Records[0].IFCClass)
}

func TestExtractHonorsCancellation(t *testing.T) {
	m, err := ifc.Open(samplePath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Extract(ctx, m, types.DefaultCategory, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarizeTopCodes(t *testing.T) {
	var records []types.Record
	add := func(code, name string, n int) {
		for range n {
			records = append(records, types.Record{ClassificationCode: code, ClassificationName: name, BuildingStorey: "EG", Menge: 1})
		}
	}
	add("B", "", 1)
	add("A", "", 2)
	add("", "named only", 2)
	add("", "", 3)
	for _, c := range []string{"C", "D", "E", "F", "G", "H", "I", "J", "K"} {
		add(c, "", 1)
	}

	st := Summarize(records)
	assert.Equal(t, 14, st.Classified)
	require.Len(t, st.TopCodes, 10)
	assert.Equal(t, CodeCount{"A", 2}, st.TopCodes[0])
	assert.Equal(t, CodeCount{"", 2}, st.TopCodes[1])
	assert.Equal(t, CodeCount{"B", 1}, st.TopCodes[2])
	assert.Equal(t, CodeCount{"I", 1}, st.TopCodes[9])
	assert.Equal(t, []StoreyStat{{Storey: "EG", Volume: 17, Count: 17}}, st.Storeys)
}

func TestWriteCSV(t *testing.T) {
	m, err := ifc.Open(samplePath)
	require.NoError(t, err)
	res, err := Extract(context.Background(), m, types.DefaultCategory, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res.Records))
	assert.Equal(t, sampleCSV, buf.String())
}

func TestWriteCSVQuotesCommas(t *testing.T) {
	rec := types.Record{
		GUID: "g", IFCClass: "IfcWall", Material: "Brick, fired", TypeName: `Wall "A"`,
		BuildingStorey: "EG", Quantities: types.QuantitySet{types.NetVolume: 1e-05}, Menge: 1e-05,
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []types.Record{rec}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `g,IfcWall,"Brick, fired","Wall ""A""",EG,,,,1e-05,,,,,,,,,,1e-05`, lines[1])
}

func TestRunSample(t *testing.T) {
	cfg := sampleConfig(t)
	var out bytes.Buffer

	res, err := Run(context.Background(), cfg, &out, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Rows())
	assert.Equal(t, samplePath, res.Source)

	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(data))

	console := out.String()
	for _, want := range []string{
		"Model loaded: IFC4 | 6 elements",
		"4 elements with volume extracted",
		"2 elements without volume skipped",
		"Total volume: 8.72 m³",
		"GrossVolume: 3 elements",
		"CSV saved: " + cfg.OutputPath,
		"Rows: 4",
		"Preview (first 10 rows):",
		"Volume by Building Storey:",
		"Storey_3.5",
		"4 elements have classifications",
		"C02.01: 1 elements",
	} {
		assert.Contains(t, console, want)
	}
	assert.NotContains(t, console, "NetArea: ")
}

func TestRunIsDeterministic(t *testing.T) {
	first := sampleConfig(t)
	second := sampleConfig(t)

	_, err := Run(context.Background(), first, &bytes.Buffer{}, nil)
	require.NoError(t, err)
	_, err = Run(context.Background(), second, &bytes.Buffer{}, nil)
	require.NoError(t, err)

	a, err := os.ReadFile(first.OutputPath)
	require.NoError(t, err)
	b, err := os.ReadFile(second.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunNoData(t *testing.T) {
	cfg := types.DefaultExportConfig()
	cfg.InputPath = writeIFC(t,
		"#1=IFCWALL('3vB2YO$MX4xv5uCqZZG05x',$,'Wall',$,$,$,$,$,$);",
		"#2=IFCOPENINGELEMENT('1Ws0Rn9fH0xBQhM9gR6Ab1',$,$,$,$,$,$,$,$);",
	)
	cfg.OutputPath = filepath.Join(t.TempDir(), "out.csv")
	cfg.Sinks.JSONPath = filepath.Join(t.TempDir(), "out.json")

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, &out, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	assert.Contains(t, out.String(), "No data to export!")
	assert.NoFileExists(t, cfg.OutputPath)
	assert.NoFileExists(t, cfg.Sinks.JSONPath)
}

func TestRunMissingInput(t *testing.T) {
	cfg := types.DefaultExportConfig()
	cfg.InputPath = filepath.Join(t.TempDir(), "missing.ifc")

	_, err := Run(context.Background(), cfg, &bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.ifc")
}

func TestRunUnwritableOutput(t *testing.T) {
	cfg := sampleConfig(t)
	cfg.OutputPath = filepath.Join(t.TempDir(), "no", "dir", "out.csv")

	var out bytes.Buffer
	_, err := Run(context.Background(), cfg, &out, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out.csv")
	assert.NotContains(t, out.String(), "CSV saved")
}

func TestRunFailingSink(t *testing.T) {
	cfg := sampleConfig(t)
	cfg.Sinks.XLSXPath = filepath.Join(t.TempDir(), "no", "dir", "out.xlsx")
	cfg.Sinks.JSONPath = filepath.Join(t.TempDir(), "out.json")

	_, err := Run(context.Background(), cfg, &bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing XLSX")
	assert.Contains(t, err.Error(), "out.xlsx")
	assert.FileExists(t, cfg.OutputPath)
	assert.NoFileExists(t, cfg.Sinks.JSONPath)
}

func TestRunSinks(t *testing.T) {
	dir := t.TempDir()
	cfg := sampleConfig(t)
	cfg.Sinks = types.SinkConfig{
		XLSXPath:   filepath.Join(dir, "out.xlsx"),
		SQLitePath: filepath.Join(dir, "out.db"),
		YAMLPath:   filepath.Join(dir, "out.yaml"),
		JSONPath:   filepath.Join(dir, "out.json"),
	}

	var out bytes.Buffer
	_, err := Run(context.Background(), cfg, &out, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "XLSX saved: "+cfg.Sinks.XLSXPath)

	t.Run("json", func(t *testing.T) {
		data, err := os.ReadFile(cfg.Sinks.JSONPath)
		require.NoError(t, err)
		var got Result
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, 6, got.Elements)
		require.Len(t, got.Records, 4)
		assert.Equal(t, "Geschossdecke", got.Records[1].ClassificationName)
	})

	t.Run("yaml", func(t *testing.T) {
		data, err := os.ReadFile(cfg.Sinks.YAMLPath)
		require.NoError(t, err)
		var got Result
		require.NoError(t, yaml.Unmarshal(data, &got))
		assert.Equal(t, 2, got.Skipped)
		require.Len(t, got.Records, 4)
		assert.Equal(t, 0.72, got.Records[2].Menge)
	})

	t.Run("xlsx", func(t *testing.T) {
		f, err := excelize.OpenFile(cfg.Sinks.XLSXPath)
		require.NoError(t, err)
		defer f.Close()

		guid, err := f.GetCellValue(elementsSheet, "A2")
		require.NoError(t, err)
		assert.Equal(t, "3vB2YO$MX4xv5uCqZZG05x", guid)

		header, err := f.GetCellValue(elementsSheet, "S1")
		require.NoError(t, err)
		assert.Equal(t, types.ColumnMenge, header)

		netArea, err := f.GetCellValue(elementsSheet, "L2")
		require.NoError(t, err)
		assert.Empty(t, netArea)

		storey, err := f.GetCellValue(storeysSheet, "A5")
		require.NoError(t, err)
		assert.Equal(t, "Unknown", storey)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := store.Open(cfg.Sinks.SQLitePath)
		require.NoError(t, err)
		defer s.Close()

		rows, err := s.Query(context.Background(), store.QueryOptions{Storey: "OG1"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "IfcColumn", rows[0].IFCClass)

		runs, err := s.Runs(context.Background())
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "IFC4", runs[0].Schema)
		assert.Equal(t, samplePath, runs[0].Source)
	})
}

func TestPrintSummary(t *testing.T) {
	records := []types.Record{
		{GUID: "a", BuildingStorey: "EG", Quantities: types.QuantitySet{types.GrossVolume: 12000}, Menge: 12000},
		{GUID: "b", BuildingStorey: "EG", Quantities: types.QuantitySet{types.NetVolume: 345.678}, Menge: 345.678},
	}
	res := &Result{Records: records, Stats: Summarize(records)}

	var out bytes.Buffer
	PrintSummary(&out, res, "out.csv", 0)
	console := out.String()

	assert.Contains(t, console, "Total volume: 12,345.68 m³")
	assert.Contains(t, console, "0 elements have classifications")
	assert.NotContains(t, console, "Volume by Building Storey")
	assert.NotContains(t, console, "Preview")
	assert.NotContains(t, console, "Classification codes")
}
