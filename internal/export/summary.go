// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pdiddy/ifc-lca-export/pkg/types"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
)

// PrintSummary writes the statistics of res, the CSV location, a preview
// of the first previewRows rows and the storey and classification
// breakdowns to w.
func PrintSummary(w io.Writer, res *Result, csvPath string, previewRows int) {
	p := message.NewPrinter(language.English)
	st := res.Stats

	fmt.Fprintln(w)
	heading.Fprintln(w, p.Sprintf("Total volume: %.2f m³", st.TotalVolume))

	fmt.Fprintln(w)
	heading.Fprintln(w, "Available quantities:")
	for _, q := range types.Quantities {
		if n := st.QuantityCounts[q]; n > 0 {
			fmt.Fprintf(w, "   %s: %d elements\n", q, n)
		}
	}

	fmt.Fprintln(w)
	success.Fprintf(w, "CSV saved: %s\n", csvPath)
	p.Fprintf(w, "   Rows: %d\n", res.Rows())
	fmt.Fprintf(w, "   Columns: %s\n", strings.Join(types.RecordColumns(), ", "))

	if previewRows > 0 {
		fmt.Fprintln(w)
		heading.Fprintf(w, "Preview (first %d rows):\n", previewRows)
		printPreview(w, res.Records, previewRows)
	}

	if len(st.Storeys) > 1 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Volume by Building Storey:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "BuildingStorey\tVolume (m³)\tCount")
		for _, s := range st.Storeys {
			fmt.Fprintf(tw, "%s\t%.2f\t%d\n", s.Storey, s.Volume, s.Count)
		}
		tw.Flush()
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Elements with classifications:")
	fmt.Fprintf(w, "   %d elements have classifications\n", st.Classified)
	if st.Classified > 0 {
		fmt.Fprintln(w, "\n   Classification codes:")
		for _, c := range st.TopCodes {
			if c.Code != "" {
				fmt.Fprintf(w, "     %s: %d elements\n", c.Code, c.Count)
			}
		}
	}
}

// printPreview writes the first n records as an aligned table with a
// leading row index.
func printPreview(w io.Writer, records []types.Record, n int) {
	if n > len(records) {
		n = len(records)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\t"+strings.Join(types.RecordColumns(), "\t"))
	for i, rec := range records[:n] {
		fmt.Fprintln(tw, strconv.Itoa(i)+"\t"+strings.Join(Fields(rec), "\t"))
	}
	tw.Flush()
}
