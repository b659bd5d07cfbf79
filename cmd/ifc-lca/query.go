// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ifc-lca-export/internal/step"
	"github.com/pdiddy/ifc-lca-export/internal/store"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List exported elements stored in a SQLite database",
	Long: `Query reads rows appended by earlier exports run with --sqlite and
filters them by storey, IFC class, classification code or export run.
Use --runs to list the stored exports instead.`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("sqlite")
	if dbPath == "" {
		return fmt.Errorf("--sqlite is required")
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()

	if listRuns, _ := cmd.Flags().GetBool("runs"); listRuns {
		runs, err := s.Runs(cmd.Context())
		if err != nil {
			return err
		}
		return formatRunsOutput(w, runs, jsonOutput)
	}

	rows, err := s.Query(cmd.Context(), queryOptsFromFlags(cmd))
	if err != nil {
		return err
	}
	return formatQueryOutput(w, rows, jsonOutput)
}

func queryOptsFromFlags(cmd *cobra.Command) store.QueryOptions {
	storey, _ := cmd.Flags().GetString("storey")
	class, _ := cmd.Flags().GetString("class")
	code, _ := cmd.Flags().GetString("code")
	run, _ := cmd.Flags().GetString("run")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		RunID:      run,
		Storey:     storey,
		Class:      class,
		Code:       code,
		MaxResults: limit,
	}
}

func formatQueryOutput(w io.Writer, rows []store.Row, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-8s  %-22s  %-24s  %-24s  %-12s  %-10s  %s\n",
		"Run", "GUID", "Class", "Material", "Storey", "Code", "Menge")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	var total float64
	for _, r := range rows {
		runID := r.RunID
		if len(runID) > 8 {
			runID = runID[:8]
		}
		fmt.Fprintf(w, "%-8s  %-22s  %-24s  %-24s  %-12s  %-10s  %s\n",
			runID, r.GUID, truncate(r.IFCClass, 24), truncate(r.Material, 24),
			truncate(r.BuildingStorey, 12), truncate(r.ClassificationCode, 10), step.FormatReal(r.Menge))
		total += r.Menge
	}

	fmt.Fprintf(w, "\n%d results, total volume %.2f m³\n", len(rows), total)
	return nil
}

func formatRunsOutput(w io.Writer, runs []store.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No exports stored.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-8s  %-6s  %s\n", "Run", "Created", "Schema", "Rows", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-20s  %-8s  %-6d  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Schema, r.Rows, r.Source)
	}
	return nil
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func init() {
	queryCmd.Flags().String("sqlite", "", "database written by an export with --sqlite")
	queryCmd.Flags().String("storey", "", "filter by building storey")
	queryCmd.Flags().String("class", "", "filter by IFC class, e.g. IfcWall")
	queryCmd.Flags().String("code", "", "filter by classification code")
	queryCmd.Flags().String("run", "", "filter by export run id or a prefix of it")
	queryCmd.Flags().Int("limit", 0, "maximum results (0 = all)")
	queryCmd.Flags().Bool("runs", false, "list stored exports instead of elements")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
}
