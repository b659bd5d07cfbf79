// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ifc-lca-export/internal/export"
	"github.com/pdiddy/ifc-lca-export/internal/ifc"
	"github.com/pdiddy/ifc-lca-export/internal/resolve"
	"github.com/pdiddy/ifc-lca-export/pkg/types"
)

var traceCmd = &cobra.Command{
	Use:   "trace <GlobalId|UUID>",
	Short: "Show how each field of one element is resolved",
	Long: `Trace resolves a single element of the input model and prints every
exported field together with the lookup that produced it: a property
set key, an associated material or type object, the spatial container,
or the default used when nothing matched. The element may be named by its
22-character GlobalId or by the UUID it encodes.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

// traceOutput is the JSON form of a trace.
type traceOutput struct {
	Entity    string            `json:"entity"`
	UUID      string            `json:"uuid,omitempty"`
	Psets     []string          `json:"property_sets"`
	Qualified bool              `json:"qualified"`
	Record    types.Record      `json:"record"`
	Sources   map[string]string `json:"sources"`
}

func runTrace(cmd *cobra.Command, args []string) error {
	input := viper.GetString("input")
	m, err := ifc.Open(input)
	if err != nil {
		return fmt.Errorf("loading IFC file: %w", err)
	}

	e, ok := m.ByGlobalID(globalID(args[0]))
	if !ok {
		return fmt.Errorf("element %s not found in %s", args[0], input)
	}
	res := resolve.New(m, logger).Resolve(e)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatTraceOutput(cmd.OutOrStdout(), e, res, jsonOutput)
}

// globalID accepts a GlobalId or a UUID and returns the GlobalId form.
func globalID(arg string) string {
	if u, err := uuid.Parse(arg); err == nil {
		return ifc.CompressGUID(u)
	}
	return arg
}

func formatTraceOutput(w io.Writer, e *ifc.Entity, res resolve.Resolution, jsonOutput bool) error {
	var id string
	if u, err := ifc.ExpandGUID(e.GlobalID()); err == nil {
		id = u.String()
	}
	psets := ifc.PropertySetsOf(e).Names()

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(traceOutput{
			Entity:    e.String(),
			UUID:      id,
			Psets:     psets,
			Qualified: res.Qualified,
			Record:    res.Record,
			Sources:   res.Sources,
		})
	}

	fmt.Fprintln(w, e.String())
	if id != "" {
		fmt.Fprintf(w, "UUID: %s\n", id)
	}
	if len(psets) > 0 {
		fmt.Fprintf(w, "Property sets: %s\n", strings.Join(psets, ", "))
	}
	if !res.Qualified {
		fmt.Fprintln(w, "no GrossVolume or NetVolume: skipped by export")
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE\tSOURCE")
	values := export.Fields(res.Record)
	for i, col := range types.RecordColumns() {
		v, src := values[i], res.Sources[col]
		if col == types.ColumnMenge && !res.Qualified {
			v = ""
		}
		if src == "" {
			src = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", col, v, src)
	}
	return tw.Flush()
}

func init() {
	traceCmd.Flags().Bool("json", false, "output the trace as JSON")
}
