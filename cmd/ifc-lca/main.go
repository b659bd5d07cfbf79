// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ifc-lca CLI. The root command
// exports the element quantities of an IFC model to an LCA CSV; trace,
// query and version are subcommands.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ifc-lca-export/internal/export"
	"github.com/pdiddy/ifc-lca-export/internal/step"
	"github.com/pdiddy/ifc-lca-export/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger receives diagnostics. It is configured from --log-level and
// --log-format before any command runs.
var logger = slog.New(slog.DiscardHandler)

// rootCmd runs the export and is the base for the subcommands.
var rootCmd = &cobra.Command{
	Use:   "ifc-lca",
	Short: "Export IFC element quantities to a CSV for life-cycle assessment",
	Long: `ifc-lca reads an IFC model and writes one CSV row per building element
that carries a volume: GUID, class, material, type, storey, eBKP-H
classification, eleven base quantities and the Menge volume used by LCA
tools.

Without flags it reads 08_architecture-model-simple.ifc and writes
lca_base_quantities.csv. Optional XLSX, SQLite, YAML and JSON outputs
are written beside the CSV when their paths are set.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var lc types.LogConfig
		if err := viper.Unmarshal(&lc); err != nil {
			return fmt.Errorf("reading log settings: %w", err)
		}
		l, err := newLogger(lc, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := exportConfig()
	if err != nil {
		return err
	}
	logger.Debug("export settings", "config", cfg)

	_, err = export.Run(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
	var syn *step.SyntaxError
	if errors.As(err, &syn) {
		logger.Error("malformed IFC file", "path", cfg.InputPath, "line", syn.Line, "col", syn.Col)
	}
	return err
}

// exportConfig merges defaults, the config file, IFC_LCA_* variables and
// flags.
func exportConfig() (types.ExportConfig, error) {
	cfg := types.DefaultExportConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading export settings: %w", err)
	}
	return cfg, nil
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./ifc-lca.yaml or ~/.config/ifc-lca/ifc-lca.yaml)")
	pf.String("input", types.DefaultInputPath, "IFC file to read")
	pf.String("log-level", "info", "diagnostic log level: debug, info, warn, error")
	pf.String("log-format", "text", "diagnostic log format: text or json")

	f := rootCmd.Flags()
	f.String("output", types.DefaultOutputPath, "CSV file to write")
	f.String("category", types.DefaultCategory, "IFC class to export, subtypes included")
	f.Int("preview", types.DefaultPreviewRows, "rows shown in the console preview (0 disables it)")
	f.String("xlsx", "", "also write an Excel workbook to this path")
	f.String("sqlite", "", "also append the run to this SQLite database")
	f.String("yaml", "", "also write rows and statistics as YAML to this path")
	f.String("json", "", "also write rows and statistics as JSON to this path")

	for _, name := range []string{"input", "log-level", "log-format"} {
		viper.BindPFlag(name, pf.Lookup(name))
	}
	for _, name := range []string{"output", "category", "preview", "xlsx", "sqlite", "yaml", "json"} {
		viper.BindPFlag(name, f.Lookup(name))
	}

	rootCmd.AddCommand(traceCmd, queryCmd, versionCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ifc-lca")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ifc-lca"))
		}
	}

	viper.SetEnvPrefix("IFC_LCA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
