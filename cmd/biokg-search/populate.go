// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/biokg-search/internal/kg"
)

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Load extraction files into the knowledge graph",
	Long: `Populate reads PMC*_kg.json extraction files from store.json_dir, converts
each into subject-predicate-object triples, and indexes them in the SQLite
database at store.db_path. Files that have not changed since the last run
are skipped.

An export of the graph is written next to the database afterwards.`,
	RunE: runPopulate,
}

func runPopulate(cmd *cobra.Command, args []string) error {
	if err := bindFlags(viper.GetViper(), cmd, map[string]string{
		"store.json_dir": "json-dir",
		"store.db_path":  "db",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	store, err := kg.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	summary, err := store.Populate(cmd.Context(), cfg.Store.JSONDir, out)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("export")
	if format != "none" {
		path := filepath.Join(filepath.Dir(store.Path()), "export."+format)
		switch format {
		case "yaml":
			err = store.ExportYAML(cmd.Context(), path)
		case "json":
			err = store.ExportJSON(cmd.Context(), path)
		default:
			return fmt.Errorf("unknown export format %q: use yaml, json, or none", format)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported graph to %s\n", path)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d extraction file(s) failed to load", summary.Failed)
	}
	return nil
}

func init() {
	populateCmd.Flags().String("json-dir", "", "directory of PMC*_kg.json files (overrides store.json_dir)")
	populateCmd.Flags().String("db", "", "database path (overrides store.db_path)")
	populateCmd.Flags().String("export", "yaml", "export format written after loading: yaml, json, or none")

	rootCmd.AddCommand(populateCmd)
}
