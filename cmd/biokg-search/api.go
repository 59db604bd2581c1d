// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/biokg-search/internal/api"
	"github.com/pdiddy/biokg-search/internal/kg"
	"github.com/pdiddy/biokg-search/internal/summary"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the JSON search API",
	Long: `Api serves POST /api/search over the knowledge-graph database. Papers are
ranked with full-text search and, when summary.enabled is set, the top hits
are summarised by a local Ollama model.

Run "populate" first to build the database.`,
	RunE: runAPI,
}

func runAPI(cmd *cobra.Command, args []string) error {
	if err := bindFlags(viper.GetViper(), cmd, map[string]string{
		"api.addr":      "addr",
		"store.db_path": "db",
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

	n, err := store.DocumentCount(cmd.Context())
	if err != nil {
		return err
	}
	if n == 0 {
		logger.Warn("knowledge graph is empty, run populate first", "db", store.Path())
	}

	var summarizer api.Summarizer
	if off, _ := cmd.Flags().GetBool("no-summary"); off {
		cfg.Summary.Enabled = false
	}
	if cfg.Summary.Enabled {
		summarizer = summary.New(cfg.Summary, logger)
		logger.Info("summaries enabled", "model", cfg.Summary.Model, "ollama", cfg.Summary.OllamaURL)
	}

	srv := api.NewServer(store, summarizer, cfg.API, logger)
	logger.Info("search api configured", "db", store.Path(), "documents", n)
	if err := listenAndServe(cmd.Context(), "api", cfg.API.Addr, srv.Handler()); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func init() {
	apiCmd.Flags().String("addr", "", "listen address (overrides api.addr)")
	apiCmd.Flags().String("db", "", "database path (overrides store.db_path)")
	apiCmd.Flags().Bool("no-summary", false, "disable summary generation")

	rootCmd.AddCommand(apiCmd)
}
