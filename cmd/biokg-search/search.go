// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/biokg-search/internal/client"
	"github.com/pdiddy/biokg-search/internal/ui"
	"github.com/pdiddy/biokg-search/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the API from the terminal",
	Long: `Search submits one query to the API at client.base_url and prints the
same view the search page would show: the summary, one row per unique paper,
or "No results found." when the search returns nothing or fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := bindFlags(viper.GetViper(), cmd, map[string]string{
		"client.base_url": "api-url",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if k, _ := cmd.Flags().GetInt("top-k"); k > 0 {
		cfg.Client.TopK = k
	}

	c := client.New(cfg.Client)
	ctrl := ui.NewController(c,
		ui.WithTopK(cfg.Client.TopK),
		ui.WithLinkTemplate(cfg.UI.LinkTemplate),
		ui.WithLogger(logger),
	)
	ctrl.Search(cmd.Context(), strings.Join(args, " "))

	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text":
		ui.FormatText(ctrl.View(), out)
		return nil
	case "json", "yaml":
		st := ctrl.Snapshot()
		resp := types.SearchResponse{Results: ui.Dedupe(st.Results), Summary: st.Summary}
		if format == "json" {
			return ui.FormatJSON(resp, out)
		}
		return ui.FormatYAML(resp, out)
	default:
		return fmt.Errorf("unknown format %q: use text, json, or yaml", format)
	}
}

func init() {
	searchCmd.Flags().Int("top-k", 0, "number of results to request (overrides client.top_k)")
	searchCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	searchCmd.Flags().String("api-url", "", "search API base URL (overrides client.base_url)")

	rootCmd.AddCommand(searchCmd)
}
