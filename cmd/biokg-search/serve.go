// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/biokg-search/internal/client"
	"github.com/pdiddy/biokg-search/internal/ui"
	"github.com/pdiddy/biokg-search/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search page",
	Long: `Serve runs the single-page search UI. Each browser session gets its own
page state; searches are sent to the API at client.base_url and only the
most recently submitted query is shown.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := bindFlags(viper.GetViper(), cmd, map[string]string{
		"ui.addr":         "addr",
		"client.base_url": "api-url",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	c := client.New(cfg.Client)
	factory := func() *ui.Controller {
		return ui.NewController(c,
			ui.WithTopK(cfg.Client.TopK),
			ui.WithLinkTemplate(cfg.UI.LinkTemplate),
			ui.WithLogger(logger),
		)
	}

	srv, err := web.NewServer(factory, cfg.UI, logger)
	if err != nil {
		return err
	}

	logger.Info("search page configured", "api", cfg.Client.BaseURL, "top_k", cfg.Client.TopK)
	return listenAndServe(cmd.Context(), "web", cfg.UI.Addr, srv.Handler())
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides ui.addr)")
	serveCmd.Flags().String("api-url", "", "search API base URL (overrides client.base_url)")

	rootCmd.AddCommand(serveCmd)
}
