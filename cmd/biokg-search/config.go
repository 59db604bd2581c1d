// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/biokg-search/internal/client"
	"github.com/pdiddy/biokg-search/internal/kg"
	"github.com/pdiddy/biokg-search/internal/summary"
	"github.com/pdiddy/biokg-search/internal/ui"
	"github.com/pdiddy/biokg-search/internal/web"
	"github.com/pdiddy/biokg-search/pkg/types"
)

// setDefaults registers every configuration key so that config files and
// BIOKG_SEARCH_* environment variables can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("client.base_url", client.DefaultBaseURL)
	v.SetDefault("client.top_k", types.DefaultTopK)
	v.SetDefault("client.timeout", time.Duration(0))
	v.SetDefault("client.user_agent", "biokg-search/"+version)

	v.SetDefault("ui.addr", ":8080")
	v.SetDefault("ui.link_template", ui.DefaultLinkTemplate)
	v.SetDefault("ui.max_sessions", web.DefaultMaxSessions)
	v.SetDefault("ui.refresh_interval", web.DefaultRefreshInterval)

	v.SetDefault("store.db_path", kg.DefaultDBPath)
	v.SetDefault("store.json_dir", "data/json_output")

	v.SetDefault("summary.enabled", true)
	v.SetDefault("summary.ollama_url", summary.DefaultOllamaURL)
	v.SetDefault("summary.model", summary.DefaultModel)
	v.SetDefault("summary.temperature", summary.DefaultTemperature)
	v.SetDefault("summary.max_tokens", summary.DefaultMaxTokens)
	v.SetDefault("summary.max_retries", 3)
	v.SetDefault("summary.timeout", 30*time.Second)
	v.SetDefault("summary.user_agent", "biokg-search/"+version)

	v.SetDefault("api.addr", ":5001")
	v.SetDefault("api.cors_origins", []string{"*"})
	v.SetDefault("api.max_top_k", 100)
}

// bindEnv maps keys such as client.base_url to BIOKG_SEARCH_CLIENT_BASE_URL.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("BIOKG_SEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// bindFlags binds config keys to the running command's flags. Several
// commands share keys, so binding happens at run time rather than in init.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig decodes the merged configuration.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}
