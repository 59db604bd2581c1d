// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biokg-search/internal/client"
	"github.com/pdiddy/biokg-search/internal/kg"
	"github.com/pdiddy/biokg-search/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, client.DefaultBaseURL, cfg.Client.BaseURL)
	assert.Equal(t, types.DefaultTopK, cfg.Client.TopK)
	assert.Zero(t, cfg.Client.Timeout)
	assert.Equal(t, ":8080", cfg.UI.Addr)
	assert.Equal(t, time.Second, cfg.UI.RefreshInterval)
	assert.Equal(t, kg.DefaultDBPath, cfg.Store.DBPath)
	assert.True(t, cfg.Summary.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Summary.Timeout)
	assert.Equal(t, ":5001", cfg.API.Addr)
	assert.Equal(t, []string{"*"}, cfg.API.CORSOrigins)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("BIOKG_SEARCH_CLIENT_BASE_URL", "http://search.internal/api")
	t.Setenv("BIOKG_SEARCH_CLIENT_TOP_K", "25")
	t.Setenv("BIOKG_SEARCH_SUMMARY_ENABLED", "false")

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "http://search.internal/api", cfg.Client.BaseURL)
	assert.Equal(t, 25, cfg.Client.TopK)
	assert.False(t, cfg.Summary.Enabled)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "warn", "json")
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = newLogger(&buf, "loud", "text")
	assert.Error(t, err)

	_, err = newLogger(&buf, "info", "xml")
	assert.Error(t, err)
}
