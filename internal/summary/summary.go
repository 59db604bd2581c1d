// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summary writes a short natural-language summary of search results
// with a local Ollama model.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pdiddy/biokg-search/internal/httputil"
	"github.com/pdiddy/biokg-search/pkg/types"
)

// Messages returned in place of a generated summary.
const (
	NoResults = "No relevant results found."
	Failed    = "Summary generation failed."
)

// Defaults applied by New.
const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultModel       = "gemma2:2b"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 200
)

// promptResults is how many top results are listed in the prompt.
const promptResults = 5

// Generator calls Ollama's generate endpoint.
type Generator struct {
	Client *http.Client
	Cfg    types.SummaryConfig
	Logger *slog.Logger
}

// New returns a Generator for cfg with defaults filled in. Temperature is
// used as given, so zero means deterministic sampling; callers that want
// DefaultTemperature set it in cfg.
func New(cfg types.SummaryConfig, logger *slog.Logger) *Generator {
	if cfg.OllamaURL == "" {
		cfg.OllamaURL = DefaultOllamaURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		Client: &http.Client{Timeout: cfg.Timeout},
		Cfg:    cfg,
		Logger: logger,
	}
}

// Summarize returns a summary of results for query. It never fails: an
// empty result set yields NoResults and any generation error yields Failed.
func (g *Generator) Summarize(ctx context.Context, query string, results []types.SearchResult) string {
	if len(results) == 0 {
		return NoResults
	}
	text, err := g.generate(ctx, BuildPrompt(query, results))
	if err != nil {
		g.Logger.Warn("summary generation failed", "query", query, "model", g.Cfg.Model, "error", err)
		return Failed
	}
	return text
}

// BuildPrompt formats the top results into the summary prompt.
func BuildPrompt(query string, results []types.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		if i == promptResults {
			break
		}
		authors := r.Authors
		if authors == "" {
			authors = types.UnknownAuthors
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "   Authors: %s (%s)\n", authors, r.Year)
		fmt.Fprintf(&b, "   Journal: %s\n\n", r.Journal)
	}

	return fmt.Sprintf(`Based on these search results for "%s", write a short, clear, and concise summary of the main findings. When mentioning findings, cite them using author names and years in parentheses like (Smith et al., 2023). Keep it under 3 sentences. Do not use markdown formatting, numbered citations, or bullet points:

%s
Summary:`, query, b.String())
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  g.Cfg.Model,
		Prompt: prompt,
		Options: generateOptions{
			Temperature: g.Cfg.Temperature,
			NumPredict:  g.Cfg.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := strings.TrimRight(g.Cfg.OllamaURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.Cfg.UserAgent != "" {
		req.Header.Set("User-Agent", g.Cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, g.Client, req, g.Cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("Ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Ollama returned HTTP %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("parsing Ollama response: %w", err)
	}
	text := strings.TrimSpace(gr.Response)
	if text == "" {
		return "", fmt.Errorf("Ollama returned an empty response")
	}
	return text, nil
}
