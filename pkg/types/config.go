package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// outbound requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport defaults.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "biokg-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ClientConfig holds settings for the search API client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the API base; requests go to BaseURL + "/search"
	// (default "http://localhost:5001/api").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// TopK is the number of results requested per search (default 10).
	TopK int `json:"top_k" yaml:"top_k" mapstructure:"top_k"`
}

// UIConfig holds settings for the search page server.
type UIConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// LinkTemplate builds the article link for a result; "{id}" is replaced
	// by the result identifier.
	LinkTemplate string `json:"link_template" yaml:"link_template" mapstructure:"link_template"`

	// MaxSessions bounds the number of browser sessions kept in memory.
	MaxSessions int `json:"max_sessions" yaml:"max_sessions" mapstructure:"max_sessions"`

	// RefreshInterval is how often a page re-polls while a search is in flight.
	RefreshInterval time.Duration `json:"refresh_interval" yaml:"refresh_interval" mapstructure:"refresh_interval"`
}

// StoreConfig holds settings for the knowledge-graph triple store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "data/biology_kg.db").
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// JSONDir holds the PMC*_kg.json extraction files read by populate.
	JSONDir string `json:"json_dir" yaml:"json_dir" mapstructure:"json_dir"`
}

// SummaryConfig holds settings for the Ollama-backed summary generator.
type SummaryConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Enabled turns summary generation on.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// OllamaURL is the Ollama server base URL (default "http://localhost:11434").
	OllamaURL string `json:"ollama_url" yaml:"ollama_url" mapstructure:"ollama_url"`

	// Model is the generation model (default "gemma2:2b").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// MaxRetries is the number of retries on HTTP 429 or 503 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// APIConfig holds settings for the search API server.
type APIConfig struct {
	// Addr is the listen address (default ":5001").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// CORSOrigins lists allowed origins (default ["*"]).
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" mapstructure:"cors_origins"`

	// MaxTopK caps the top_k a caller may request (default 100).
	MaxTopK int `json:"max_top_k" yaml:"max_top_k" mapstructure:"max_top_k"`
}

// Config groups all component configurations.
type Config struct {
	Client  ClientConfig  `json:"client" yaml:"client" mapstructure:"client"`
	UI      UIConfig      `json:"ui" yaml:"ui" mapstructure:"ui"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Summary SummaryConfig `json:"summary" yaml:"summary" mapstructure:"summary"`
	API     APIConfig     `json:"api" yaml:"api" mapstructure:"api"`
}
