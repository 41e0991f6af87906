package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/esilv-labs/askcampus/internal/logger"
)

// Environment variable names. They take precedence over the TOML file
// so a deployment can be reconfigured without editing config.
const (
	EnvLLMProvider   = "LLM_PROVIDER"
	EnvOllamaModel   = "OLLAMA_MODEL"
	EnvOllamaBaseURL = "OLLAMA_BASE_URL"
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvGeminiModel   = "GEMINI_MODEL"
	EnvDocsDir       = "DOCS_DIR"
	EnvIndexDir      = "INDEX_DIR"
	EnvContactsPath  = "PERSIST_CONTACTS_PATH"
)

// Supported LLM provider names.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// AppConfig is the full application configuration.
type AppConfig struct {
	LLM      LLMConfig      `toml:"llm"`
	Embedder EmbedderConfig `toml:"embedding"`
	Index    IndexConfig    `toml:"index"`
	Contacts ContactsConfig `toml:"contacts"`
	Crawler  CrawlerConfig  `toml:"crawler"`
}

// LLMConfig selects and configures the chat model transport.
type LLMConfig struct {
	// Provider is "ollama" or "gemini" (default: ollama).
	Provider string `toml:"provider"`

	// Model is the chat model name; empty uses the provider default.
	Model string `toml:"model"`

	// BaseURL overrides the Ollama endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates the Gemini provider.
	APIKey string `toml:"api_key"`
}

// EmbedderConfig configures the embedding function.
type EmbedderConfig struct {
	// Provider is "ollama" or "local" (default: local).
	Provider string `toml:"provider"`

	// Model is the embedding model name for the ollama provider.
	Model string `toml:"model"`

	// Dimensions overrides the vector size.
	Dimensions int `toml:"dimensions"`
}

// IndexConfig configures document acquisition and storage.
type IndexConfig struct {
	// DocsDir holds the local documents to index (default: ./docs).
	DocsDir string `toml:"docs_dir"`

	// DataDir holds the index database (default: ~/.askcampus/data).
	// The special value ":memory:" keeps the index in memory only.
	DataDir string `toml:"data_dir"`

	// ChunkSize is the chunk length in characters (default: 1000).
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between adjacent chunks (default: 200).
	ChunkOverlap int `toml:"chunk_overlap"`

	// CrawlURLs are seed pages fetched during index builds.
	CrawlURLs []string `toml:"crawl_urls"`

	// WatchDocs enables the filesystem watcher that flags the index as
	// stale when documents change.
	WatchDocs bool `toml:"watch_docs"`
}

// ContactsConfig configures contact record persistence.
type ContactsConfig struct {
	// Path is the JSONL contact log location
	// (default: ~/.askcampus/data/contacts.jsonl).
	Path string `toml:"path"`
}

// CrawlerConfig bounds the web acquisition.
type CrawlerConfig struct {
	// RequestsPerSecond rate-limits page fetches (default: 2).
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// MaxPages caps one crawl (default: 50).
	MaxPages int `toml:"max_pages"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() AppConfig {
	return AppConfig{
		LLM:      LLMConfig{Provider: ProviderOllama},
		Embedder: EmbedderConfig{Provider: "local"},
		Index: IndexConfig{
			DocsDir:      "docs",
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Crawler: CrawlerConfig{
			RequestsPerSecond: 2,
			MaxPages:          50,
		},
	}
}

// LoadConfig reads the TOML config file and applies environment
// overrides. A missing file yields the defaults; a .env file in the
// working directory is honoured before the environment is read.
func LoadConfig(path string) (AppConfig, error) {
	cfg := DefaultConfig()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, ".askcampus", "config.toml")
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Debug("No config file at %s, using defaults", path)
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// A local .env is a convenience for development; a missing file is
	// not an error.
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded environment from .env")
	}
	applyEnv(&cfg)

	return cfg, nil
}

// SaveConfig writes the configuration to the given path.
func SaveConfig(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// applyEnv overrides file values with environment variables.
func applyEnv(cfg *AppConfig) {
	if v := os.Getenv(EnvLLMProvider); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv(EnvOllamaModel); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv(EnvOllamaBaseURL); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv(EnvGeminiModel); v != "" && cfg.LLM.Provider == ProviderGemini {
		cfg.LLM.Model = v
	}
	if v := os.Getenv(EnvDocsDir); v != "" {
		cfg.Index.DocsDir = v
	}
	if v := os.Getenv(EnvIndexDir); v != "" {
		cfg.Index.DataDir = v
	}
	if v := os.Getenv(EnvContactsPath); v != "" {
		cfg.Contacts.Path = v
	}
}

// Validate reports configuration combinations that cannot work.
func (c AppConfig) Validate() error {
	switch c.LLM.Provider {
	case ProviderOllama, ProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.Provider == ProviderGemini && c.LLM.APIKey == "" {
		return fmt.Errorf("gemini provider requires an API key (set %s)", EnvGeminiAPIKey)
	}
	if c.Index.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Index.ChunkSize)
	}
	if c.Index.ChunkOverlap < 0 || c.Index.ChunkOverlap >= c.Index.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", c.Index.ChunkOverlap)
	}
	if c.Crawler.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %s",
			strconv.FormatFloat(c.Crawler.RequestsPerSecond, 'g', -1, 64))
	}
	return nil
}
