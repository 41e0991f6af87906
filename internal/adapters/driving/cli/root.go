// Package cli provides the command-line interface for askcampus.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/esilv-labs/askcampus/internal/adapters/driven/config/file"
	"github.com/esilv-labs/askcampus/internal/adapters/driven/embedding/local"
	embollama "github.com/esilv-labs/askcampus/internal/adapters/driven/embedding/ollama"
	"github.com/esilv-labs/askcampus/internal/adapters/driven/llm/gemini"
	"github.com/esilv-labs/askcampus/internal/adapters/driven/llm/ollama"
	storagefile "github.com/esilv-labs/askcampus/internal/adapters/driven/storage/file"
	"github.com/esilv-labs/askcampus/internal/adapters/driven/storage/memory"
	"github.com/esilv-labs/askcampus/internal/adapters/driven/storage/sqlite"
	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
	"github.com/esilv-labs/askcampus/internal/core/ports/driving"
	"github.com/esilv-labs/askcampus/internal/core/services"
	"github.com/esilv-labs/askcampus/internal/ingest"
	"github.com/esilv-labs/askcampus/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
)

// Services wired once per process, or injected by tests.
var (
	turnService   driving.TurnService
	routerService driving.RouterService
	indexService  driving.IndexService
	contactLog    driven.ContactLog
	docWatcher    *ingest.Watcher
	closers       []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "askcampus",
	Short: "Campus assistant for visitor questions",
	Long: `askcampus answers visitor questions about the school from an
index of local documents and crawled pages, and collects contact
details when a visitor asks to be called back.

Run "askcampus chat" for an interactive session, or "askcampus ask"
for a single question.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.askcampus/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// ensureServices wires the application once. Tests inject the
// package-level services directly, in which case this is a no-op.
func ensureServices(ctx context.Context) error {
	if turnService != nil {
		return nil
	}

	cfg, err := file.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	chat, err := newChatService(ctx, cfg)
	if err != nil {
		return err
	}
	closers = append(closers, closerFunc(chat.Close))
	logger.Info("Chat model: %s", chat.ModelName())

	embedder, err := newEmbeddingService(cfg)
	if err != nil {
		return err
	}
	closers = append(closers, closerFunc(embedder.Close))

	index, err := newChunkIndex(cfg, embedder)
	if err != nil {
		return err
	}

	log, err := newContactLog(cfg)
	if err != nil {
		return err
	}
	contactLog = log
	closers = append(closers, log)

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}

	router := services.NewIntentRouter(chat)
	router.SetPromptStore(prompts)
	routerService = router

	answerer := services.NewGroundedAnswerer(index, chat)
	answerer.SetPromptStore(prompts)

	form := services.NewContactDialogue(chat, log)
	form.SetPromptStore(prompts)

	turnService = services.NewTurnController(router, answerer, form)

	indexer := services.NewIndexer(index, newChunker(cfg), documentSources(cfg)...)
	if cfg.Index.DataDir != ":memory:" {
		indexer.SetStatePath(filepath.Join(cfg.Index.DataDir, "last_build"))
	}
	indexService = indexer

	if cfg.Index.WatchDocs {
		watcher, err := ingest.NewWatcher(cfg.Index.DocsDir)
		if err != nil {
			logger.Warn("Document watcher disabled: %v", err)
		} else {
			docWatcher = watcher
			closers = append(closers, watcher)
		}
	}

	return nil
}

func newChatService(ctx context.Context, cfg file.AppConfig) (driven.ChatService, error) {
	switch cfg.LLM.Provider {
	case file.ProviderGemini:
		return gemini.NewChatService(ctx, gemini.Config{
			APIKey: cfg.LLM.APIKey,
			Model:  cfg.LLM.Model,
		})
	case file.ProviderOllama, "":
		return ollama.NewChatService(ollama.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func newEmbeddingService(cfg file.AppConfig) (driven.EmbeddingService, error) {
	switch cfg.Embedder.Provider {
	case "ollama":
		return embollama.NewEmbeddingService(embollama.Config{
			BaseURL:    cfg.LLM.BaseURL,
			Model:      cfg.Embedder.Model,
			Dimensions: cfg.Embedder.Dimensions,
		}), nil
	case "local", "":
		return local.NewEmbeddingService(local.Config{
			Dimensions: cfg.Embedder.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedder.Provider)
	}
}

// newChunkIndex opens the persistent index, or an ephemeral in-memory
// one when data_dir is ":memory:".
func newChunkIndex(cfg file.AppConfig, embedder driven.EmbeddingService) (driven.ChunkIndex, error) {
	if cfg.Index.DataDir == ":memory:" {
		return memory.NewChunkIndex(embedder), nil
	}

	store, err := sqlite.NewStore(cfg.Index.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open index store: %w", err)
	}
	closers = append(closers, store)

	index, err := sqlite.NewChunkIndex(store, embedder)
	if err != nil {
		return nil, fmt.Errorf("open chunk index: %w", err)
	}
	return index, nil
}

// newContactLog opens the JSONL contact log, or an ephemeral in-memory
// one when the path is ":memory:".
func newContactLog(cfg file.AppConfig) (driven.ContactLog, error) {
	if cfg.Contacts.Path == ":memory:" {
		return memory.NewContactLog(), nil
	}

	log, err := storagefile.NewContactLog(cfg.Contacts.Path)
	if err != nil {
		return nil, fmt.Errorf("open contact log: %w", err)
	}
	return log, nil
}

func newChunker(cfg file.AppConfig) *ingest.Chunker {
	return ingest.NewChunker(
		ingest.WithChunkSize(cfg.Index.ChunkSize),
		ingest.WithOverlap(cfg.Index.ChunkOverlap),
	)
}

func documentSources(cfg file.AppConfig) []driven.DocumentSource {
	sources := []driven.DocumentSource{ingest.NewFSLoader(cfg.Index.DocsDir)}
	if len(cfg.Index.CrawlURLs) > 0 {
		sources = append(sources, ingest.NewCrawler(ingest.CrawlerConfig{
			Seeds:             cfg.Index.CrawlURLs,
			MaxPages:          cfg.Crawler.MaxPages,
			RequestsPerSecond: cfg.Crawler.RequestsPerSecond,
		}))
	}
	return sources
}

func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Warn("Close: %v", err)
		}
	}
	closers = nil
}

// closerFunc adapts a close function to io.Closer.
type closerFunc func() error

func (f closerFunc) Close() error { return f() }
