package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/esilv-labs/askcampus/internal/core/ports/driving"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the document index",
	Long: `Commands for building and inspecting the chunk index the
assistant answers from.`,
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Index all configured sources",
	Long: `Loads the configured documents directory and crawl seeds,
splits them into chunks and adds the chunks to the existing index.
Already indexed chunks are updated in place.`,
	RunE: runIndexBuild,
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from scratch",
	Long: `Re-indexes all configured sources and atomically replaces the
existing index. Queries running during the rebuild keep seeing the old
index until the replacement commits.`,
	RunE: runIndexRebuild,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index size and last build time",
	RunE:  runIndexStatus,
}

func init() {
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexStatusCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if indexService == nil {
		return errors.New("index service not configured")
	}

	stats, err := indexService.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	cmd.Printf("Indexed %d documents in %s. The index now holds %d chunks.\n",
		stats.Documents, stats.Elapsed.Round(time.Millisecond), stats.Chunks)
	return nil
}

func runIndexRebuild(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if indexService == nil {
		return errors.New("index service not configured")
	}

	stats, err := indexService.Rebuild(cmd.Context())
	if err != nil {
		return fmt.Errorf("index rebuild failed: %w", err)
	}

	cmd.Printf("Rebuilt the index from %d documents in %s: %d chunks.\n",
		stats.Documents, stats.Elapsed.Round(time.Millisecond), stats.Chunks)
	return nil
}

func runIndexStatus(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if indexService == nil {
		return errors.New("index service not configured")
	}

	stats, err := indexService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("index status failed: %w", err)
	}

	cmd.Printf("Chunks:     %d\n", stats.Chunks)
	cmd.Printf("Last build: %s\n", formatLastBuild(stats))
	return nil
}

func formatLastBuild(stats driving.IndexStats) string {
	if stats.LastBuild.IsZero() {
		return "never"
	}
	return stats.LastBuild.Format(time.RFC1123)
}
