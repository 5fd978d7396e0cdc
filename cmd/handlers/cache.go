package handlers

import (
	"fmt"
	"os"
	"time"

	"daily5/internal/config"
	"daily5/internal/logger"
	"daily5/internal/store"

	"github.com/spf13/cobra"
)

// NewCacheCmd creates the sent-content cache management command.
func NewCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the sent-content cache",
		Long:  `Inspect and prune the SQLite cache of content already delivered to users.`,
	}

	cacheCmd.AddCommand(newCacheStatsCmd())
	cacheCmd.AddCommand(newCachePruneCmd())
	return cacheCmd
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-user sent-content counts",
		Run: func(cmd *cobra.Command, args []string) {
			cfgPath, _ := cmd.Flags().GetString("config")
			if err := runCacheStats(cfgPath); err != nil {
				logger.Error("Failed to get cache stats", err)
				os.Exit(1)
			}
		},
	}
}

func newCachePruneCmd() *cobra.Command {
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove entries older than the retention window",
		Run: func(cmd *cobra.Command, args []string) {
			cfgPath, _ := cmd.Flags().GetString("config")
			if err := runCachePrune(cfgPath); err != nil {
				logger.Error("Failed to prune cache", err)
				os.Exit(1)
			}
		},
	}
	return pruneCmd
}

func runCacheStats(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	db, err := store.NewStore(cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	stats, err := db.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Cache: %s\n", db.Path())
	if len(stats) == 0 {
		fmt.Println("No sent content recorded.")
		return nil
	}
	total := 0
	for email, count := range stats {
		fmt.Printf("  %-40s %d entries\n", email, count)
		total += count
	}
	fmt.Printf("Total: %d entries (retention %s)\n", total, cfg.Dedup.Retention)
	return nil
}

func runCachePrune(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	db, err := store.NewStore(cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	removed, err := db.Prune(time.Now().UTC().Add(-cfg.Dedup.Retention))
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d entries older than %s\n", removed, cfg.Dedup.Retention)
	return nil
}
