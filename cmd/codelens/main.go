package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fernbridge/codelens"
	"github.com/fernbridge/codelens/internal/config"
	"github.com/fernbridge/codelens/internal/mcpserver"
)

var flagBaseDir string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "codelens",
	Short:         "Hybrid code-intelligence retrieval service",
	Long:          "codelens indexes a codebase into relational, full-text, and vector stores, and serves hybrid retrieval queries over a tool-call protocol.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseDir, "base-dir", "", "repository root codelens indexes and stores its databases under (overrides BASE_DIR)")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
}

func loadConfig() (*config.Config, error) {
	if flagBaseDir != "" {
		if err := os.Setenv("BASE_DIR", flagBaseDir); err != nil {
			return nil, fmt.Errorf("setting BASE_DIR: %w", err)
		}
	}
	return config.FromEnv()
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Run one indexing pass over every configured repo root",
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := codelens.New(cfg)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	start := time.Now()
	run, err := engine.RefreshIndex(nil)
	if err != nil {
		return fmt.Errorf("indexing: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Indexed in %s: scanned=%d indexed=%d unchanged=%d deleted=%d skipped=%d\n",
		time.Since(start).Round(time.Millisecond),
		run.FilesScanned, run.FilesIndexed, run.FilesUnchanged, run.FilesDeleted, run.FilesSkipped)
	return nil
}

var flagWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP stdio server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&flagWatch, "watch", false, "re-index changed files in the background while serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := codelens.New(cfg)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	if flagWatch || cfg.WatchMode {
		stop, err := engine.Watch()
		if err != nil {
			return fmt.Errorf("starting watch mode: %w", err)
		}
		defer stop()
	}

	server := mcpserver.New(engine)
	return server.Run(cmd.Context())
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print index statistics as JSON",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := codelens.New(cfg)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	stats, err := engine.Query().GetIndexStats()
	if err != nil {
		return fmt.Errorf("fetching stats: %w", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
