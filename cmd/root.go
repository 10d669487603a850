package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-ytmeta/internal/engine"
	"github.com/spf13/cobra"
)

var (
	flagPretty    bool
	flagVerbose   bool
	flagBrowserUA bool

	fetchTimeout = env.Duration("YTMETA_TIMEOUT", 30*time.Second)
	maxPages     = env.Int("YTMETA_MAX_PAGES", 1000)
	workers      = env.Int("YTMETA_WORKERS", 4)
	pagesPerSec  = env.Float("YTMETA_PAGES_PER_SEC", 2)
	cacheTTL     = env.Duration("YTMETA_CACHE_TTL", time.Hour)
)

var rootCmd = &cobra.Command{
	Use:           "ytmeta",
	Short:         "Extract YouTube playlist and video metadata without the official API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			slog.Debug("run counters", slog.Any("metrics", engine.GetMetrics()))
		}
	},
}

// Execute runs the CLI, exiting non-zero on fatal error.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagPretty, "pretty", false, "prettify JSON output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagBrowserUA, "browser-ua", false, "send a desktop browser User-Agent instead of the honest one")
	rootCmd.AddCommand(playlistCmd)
	rootCmd.AddCommand(videoCmd)
	rootCmd.AddCommand(versionCmd)
}

// newFetcher builds the production fetch client from env-derived config.
func newFetcher() engine.Fetcher {
	cfg := engine.DefaultClientConfig
	cfg.Timeout = fetchTimeout
	if flagBrowserUA {
		cfg.UserAgent = engine.UserAgentChrome
	}
	return engine.NewClient(cfg)
}

// writeJSON serializes one result record to w.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if flagPretty {
		enc.SetIndent("", "    ")
	}
	return enc.Encode(v)
}
