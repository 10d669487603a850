package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/anatolykoptev/go-ytmeta/internal/engine/playlist"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist <playlist-id>...",
	Short: "Fetch full playlist metadata, following continuations to the end",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		crawler := playlist.NewCrawler(newFetcher(), playlist.CrawlerConfig{
			MaxPages: maxPages,
			Limiter:  rate.NewLimiter(rate.Limit(pagesPerSec), 1),
		})

		failed := 0
		for _, id := range args {
			pl, err := crawler.Crawl(cmd.Context(), id)
			if err != nil {
				slog.Error("playlist crawl failed", "playlist", id, "error", err)
				failed++
				continue
			}
			if err := writeJSON(os.Stdout, pl); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d playlists failed", failed, len(args))
		}
		return nil
	},
}
