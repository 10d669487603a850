package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/anatolykoptev/go-ytmeta/internal/engine/video"
	"github.com/spf13/cobra"
)

var videoCmd = &cobra.Command{
	Use:   "video <video-id>...",
	Short: "Fetch metadata for one or more videos",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := video.NewClient(newFetcher(), video.ClientConfig{
			Workers:   workers,
			CacheSize: 1024,
			CacheTTL:  cacheTTL,
		})
		if err != nil {
			return err
		}
		defer client.Close()

		failed := 0
		for _, res := range client.GetAll(cmd.Context(), args) {
			if res.Err != nil {
				slog.Error("video fetch failed", "video", res.ID, "error", res.Err)
				failed++
				continue
			}
			if err := writeJSON(os.Stdout, res.Meta); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d videos failed", failed, len(args))
		}
		return nil
	},
}
