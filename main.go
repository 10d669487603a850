// go-ytmeta extracts YouTube playlist and video metadata from the
// platform's web-facing (non-API) endpoints.
//
// The CLI is a thin shell: it wires the fetch client, invokes the
// playlist crawler or the video decoder, and serializes the result as
// JSON to standard output. All extraction logic lives in internal/engine.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/anatolykoptev/go-ytmeta/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	cmd.Execute(ctx)
}
