// Command aimd runs the aim loop against the primary display.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("aimd failed")
		os.Exit(1)
	}
}
