// hotelctl runs maintenance jobs against the hotel store: reference import, cache warm-up and
// user provisioning.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/shared"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	rootCmd := &cobra.Command{
		Use:          "hotelctl",
		Short:        "Hotel finder maintenance tool",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		importCmd(cfg),
		warmCmd(cfg),
		addUserCmd(cfg),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
