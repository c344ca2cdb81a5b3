package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/cli"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cli.ConectarDesdeEnv).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("posctl")
		stop()
		os.Exit(1)
	}
}
