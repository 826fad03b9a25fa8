package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alimikegami/point-of-sales/checkout-service/config"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/app"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	config := config.CreateNewConfig()
	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	server := app.App{
		Config: config,
	}

	if err := server.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down")
	if err := server.StopServer(); err != nil {
		log.Error().Err(err).Msg("failed to shut down cleanly")
	}
}
