package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	unmatched "github.com/Dionid/unmatched"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := unmatched.GetWorldConfig()

	game, err := unmatched.NewGame(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build game")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		if err := game.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	if err := game.StartGame(); err != nil {
		log.Fatal().Err(err).Msg("game server stopped")
	}
}
