package unmatched

import (
	"github.com/JeremyLoy/config"
	"github.com/rs/zerolog/log"
)

const (
	// ModeLocal runs a single-process store; every browser tab gets its own
	// world.
	ModeLocal = "local"
	// ModeReplicated shares one world between processes through the Redis
	// op log.
	ModeReplicated = "replicated"
)

type WorldConfig struct {
	RedisAddress  string `config:"REDIS_ADDRESS"`
	RedisPassword string `config:"REDIS_PASSWORD"`
	Port          string `config:"UNMATCHED_PORT"`
	Mode          string `config:"UNMATCHED_MODE"`
	StatsdAddress string `config:"STATSD_ADDRESS"`
}

func GetWorldConfig() WorldConfig {
	cfg := WorldConfig{
		RedisAddress: "localhost:6379",
		Port:         "4040",
		Mode:         ModeLocal,
	}
	if err := config.FromEnv().To(&cfg); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to read config from env, using defaults")
	}
	return cfg
}
