// Package statsd is a helper package that wraps the statsd methods this repo
// uses. It hides the datadog dependency so a future migration only needs to
// edit this single file.
package statsd

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

var client ddstatsd.ClientInterface = &ddstatsd.NoOpClient{}

func Client() ddstatsd.ClientInterface {
	return client
}

// EmitOpStat records how long one mutation operation took, tagged by kind.
func EmitOpStat(start time.Time, kind string) {
	duration := time.Since(start)
	err := Client().Timing("op", duration, []string{"kind:" + kind}, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit op stat: %v", err)
	}
}

func Init(address string, tags []string) error {
	if address == "" {
		return eris.New("address must not be empty")
	}
	opts := []ddstatsd.Option{
		// The statsd namespace is the prefix of all metrics
		ddstatsd.WithNamespace("unmatched"),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}

	newClient, err := ddstatsd.New(address, opts...)
	if err != nil {
		return err
	}
	// Success! replace the global client
	client = newClient
	return nil
}
