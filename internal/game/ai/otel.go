package ai

import (
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/mitchelldurbincs/HexTactics/internal/game/ai"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// newCommandCounter uses the global provider, which is a no-op until one is installed
func newCommandCounter() metric.Int64Counter {
	counter, err := meter().Int64Counter(
		"hextactics.ai.commands",
		metric.WithDescription("Commands chosen by AI players"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Creating AI command counter failed, metrics disabled")
		return noop.Int64Counter{}
	}
	return counter
}
