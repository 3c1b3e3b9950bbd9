package game

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

const instrumentationName = "github.com/mitchelldurbincs/HexTactics/internal/game"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

func newEngineCommandCounter() metric.Int64Counter {
	counter, err := meter().Int64Counter(
		"hextactics.engine.commands",
		metric.WithDescription("Commands submitted to the engine by result"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Creating engine command counter failed, metrics disabled")
		return noop.Int64Counter{}
	}
	return counter
}

func (e *Engine) countCommand(cmd core.Command, result string) {
	e.commands.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", core.GetCommandType(cmd)),
		attribute.String("result", result),
	))
}
