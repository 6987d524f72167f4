package dispatcher

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/OCAP2/skirmish/internal/dispatcher"

// commandMetrics counts commands per name. Instruments come from the global
// meter provider, so they are no-ops until one is installed.
type commandMetrics struct {
	processed metric.Int64Counter
	failed    metric.Int64Counter
}

func newCommandMetrics() (commandMetrics, error) {
	m := otel.Meter(instrumentationName)

	processed, err := m.Int64Counter(
		"dispatcher.commands.processed",
		metric.WithDescription("Commands that reached a handler"),
	)
	if err != nil {
		return commandMetrics{}, fmt.Errorf("creating processed counter: %w", err)
	}
	failed, err := m.Int64Counter(
		"dispatcher.commands.failed",
		metric.WithDescription("Unknown commands and handler errors"),
	)
	if err != nil {
		return commandMetrics{}, fmt.Errorf("creating failed counter: %w", err)
	}
	return commandMetrics{processed: processed, failed: failed}, nil
}

// record counts one dispatch. handled is false for unknown commands.
func (c commandMetrics) record(command string, handled bool, err error) {
	attrs := metric.WithAttributes(attribute.String("command", command))
	if handled {
		c.processed.Add(context.Background(), 1, attrs)
	}
	if err != nil {
		c.failed.Add(context.Background(), 1, attrs)
	}
}
