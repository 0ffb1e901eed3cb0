package bot

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const botInstrumentationName = "github.com/fyrsmithlabs/forecastd/internal/bot"

// Metrics holds the bot's message-flow instruments.
type Metrics struct {
	meter         metric.Meter
	logger        *zap.Logger
	messagesTotal metric.Int64Counter
	outcomesTotal metric.Int64Counter
}

// NewMetrics creates the bot metrics against the global meter provider.
func NewMetrics(logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Metrics{
		meter:  otel.Meter(botInstrumentationName),
		logger: logger,
	}
	m.init()
	return m
}

func (m *Metrics) init() {
	var err error

	m.messagesTotal, err = m.meter.Int64Counter(
		"forecastd.bot.messages_total",
		metric.WithDescription("Inbound messages labeled by classified intent."),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		m.logger.Warn("failed to create messages counter", zap.Error(err))
	}

	m.outcomesTotal, err = m.meter.Int64Counter(
		"forecastd.bot.outcomes_total",
		metric.WithDescription("Dialog evaluation outcomes labeled by derived state (awaiting_city, awaiting_date, answered, rejected)."),
		metric.WithUnit("{outcome}"),
	)
	if err != nil {
		m.logger.Warn("failed to create outcomes counter", zap.Error(err))
	}
}

// RecordMessage counts one classified inbound message.
func (m *Metrics) RecordMessage(ctx context.Context, intentName string) {
	if m.messagesTotal == nil {
		return
	}
	m.messagesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("intent", intentName)))
}

// RecordOutcome counts one dialog evaluation result.
func (m *Metrics) RecordOutcome(ctx context.Context, state string) {
	if m.outcomesTotal == nil {
		return
	}
	m.outcomesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("state", state)))
}
