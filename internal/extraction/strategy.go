// Package extraction populates dialog slots from free-text input.
//
// Extraction is organized as a family of independent strategies behind one
// interface, run in a fixed priority order by a sequential pipeline. The
// statistical strategies (date recognition, location recognition) run
// first: they have higher recall on free-form phrasing. The handcrafted
// alias strategies run second as a precision fallback that catches exact
// short-form answers typed in response to a clarification prompt. The
// fill-only-if-absent merge discipline makes this ordering safe: a later
// strategy can never undo an earlier one.
package extraction

import (
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/forecastd/internal/dialog"
)

// Strategy reads a raw query and the prior context and returns a delta
// context for exactly the slots it is responsible for. An empty delta
// means the strategy found nothing.
type Strategy interface {
	Extract(query string, prior dialog.Context) dialog.Context
}

// Pipeline runs strategies in order, merging each delta into the running
// context and stopping as soon as the context is complete.
type Pipeline struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewPipeline creates a pipeline over the given strategies. Order matters.
func NewPipeline(logger *zap.Logger, strategies ...Strategy) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{strategies: strategies, logger: logger}
}

// Run iterates the strategy list. Before each strategy the completeness of
// the running context is checked; once complete, no further strategy runs,
// even one that might have refined an informational slot. Each delta is
// merged under the fill-only-if-absent rule.
func (p *Pipeline) Run(query string, initial dialog.Context) (dialog.Context, error) {
	current := initial
	for _, s := range p.strategies {
		if current.IsComplete() {
			break
		}

		delta := s.Extract(query, current)
		merged, err := current.Merge(delta)
		if err != nil {
			return dialog.Context{}, err
		}

		if !delta.IsEmpty() {
			p.logger.Debug("strategy produced a delta",
				zap.String("strategy", strategyName(s)),
				zap.Bool("complete", merged.IsComplete()),
			)
		}
		current = merged
	}
	return current, nil
}

func strategyName(s Strategy) string {
	type named interface{ Name() string }
	if n, ok := s.(named); ok {
		return n.Name()
	}
	return "unknown"
}

// NewWeatherPipeline assembles the standard strategy order for weather
// requests: statistical date, statistical location, handcrafted date,
// handcrafted location.
func NewWeatherPipeline(logger *zap.Logger, recognizer LocationRecognizer, clock Clock) *Pipeline {
	return NewPipeline(logger,
		NewDateRecognizerExtractor(clock),
		NewLocationRecognizerExtractor(recognizer),
		NewAliasDateExtractor(),
		NewAliasLocationExtractor(),
	)
}
