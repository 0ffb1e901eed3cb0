// Package bot ties intent routing, slot extraction, the context store and
// response formatting into the per-message dialogue flow.
package bot

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/forecastd/internal/dialog"
	"github.com/fyrsmithlabs/forecastd/internal/format"
	"github.com/fyrsmithlabs/forecastd/internal/intent"
)

// Fixed conversational replies.
const (
	helpReply     = "Напишите привет!"
	greetingReply = "Добрый день, пользователь!\n" +
		"Я могу предоставить прогноз погоды до двух дней вперед для Москвы и Санкт-Петербурга"
	farewellReply    = "До свидания!"
	fetchFailedReply = "Не получилось узнать прогноз, попробуйте, пожалуйста, позже"
)

// Bot handles one inbound message at a time per user.
type Bot struct {
	router  *intent.Router
	store   *dialog.Store
	fetcher dialog.Fetcher
	logger  *zap.Logger
	metrics *Metrics

	// Serializes whole turns per user id so a clarification answer can
	// never interleave with the turn that produced the prompt.
	turnMu sync.Mutex
	turns  map[string]*sync.Mutex
}

// New creates a bot. The fetcher is the outbound weather client; tests
// substitute fakes.
func New(router *intent.Router, store *dialog.Store, fetcher dialog.Fetcher, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		router:  router,
		store:   store,
		fetcher: fetcher,
		logger:  logger,
		metrics: NewMetrics(logger),
		turns:   make(map[string]*sync.Mutex),
	}
}

func (b *Bot) userLock(userID string) *sync.Mutex {
	b.turnMu.Lock()
	defer b.turnMu.Unlock()
	mu, ok := b.turns[userID]
	if !ok {
		mu = &sync.Mutex{}
		b.turns[userID] = mu
	}
	return mu
}

// HandleMessage classifies the text, runs extraction for intents that own
// a pipeline, and returns the ordered replies to send back. Turns for the
// same user are serialized; different users proceed independently.
func (b *Bot) HandleMessage(ctx context.Context, userID, text string) ([]string, error) {
	mu := b.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	in := b.router.Route(text)
	b.metrics.RecordMessage(ctx, in.Name)
	b.logger.Debug("message classified",
		zap.String("user_id", userID),
		zap.String("intent", in.Name),
	)

	switch in.Name {
	case intent.Help:
		return []string{helpReply}, nil
	case intent.Greeting:
		return []string{greetingReply, format.GreetingFollowUp()}, nil
	case intent.Farewell:
		return []string{farewellReply}, nil
	}

	return b.handleWeatherTurn(ctx, userID, text, in)
}

func (b *Bot) handleWeatherTurn(ctx context.Context, userID, text string, in *intent.Intent) ([]string, error) {
	extracted := b.store.Get(userID)
	if in.Pipeline != nil {
		var err error
		extracted, err = in.Pipeline.Run(text, extracted)
		if err != nil {
			return nil, fmt.Errorf("extraction for user %s: %w", userID, err)
		}
	}

	merged, err := b.store.Merge(userID, extracted)
	if err != nil {
		return nil, fmt.Errorf("context merge for user %s: %w", userID, err)
	}

	out, respErr := merged.Respond(ctx, b.fetcher)
	if out.Terminal {
		b.store.Clear(userID)
	}
	b.metrics.RecordOutcome(ctx, string(out.State))
	if respErr != nil {
		b.logger.Warn("forecast fetch failed",
			zap.String("user_id", userID),
			zap.Error(respErr),
		)
	}

	reply := out.Reply
	if out.State == dialog.Answered {
		reply = b.renderForecast(out)
	}

	return []string{reply, format.FollowUp()}, nil
}

// renderForecast turns the raw provider payload into user text, falling
// back to the raw payload when it cannot be parsed and to a fixed apology
// when there is no payload at all.
func (b *Bot) renderForecast(out dialog.Outcome) string {
	if out.Payload == "" {
		return fetchFailedReply
	}

	text, err := format.Forecast(out.Payload, out.DayOffset)
	if err != nil {
		b.logger.Warn("unusable provider payload, replying with raw text", zap.Error(err))
		return out.Payload
	}
	return text
}
