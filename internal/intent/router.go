// Package intent classifies inbound messages against an ordered list of
// intents and dispatches to the first acceptor.
package intent

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/forecastd/internal/extraction"
	"github.com/fyrsmithlabs/forecastd/internal/textmatch"
)

// Intent is one classification target: a predicate over the inbound text,
// optionally bound to an extraction pipeline.
type Intent struct {
	Name     string
	CatchAll bool
	Matchers []*textmatch.Matcher
	Pipeline *extraction.Pipeline
}

// Accept reports whether the intent claims the message. A catch-all intent
// accepts everything.
func (i *Intent) Accept(text string) bool {
	if i.CatchAll {
		return true
	}
	return textmatch.MatchAny(text, i.Matchers)
}

// Router holds the ordered intent list. First match wins; the catch-all
// intent is always last, so classification can never come up empty. A list
// violating that shape is a configuration defect and is rejected at
// construction, not at request time.
type Router struct {
	intents []*Intent
}

// Errors returned by NewRouter for malformed intent lists.
var (
	ErrNoIntents       = errors.New("intent: router needs at least one intent")
	ErrNoCatchAll      = errors.New("intent: last intent must be a catch-all")
	ErrCatchAllNotLast = errors.New("intent: catch-all intent must be last")
)

// NewRouter validates and builds a router over the ordered intent list.
func NewRouter(intents ...*Intent) (*Router, error) {
	if len(intents) == 0 {
		return nil, ErrNoIntents
	}
	for idx, in := range intents {
		if in.CatchAll && idx != len(intents)-1 {
			return nil, fmt.Errorf("%w: %q at position %d", ErrCatchAllNotLast, in.Name, idx)
		}
	}
	if !intents[len(intents)-1].CatchAll {
		return nil, ErrNoCatchAll
	}
	return &Router{intents: intents}, nil
}

// Route returns the first intent accepting the text.
func (r *Router) Route(text string) *Intent {
	for _, in := range r.intents {
		if in.Accept(text) {
			return in
		}
	}
	// Unreachable: NewRouter guarantees a trailing catch-all.
	return r.intents[len(r.intents)-1]
}

// Well-known intent names.
const (
	Help          = "help"
	Greeting      = "greeting"
	Farewell      = "farewell"
	WeatherReport = "weather_report"
)

// Trigger phrases may appear embedded in a longer sentence, so they use
// boundary matching rather than full-line matching.
var (
	greetingPatterns = []string{
		`прив(а|(ет?))?`, `здравствуй(те)?`,
		`hello`, `greet(ings)?`, `hi`,
		`добрый день`, `доброе утро`, `добрый вечер`,
	}
	farewellPatterns = []string{
		`пока`, `bye`, `good ?bye`, `до ?свидания`, `ciao`,
	}
)

// NewHelpIntent builds the help-command intent. Commands arrive as the
// whole message, so it uses full-line matching. It owns no pipeline.
func NewHelpIntent() *Intent {
	return &Intent{
		Name:     Help,
		Matchers: []*textmatch.Matcher{textmatch.MustCompile(`/help`, textmatch.FullLine)},
	}
}

// NewGreetingIntent builds the greeting intent. It owns no pipeline.
func NewGreetingIntent() *Intent {
	return &Intent{
		Name:     Greeting,
		Matchers: textmatch.MustCompileAll(textmatch.Boundary, greetingPatterns...),
	}
}

// NewFarewellIntent builds the farewell intent. It owns no pipeline.
func NewFarewellIntent() *Intent {
	return &Intent{
		Name:     Farewell,
		Matchers: textmatch.MustCompileAll(textmatch.Boundary, farewellPatterns...),
	}
}

// NewWeatherReportIntent builds the catch-all weather intent bound to the
// extraction pipeline.
func NewWeatherReportIntent(pipeline *extraction.Pipeline) *Intent {
	return &Intent{
		Name:     WeatherReport,
		CatchAll: true,
		Pipeline: pipeline,
	}
}
