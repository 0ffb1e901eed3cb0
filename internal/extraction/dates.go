package extraction

import (
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/olebedev/when/rules/ru"

	"github.com/fyrsmithlabs/forecastd/internal/dialog"
	"github.com/fyrsmithlabs/forecastd/internal/textmatch"
)

// Clock supplies the current time. Injected so tests can pin "today".
type Clock func() time.Time

// DateRecognizerExtractor recognizes a calendar date expression anywhere in
// the text and converts it to a signed day offset relative to now. Missing
// date components are filled from the current date by the underlying
// parser before the difference in whole days is computed.
//
// The parser rules are built once and are safe for concurrent reads.
type DateRecognizerExtractor struct {
	parser *when.Parser
	clock  Clock
}

// NewDateRecognizerExtractor builds the extractor with Russian, English
// and common date rules.
func NewDateRecognizerExtractor(clock Clock) *DateRecognizerExtractor {
	if clock == nil {
		clock = time.Now
	}
	w := when.New(nil)
	w.Add(ru.All...)
	w.Add(en.All...)
	w.Add(common.All...)
	return &DateRecognizerExtractor{parser: w, clock: clock}
}

// Name identifies the strategy in logs.
func (e *DateRecognizerExtractor) Name() string { return "date_recognizer" }

// Extract returns a date-offset delta, or an empty delta when no date
// expression is recognized.
func (e *DateRecognizerExtractor) Extract(query string, _ dialog.Context) dialog.Context {
	base := e.clock()
	result, err := e.parser.Parse(query, base)
	if err != nil || result == nil {
		return dialog.NewWeatherContext()
	}

	offset := calendarDays(base, result.Time)
	return dialog.WeatherDelta(nil, nil, &offset)
}

// calendarDays is the difference in whole calendar days between from and
// to, ignoring the time of day on both ends.
func calendarDays(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	return int(t.Sub(f).Hours() / 24)
}

// aliasOffset binds one day offset to its trigger aliases.
type aliasOffset struct {
	offset   int
	matchers []*textmatch.Matcher
}

// AliasDateExtractor matches fixed short date aliases. Alias lists for
// offsets 0, 1 and 2 are distinct; the largest matching offset wins, since
// longer aliases embed shorter ones ("day after tomorrow" contains the
// isolated token "tomorrow").
type AliasDateExtractor struct {
	offsets []aliasOffset
}

// NewAliasDateExtractor builds the fixed alias table.
func NewAliasDateExtractor() *AliasDateExtractor {
	return &AliasDateExtractor{
		offsets: []aliasOffset{
			{offset: 0, matchers: textmatch.MustCompileAll(textmatch.Boundary,
				`сегодня`, `сейчас`, `today`, `now`)},
			{offset: 1, matchers: textmatch.MustCompileAll(textmatch.Boundary,
				`завтра`, `tomorrow`)},
			{offset: 2, matchers: textmatch.MustCompileAll(textmatch.Boundary,
				`послезавтра`, `day ?after ?tomorrow`)},
		},
	}
}

// Name identifies the strategy in logs.
func (e *AliasDateExtractor) Name() string { return "date_alias" }

// Extract returns a date-offset delta for the most specific alias list
// that matches, consulting the lists from the largest offset down. The
// strategy applies only when the prior context's date slot is unset; it
// never proposes a value that could collide with one already known.
func (e *AliasDateExtractor) Extract(query string, prior dialog.Context) dialog.Context {
	if prior.DateOffset != nil {
		return dialog.NewWeatherContext()
	}
	for i := len(e.offsets) - 1; i >= 0; i-- {
		candidate := e.offsets[i]
		if textmatch.MatchAny(query, candidate.matchers) {
			offset := candidate.offset
			return dialog.WeatherDelta(nil, nil, &offset)
		}
	}
	return dialog.NewWeatherContext()
}
