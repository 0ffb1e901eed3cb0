package extraction

import (
	"strings"
	"unicode"

	"github.com/fyrsmithlabs/forecastd/internal/dialog"
	"github.com/fyrsmithlabs/forecastd/internal/textmatch"
)

// LocationRecognizer finds location spans in text. Implementations are
// built once at startup and must be safe for concurrent reads.
type LocationRecognizer interface {
	// Locations returns the surface forms of recognized location spans in
	// the order they appear.
	Locations(text string) []string
}

// cityAliases maps lowercase spellings, declensions, transliterations and
// informal short forms to the canonical city name.
var cityAliases = map[string]string{
	"москва":  dialog.Moscow,
	"москвы":  dialog.Moscow,
	"москве":  dialog.Moscow,
	"москву":  dialog.Moscow,
	"москвой": dialog.Moscow,
	"мск":     dialog.Moscow,
	"moscow":  dialog.Moscow,
	"msk":     dialog.Moscow,

	"санкт-петербург":  dialog.SaintPetersburg,
	"санкт-петербурге": dialog.SaintPetersburg,
	"санкт-петербургу": dialog.SaintPetersburg,
	"петербург":        dialog.SaintPetersburg,
	"петербурге":       dialog.SaintPetersburg,
	"питер":            dialog.SaintPetersburg,
	"питере":           dialog.SaintPetersburg,
	"спб":              dialog.SaintPetersburg,
	"saint petersburg": dialog.SaintPetersburg,
	"st petersburg":    dialog.SaintPetersburg,
	"spb":              dialog.SaintPetersburg,
	"piter":            dialog.SaintPetersburg,
}

// ResolveCityAlias maps a recognized span to a canonical supported city.
func ResolveCityAlias(span string) (string, bool) {
	name, ok := cityAliases[strings.ToLower(strings.TrimSpace(span))]
	return name, ok
}

// LocationRecognizerExtractor is the statistical location strategy. It
// runs the recognizer on the raw text first and, if nothing is found, on a
// capitalization-normalized copy, so proper nouns typed in lowercase
// mid-sentence still surface. The first recognized span wins: it is mapped
// to a known city when its spelling is recognized, otherwise passed
// through as an unrecognized-but-present city string. Any found location
// gets the default region code; this is a single-locale simplification,
// not geocoding.
type LocationRecognizerExtractor struct {
	recognizer LocationRecognizer
}

// NewLocationRecognizerExtractor wraps a recognizer as a strategy.
func NewLocationRecognizerExtractor(recognizer LocationRecognizer) *LocationRecognizerExtractor {
	return &LocationRecognizerExtractor{recognizer: recognizer}
}

// Name identifies the strategy in logs.
func (e *LocationRecognizerExtractor) Name() string { return "location_recognizer" }

// Extract returns a city and region delta, or an empty delta when the
// recognizer finds no location span.
func (e *LocationRecognizerExtractor) Extract(query string, _ dialog.Context) dialog.Context {
	spans := e.recognizer.Locations(query)
	if len(spans) == 0 {
		spans = e.recognizer.Locations(titleWords(query))
	}
	if len(spans) == 0 {
		return dialog.NewWeatherContext()
	}

	region := dialog.DefaultRegionCode
	if name, ok := ResolveCityAlias(spans[0]); ok {
		return dialog.WeatherDelta(dialog.KnownCity(name), &region, nil)
	}
	return dialog.WeatherDelta(dialog.UnknownCity(spans[0]), &region, nil)
}

// titleWords upper-cases the first rune of every word.
func titleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		if startOfWord {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		startOfWord = !unicode.IsLetter(r)
	}
	return b.String()
}

// cityAliasPatterns are the full-line alias expressions per known city,
// used by the handcrafted strategy.
var cityAliasPatterns = map[string][]string{
	dialog.Moscow: {
		`москв(а|е|у|ы|ой)`, `мск`, `moscow`, `msk`,
	},
	dialog.SaintPetersburg: {
		`санкт[- ]петербург(е|у)?`, `петербург(е|у)?`, `питер(е)?`, `спб`,
		`saint[- ]petersburg`, `st\.? ?petersburg`, `spb`, `piter`,
	},
}

// AliasLocationExtractor is the handcrafted location strategy: fixed alias
// lists per known city, full-match mode. It catches exact short-form
// answers to the city clarification prompt.
type AliasLocationExtractor struct {
	cities map[string][]*textmatch.Matcher
}

// NewAliasLocationExtractor compiles the fixed alias table.
func NewAliasLocationExtractor() *AliasLocationExtractor {
	cities := make(map[string][]*textmatch.Matcher, len(cityAliasPatterns))
	for name, exprs := range cityAliasPatterns {
		cities[name] = textmatch.MustCompileAll(textmatch.FullLine, exprs...)
	}
	return &AliasLocationExtractor{cities: cities}
}

// Name identifies the strategy in logs.
func (e *AliasLocationExtractor) Name() string { return "location_alias" }

// Extract fills city and region code only when the prior context has no
// city yet.
func (e *AliasLocationExtractor) Extract(query string, prior dialog.Context) dialog.Context {
	if prior.City != nil {
		return dialog.NewWeatherContext()
	}
	for name, matchers := range e.cities {
		if textmatch.MatchAny(query, matchers) {
			region := dialog.DefaultRegionCode
			return dialog.WeatherDelta(dialog.KnownCity(name), &region, nil)
		}
	}
	return dialog.NewWeatherContext()
}
