package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/forecastd/internal/dialog"
)

func TestGazetteerFindsCapitalizedSpans(t *testing.T) {
	g := NewGazetteerRecognizer()

	tests := []struct {
		name  string
		text  string
		spans []string
	}{
		{name: "declined city mid-sentence", text: "Погода в Москве завтра", spans: []string{"Москве"}},
		{name: "hyphenated name", text: "Еду в Санкт-Петербург", spans: []string{"Санкт-Петербург"}},
		{name: "two-word name", text: "Flying to Saint Petersburg", spans: []string{"Saint Petersburg"}},
		{name: "foreign city passes through", text: "Погода в Берлине", spans: []string{"Берлине"}},
		{name: "lowercase is not a candidate", text: "погода в москве", spans: nil},
		{name: "capitalized non-place ignored", text: "Погода хорошая", spans: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.spans, g.Locations(tt.text))
		})
	}
}

func TestLocationRecognizerExtractorMapsKnownCity(t *testing.T) {
	e := NewLocationRecognizerExtractor(NewGazetteerRecognizer())

	delta := e.Extract("Погода в Москве завтра", dialog.NewWeatherContext())
	require.NotNil(t, delta.City)
	assert.Equal(t, dialog.Moscow, delta.City.Name)
	assert.True(t, delta.City.Known)
	require.NotNil(t, delta.RegionCode)
	assert.Equal(t, dialog.DefaultRegionCode, *delta.RegionCode)
	assert.Nil(t, delta.DateOffset, "location strategy must not touch the date slot")
}

func TestLocationRecognizerExtractorNormalizesCapitalization(t *testing.T) {
	e := NewLocationRecognizerExtractor(NewGazetteerRecognizer())

	// Nothing is capitalized, so the raw pass finds no span; the
	// normalized second pass does.
	delta := e.Extract("погода в питере", dialog.NewWeatherContext())
	require.NotNil(t, delta.City)
	assert.Equal(t, dialog.SaintPetersburg, delta.City.Name)
}

func TestLocationRecognizerExtractorPassesThroughUnknownCity(t *testing.T) {
	e := NewLocationRecognizerExtractor(NewGazetteerRecognizer())

	delta := e.Extract("Погода в Берлине сегодня", dialog.NewWeatherContext())
	require.NotNil(t, delta.City)
	assert.False(t, delta.City.Known)
	assert.Equal(t, "Берлине", delta.City.Name)
	require.NotNil(t, delta.RegionCode)
	assert.Equal(t, dialog.DefaultRegionCode, *delta.RegionCode)
}

func TestLocationRecognizerExtractorEmptyDelta(t *testing.T) {
	e := NewLocationRecognizerExtractor(NewGazetteerRecognizer())

	delta := e.Extract("Какая погода?", dialog.NewWeatherContext())
	assert.True(t, delta.IsEmpty())
}

func TestAliasLocationExtractorShortFormAnswers(t *testing.T) {
	e := NewAliasLocationExtractor()

	tests := []struct {
		name  string
		query string
		city  string
	}{
		{name: "colloquial short form", query: "Питер", city: dialog.SaintPetersburg},
		{name: "declined form", query: "москве", city: dialog.Moscow},
		{name: "abbreviation", query: "спб", city: dialog.SaintPetersburg},
		{name: "transliteration", query: "moscow", city: dialog.Moscow},
		{name: "with punctuation", query: "Москва!", city: dialog.Moscow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := e.Extract(tt.query, dialog.NewWeatherContext())
			require.NotNil(t, delta.City)
			assert.Equal(t, tt.city, delta.City.Name)
			assert.True(t, delta.City.Known)
			require.NotNil(t, delta.RegionCode)
		})
	}
}

func TestAliasLocationExtractorRequiresFullLine(t *testing.T) {
	e := NewAliasLocationExtractor()

	// The alias is embedded in a sentence; full-match mode rejects it.
	// Free-form phrasing is the statistical strategy's job.
	delta := e.Extract("хочу погоду в Питере на завтра", dialog.NewWeatherContext())
	assert.True(t, delta.IsEmpty())
}

func TestAliasLocationExtractorSkipsWhenCitySet(t *testing.T) {
	e := NewAliasLocationExtractor()
	prior := dialog.WeatherDelta(dialog.KnownCity(dialog.Moscow), nil, nil)

	delta := e.Extract("Питер", prior)
	assert.True(t, delta.IsEmpty())
}

func TestResolveCityAlias(t *testing.T) {
	name, ok := ResolveCityAlias(" Москве ")
	require.True(t, ok)
	assert.Equal(t, dialog.Moscow, name)

	_, ok = ResolveCityAlias("Берлине")
	assert.False(t, ok)
}
