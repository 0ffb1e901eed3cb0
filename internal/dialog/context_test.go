package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

// fakeFetcher records forecast calls and returns a canned payload.
type fakeFetcher struct {
	calls   int
	lastQ   ForecastQuery
	payload string
	err     error
}

func (f *fakeFetcher) Forecast(_ context.Context, q ForecastQuery) (string, error) {
	f.calls++
	f.lastQ = q
	return f.payload, f.err
}

func TestMergeFillsOnlyAbsentSlots(t *testing.T) {
	base := WeatherDelta(KnownCity(Moscow), strPtr(DefaultRegionCode), nil)

	delta := WeatherDelta(KnownCity(SaintPetersburg), strPtr("XX"), intPtr(1))
	merged, err := base.Merge(delta)
	require.NoError(t, err)

	// City and region were already set and stay untouched; the date slot
	// was empty and gets filled.
	assert.Equal(t, Moscow, merged.City.Name)
	assert.Equal(t, DefaultRegionCode, *merged.RegionCode)
	require.NotNil(t, merged.DateOffset)
	assert.Equal(t, 1, *merged.DateOffset)
}

func TestMergeDoesNotMutateReceiver(t *testing.T) {
	base := NewWeatherContext()
	delta := WeatherDelta(KnownCity(Moscow), nil, intPtr(0))

	_, err := base.Merge(delta)
	require.NoError(t, err)

	assert.True(t, base.IsEmpty(), "receiver must stay an empty value")
}

func TestMergeIdempotence(t *testing.T) {
	base := WeatherDelta(nil, nil, intPtr(2))
	delta := WeatherDelta(KnownCity(SaintPetersburg), strPtr(DefaultRegionCode), intPtr(0))

	once, err := base.Merge(delta)
	require.NoError(t, err)
	twice, err := once.Merge(delta)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestCompletionMonotonicity(t *testing.T) {
	complete := WeatherDelta(KnownCity(Moscow), strPtr(DefaultRegionCode), intPtr(1))
	require.True(t, complete.IsComplete())

	merged, err := complete.Merge(NewWeatherContext())
	require.NoError(t, err)
	assert.True(t, merged.IsComplete())

	merged, err = merged.Merge(WeatherDelta(UnknownCity("Berlin"), nil, intPtr(5)))
	require.NoError(t, err)
	assert.True(t, merged.IsComplete())
	assert.Equal(t, Moscow, merged.City.Name)
	assert.Equal(t, 1, *merged.DateOffset)
}

func TestMergeRejectsKindMismatch(t *testing.T) {
	base := NewWeatherContext()
	foreign := Context{kind: "smalltalk"}

	_, err := base.Merge(foreign)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKindMismatch))
}

func TestIsCompleteAndIsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		ctx      Context
		complete bool
		empty    bool
	}{
		{name: "empty", ctx: NewWeatherContext(), complete: false, empty: true},
		{name: "city only", ctx: WeatherDelta(KnownCity(Moscow), nil, nil), complete: false, empty: false},
		{name: "date only", ctx: WeatherDelta(nil, nil, intPtr(0)), complete: false, empty: false},
		{name: "both", ctx: WeatherDelta(KnownCity(Moscow), nil, intPtr(0)), complete: true, empty: false},
		{
			name:     "region alone does not gate",
			ctx:      WeatherDelta(nil, strPtr(DefaultRegionCode), nil),
			complete: false,
			empty:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.complete, tt.ctx.IsComplete())
			assert.Equal(t, tt.empty, tt.ctx.IsEmpty())
		})
	}
}

func TestRespondAsksForMissingSlots(t *testing.T) {
	fetcher := &fakeFetcher{}

	out, err := NewWeatherContext().Respond(context.Background(), fetcher)
	require.NoError(t, err)
	assert.False(t, out.Terminal)
	assert.Equal(t, AwaitingCity, out.State)
	assert.Equal(t, askCityPrompt, out.Reply)

	cityOnly := WeatherDelta(KnownCity(SaintPetersburg), nil, nil)
	out, err = cityOnly.Respond(context.Background(), fetcher)
	require.NoError(t, err)
	assert.False(t, out.Terminal)
	assert.Equal(t, AwaitingDate, out.State)
	assert.Equal(t, askDatePrompt, out.Reply)

	assert.Zero(t, fetcher.calls, "clarification must not reach the provider")
}

func TestRespondRejectsDateOutOfRange(t *testing.T) {
	fetcher := &fakeFetcher{}
	ctx := WeatherDelta(KnownCity(Moscow), strPtr(DefaultRegionCode), intPtr(10))

	out, err := ctx.Respond(context.Background(), fetcher)
	require.NoError(t, err)
	assert.True(t, out.Terminal)
	assert.Equal(t, Rejected, out.State)
	assert.Equal(t, dateOutOfRangeReply, out.Reply)
	assert.Zero(t, fetcher.calls)
}

func TestRespondRejectsUnknownCity(t *testing.T) {
	fetcher := &fakeFetcher{}
	ctx := WeatherDelta(UnknownCity("Berlin"), strPtr(DefaultRegionCode), intPtr(0))

	out, err := ctx.Respond(context.Background(), fetcher)
	require.NoError(t, err)
	assert.True(t, out.Terminal)
	assert.Equal(t, Rejected, out.State)
	assert.Equal(t, unknownCityReply, out.Reply)
	assert.Zero(t, fetcher.calls)
}

func TestRespondFetchesForecastWhenReady(t *testing.T) {
	fetcher := &fakeFetcher{payload: `{"daily":[]}`}
	ctx := WeatherDelta(KnownCity(Moscow), strPtr(DefaultRegionCode), intPtr(1))

	out, err := ctx.Respond(context.Background(), fetcher)
	require.NoError(t, err)
	assert.True(t, out.Terminal)
	assert.Equal(t, Answered, out.State)
	assert.Equal(t, `{"daily":[]}`, out.Payload)
	assert.Equal(t, 1, out.DayOffset)

	require.Equal(t, 1, fetcher.calls)
	moscow, _ := LookupCity(Moscow)
	assert.Equal(t, moscow.Latitude, fetcher.lastQ.Latitude)
	assert.Equal(t, moscow.Longitude, fetcher.lastQ.Longitude)
	assert.Equal(t, 1, fetcher.lastQ.DayOffset)
	assert.Equal(t, ResponseLang, fetcher.lastQ.Lang)
	assert.Equal(t, ResponseUnits, fetcher.lastQ.Units)
}

func TestRespondSurfacesFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	ctx := WeatherDelta(KnownCity(SaintPetersburg), nil, intPtr(0))

	out, err := ctx.Respond(context.Background(), fetcher)
	require.Error(t, err)
	// Still terminal: the request cycle ends and the caller clears the
	// stored context, even though the payload is unusable.
	assert.True(t, out.Terminal)
	assert.Equal(t, Answered, out.State)
}
