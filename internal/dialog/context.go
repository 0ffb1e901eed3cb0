// Package dialog holds the state of one in-progress user request: which
// slots are known, whether the request is complete, and how to turn the
// accumulated slots into a user-facing outcome.
//
// A Context is an immutable value. Merge never mutates its receiver; it
// returns a new value with unset slots filled from the delta. The Store
// owns the current value per user and swaps it atomically on each merge.
package dialog

import (
	"context"
	"errors"
	"fmt"
)

// Kind identifies the request family a Context belongs to. Contexts of
// different kinds cannot be merged.
type Kind string

// KindWeatherReport is the only request kind supported today.
const KindWeatherReport Kind = "weather_report"

// ErrKindMismatch is returned when merging contexts of different kinds.
var ErrKindMismatch = errors.New("dialog: cannot merge contexts of different kinds")

// City is an extracted city slot value. Known is true when the name is one
// of the supported cities; otherwise Name carries the raw extracted string.
type City struct {
	Name  string
	Known bool
}

// Context is the aggregate of all slots for one pending request.
//
// Slot semantics follow a first-writer-wins discipline: once a slot holds a
// value, no later merge replaces it. City and DateOffset gate completion;
// RegionCode is informational only.
type Context struct {
	kind       Kind
	City       *City
	RegionCode *string
	// DateOffset is days relative to today: 0 today, 1 tomorrow.
	DateOffset *int
}

// NewWeatherContext returns an empty weather-report context. This is the
// factory the Store uses for first-seen users.
func NewWeatherContext() Context {
	return Context{kind: KindWeatherReport}
}

// WeatherDelta builds a partially-filled weather context, the result shape
// of one extraction strategy. Nil arguments leave the slot unset.
func WeatherDelta(city *City, regionCode *string, dateOffset *int) Context {
	return Context{
		kind:       KindWeatherReport,
		City:       city,
		RegionCode: regionCode,
		DateOffset: dateOffset,
	}
}

// Kind reports the request kind of the context.
func (c Context) Kind() Kind { return c.kind }

// IsComplete reports whether both gating slots are filled. RegionCode does
// not participate.
func (c Context) IsComplete() bool {
	return c.City != nil && c.DateOffset != nil
}

// IsEmpty reports whether neither gating slot is filled.
func (c Context) IsEmpty() bool {
	return c.City == nil && c.DateOffset == nil
}

// Merge combines the delta into the context, filling only slots that are
// currently unset, and returns the result as a new value. Merging contexts
// of different kinds fails with ErrKindMismatch.
func (c Context) Merge(delta Context) (Context, error) {
	if c.kind != delta.kind {
		return Context{}, fmt.Errorf("%w: %s vs %s", ErrKindMismatch, c.kind, delta.kind)
	}

	merged := c
	if merged.City == nil {
		merged.City = delta.City
	}
	if merged.RegionCode == nil {
		merged.RegionCode = delta.RegionCode
	}
	if merged.DateOffset == nil {
		merged.DateOffset = delta.DateOffset
	}
	return merged, nil
}

// State is the derived position of a request in its lifecycle. There is no
// stored state field; State is recomputed from the slots on each call.
type State string

const (
	// AwaitingCity means the city slot is still unset.
	AwaitingCity State = "awaiting_city"
	// AwaitingDate means the city is known but the date slot is unset.
	AwaitingDate State = "awaiting_date"
	// Answered means a forecast was fetched for the request.
	Answered State = "answered"
	// Rejected means the request cannot be served: the city is unknown or
	// the date is outside the supported window.
	Rejected State = "rejected"
)

// ForecastQuery is the key for one outbound provider fetch.
type ForecastQuery struct {
	Latitude  float64
	Longitude float64
	DayOffset int
	Lang      string
	Units     string
}

// Fetcher retrieves the raw forecast payload for a query. Implemented by
// the weather client; tests substitute fakes.
type Fetcher interface {
	Forecast(ctx context.Context, q ForecastQuery) (string, error)
}

// Outcome is the result of evaluating a context.
//
// Terminal doubles as the signal that the caller should clear the stored
// context for this user now. For the Answered state, Payload carries the
// raw provider response and City/DayOffset the resolved pair; Reply is
// empty and formatting is the caller's concern.
type Outcome struct {
	Terminal  bool
	State     State
	Reply     string
	Payload   string
	City      *City
	DayOffset int
}

// Fixed single-locale responses, matching the bot's response language.
const (
	askCityPrompt       = "Уточните, пожалуйста, город"
	askDatePrompt       = "Уточните, пожалуйста, дату желаемого прогноза"
	unknownCityReply    = "Погода в данном месте мне неизвестна"
	dateOutOfRangeReply = "Такой прогноз мне недоступен: я умею смотреть не дальше двух дней вперед"
)

// Supported forecast window, in days relative to today.
const (
	minDayOffset = 0
	maxDayOffset = 2
)

// Respond evaluates the context and produces the next step of the dialog.
//
// Checks run in a fixed order: missing city, missing date, date outside the
// supported window, unknown city, then the provider fetch. The first three
// reject without a network call. A fetch failure still yields a terminal
// Answered outcome; the payload is returned as-is (possibly empty) and the
// error is reported alongside for the caller to log.
func (c Context) Respond(ctx context.Context, fetcher Fetcher) (Outcome, error) {
	if c.City == nil {
		return Outcome{State: AwaitingCity, Reply: askCityPrompt}, nil
	}
	if c.DateOffset == nil {
		return Outcome{State: AwaitingDate, Reply: askDatePrompt}, nil
	}

	offset := *c.DateOffset
	if offset < minDayOffset || offset > maxDayOffset {
		return Outcome{Terminal: true, State: Rejected, Reply: dateOutOfRangeReply}, nil
	}

	city, ok := LookupCity(c.City.Name)
	if !ok || !c.City.Known {
		return Outcome{Terminal: true, State: Rejected, Reply: unknownCityReply}, nil
	}

	payload, err := fetcher.Forecast(ctx, ForecastQuery{
		Latitude:  city.Latitude,
		Longitude: city.Longitude,
		DayOffset: offset,
		Lang:      ResponseLang,
		Units:     ResponseUnits,
	})

	out := Outcome{
		Terminal:  true,
		State:     Answered,
		Payload:   payload,
		City:      c.City,
		DayOffset: offset,
	}
	if err != nil {
		return out, fmt.Errorf("forecast fetch for %s: %w", city.Name, err)
	}
	return out, nil
}
