// Package format turns raw provider payloads into user-facing Russian
// text.
package format

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnusablePayload is returned when the provider payload cannot be
// turned into a forecast text. Callers fall back to the raw payload.
var ErrUnusablePayload = errors.New("format: payload is not a usable forecast")

// dailyEntry is the per-day slice of the provider's forecast payload.
type dailyEntry struct {
	Temp struct {
		Day float64 `json:"day"`
	} `json:"temp"`
	FeelsLike struct {
		Day float64 `json:"day"`
	} `json:"feels_like"`
	WindSpeed float64 `json:"wind_speed"`
	Weather   []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

type forecastPayload struct {
	Daily []dailyEntry `json:"daily"`
}

// Forecast renders the forecast for the given day offset from the raw
// provider payload. The payload is a multi-day serialization addressable
// by day offset; an unparsable payload or one without the requested day
// yields ErrUnusablePayload.
func Forecast(payload string, dayOffset int) (string, error) {
	var parsed forecastPayload
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnusablePayload, err)
	}
	if dayOffset < 0 || dayOffset >= len(parsed.Daily) {
		return "", fmt.Errorf("%w: no day %d in payload", ErrUnusablePayload, dayOffset)
	}

	day := parsed.Daily[dayOffset]
	text := fmt.Sprintf(
		"Температура %v градус%s по Цельсию, ощущается как %v\nСкорость ветра %v метра в секунду",
		day.Temp.Day, degreeEnding(day.Temp.Day), day.FeelsLike.Day, day.WindSpeed,
	)
	if len(day.Weather) > 0 && day.Weather[0].Description != "" {
		text += "\n" + day.Weather[0].Description
	}
	return text, nil
}

// degreeEnding picks the Russian case ending for "градус" agreeing with
// the last digit of the integer part.
func degreeEnding(num float64) string {
	lastDigit := int(num) % 10
	switch lastDigit {
	case 1:
		return ""
	case 2, 3, 4:
		return "а"
	default:
		return "ов"
	}
}
