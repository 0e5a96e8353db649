package openmeteo

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/outfitcast/internal/domain/forecast"
)

const localLayout = "2006-01-02T15:04"

type apiResponse struct {
	UTCOffsetSeconds int         `json:"utc_offset_seconds"`
	Timezone         string      `json:"timezone"`
	Current          *apiCurrent `json:"current"`
	Hourly           *apiHourly  `json:"hourly"`
	Error            bool        `json:"error"`
	Reason           string      `json:"reason"`
}

type apiCurrent struct {
	Time                string   `json:"time"`
	Temperature         float64  `json:"temperature_2m"`
	ApparentTemperature float64  `json:"apparent_temperature"`
	WeatherCode         int      `json:"weather_code"`
	WindSpeed           float64  `json:"wind_speed_10m"`
	RelativeHumidity    *float64 `json:"relative_humidity_2m"`
}

type apiHourly struct {
	Time                []string  `json:"time"`
	Temperature         []float64 `json:"temperature_2m"`
	ApparentTemperature []float64 `json:"apparent_temperature"`
	WeatherCode         []int     `json:"weather_code"`
	WindSpeed           []float64 `json:"wind_speed_10m"`
}

// Normalizer converts Open-Meteo's dense hourly arrays into the canonical forecast.
type Normalizer struct{}

// Normalize implements forecast.Normalizer.
func (Normalizer) Normalize(payload []byte, now time.Time) (forecast.Forecast, error) {
	if len(payload) == 0 {
		return forecast.Forecast{}, forecast.ErrDataUnavailable
	}
	var raw apiResponse
	if err := json.Unmarshal(payload, &raw); err != nil {
		return forecast.Forecast{}, forecast.Malformed("decode open-meteo response: %v", err)
	}
	if raw.Error {
		return forecast.Forecast{}, rejection(http.StatusBadRequest, raw.Reason)
	}
	if raw.Current == nil || raw.Hourly == nil {
		return forecast.Forecast{}, forecast.Malformed("open-meteo response lacks current or hourly block")
	}

	loc := time.FixedZone(raw.Timezone, raw.UTCOffsetSeconds)
	current, err := normalizeCurrent(*raw.Current, loc)
	if err != nil {
		return forecast.Forecast{}, err
	}
	hourly, err := normalizeHourly(*raw.Hourly, loc, now)
	if err != nil {
		return forecast.Forecast{}, err
	}
	if len(raw.Hourly.Time) == 0 {
		return forecast.Forecast{}, forecast.ErrDataUnavailable
	}
	return forecast.Forecast{Current: current, Hourly: hourly}, nil
}

func normalizeCurrent(c apiCurrent, loc *time.Location) (forecast.HourlyRecord, error) {
	ts, err := time.ParseInLocation(localLayout, c.Time, loc)
	if err != nil {
		return forecast.HourlyRecord{}, forecast.Malformed("current time %q: %v", c.Time, err)
	}
	rec := forecast.NewRecord(ts, c.Temperature, c.ApparentTemperature, c.WeatherCode, c.WindSpeed)
	if c.RelativeHumidity != nil {
		rec = rec.WithHumidity(*c.RelativeHumidity)
	}
	return rec, nil
}

func normalizeHourly(h apiHourly, loc *time.Location, now time.Time) ([]forecast.HourlyRecord, error) {
	n := len(h.Time)
	if len(h.Temperature) != n || len(h.ApparentTemperature) != n || len(h.WeatherCode) != n || len(h.WindSpeed) != n {
		return nil, forecast.Malformed("hourly arrays differ in length")
	}

	items := make([]forecast.HourlyRecord, 0, n)
	for i := 0; i < n; i++ {
		ts, err := time.ParseInLocation(localLayout, h.Time[i], loc)
		if err != nil {
			return nil, forecast.Malformed("hourly time %q: %v", h.Time[i], err)
		}
		if ts.Before(now) {
			continue
		}
		items = append(items, forecast.NewRecord(ts, h.Temperature[i], h.ApparentTemperature[i], h.WeatherCode[i], h.WindSpeed[i]))
	}
	return items, nil
}

type apiError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// rejectionFromBody turns a 4xx response into a ProviderError, keeping the
// reason Open-Meteo puts in its error body when there is one.
func rejectionFromBody(status int, body []byte) error {
	var raw apiError
	if err := json.Unmarshal(body, &raw); err != nil || strings.TrimSpace(raw.Reason) == "" {
		return rejection(status, http.StatusText(status))
	}
	return rejection(status, raw.Reason)
}

func rejection(status int, reason string) *forecast.ProviderError {
	return &forecast.ProviderError{Provider: providerName, Code: strconv.Itoa(status), Message: strings.TrimSpace(reason)}
}
