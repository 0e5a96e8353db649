package forecast

import "time"

// HourlyRecord is the canonical per-hour weather reading shared by every provider.
type HourlyRecord struct {
	Time         time.Time `json:"time"`
	Hour         int       `json:"hour"`
	Date         string    `json:"date"`
	Temp         int       `json:"temp"`
	ApparentTemp int       `json:"apparentTemp"`
	WeatherCode  int       `json:"weatherCode"`
	WeatherEmoji string    `json:"weatherEmoji"`
	WeatherLabel string    `json:"weatherLabel"`
	WindSpeed    int       `json:"windSpeed"`
	Humidity     *int      `json:"humidity,omitempty"`
}

// Forecast is the normalized output of a provider payload.
type Forecast struct {
	Current HourlyRecord   `json:"current"`
	Hourly  []HourlyRecord `json:"hourly"`
}

// Query describes a forecast lookup against an upstream provider.
type Query struct {
	Lat        float64
	Lon        float64
	Now        time.Time
	ServiceKey string
}

// Normalizer turns a raw provider payload into the canonical forecast.
type Normalizer interface {
	Normalize(payload []byte, now time.Time) (Forecast, error)
}

const dateLayout = "2006-01-02"

// NewRecord builds a record from raw measurements, rounding every value and
// resolving the weather code through the taxonomy.
func NewRecord(ts time.Time, temp, apparent float64, code int, windKmh float64) HourlyRecord {
	info := LookupCode(code)
	return HourlyRecord{
		Time:         ts,
		Hour:         ts.Hour(),
		Date:         ts.Format(dateLayout),
		Temp:         Round(temp),
		ApparentTemp: Round(apparent),
		WeatherCode:  code,
		WeatherEmoji: info.Emoji,
		WeatherLabel: info.Label,
		WindSpeed:    Round(windKmh),
	}
}

// WithHumidity returns a copy of the record carrying a humidity reading.
func (r HourlyRecord) WithHumidity(pct float64) HourlyRecord {
	h := Round(pct)
	r.Humidity = &h
	return r
}

// Canonicalize re-derives the calendar fields and display strings of an
// already normalized sequence and drops hours before now. Running it on its
// own output returns the same sequence.
func Canonicalize(records []HourlyRecord, now time.Time) []HourlyRecord {
	out := make([]HourlyRecord, 0, len(records))
	for _, rec := range records {
		if rec.Time.Before(now) {
			continue
		}
		info := LookupCode(rec.WeatherCode)
		rec.Hour = rec.Time.Hour()
		rec.Date = rec.Time.Format(dateLayout)
		rec.WeatherEmoji = info.Emoji
		rec.WeatherLabel = info.Label
		out = append(out, rec)
	}
	return out
}
