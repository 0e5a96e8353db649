package outfit

import "github.com/yanqian/outfitcast/internal/domain/forecast"

// Recommendation is the clothing advice for a single hour.
type Recommendation struct {
	Tier   Tier     `json:"tier"`
	Alerts []string `json:"alerts"`
}

// Recommend maps one record to a tier and its contextual alerts. Alerts come
// out in a fixed order: precipitation and thunder, then wind, then UV.
func Recommend(rec forecast.HourlyRecord) Recommendation {
	alerts := make([]string, 0, 2)
	for _, alert := range weatherAlerts {
		if alert.codes.has(rec.WeatherCode) {
			alerts = append(alerts, alert.message)
		}
	}
	if rec.WindSpeed >= WindThreshold {
		alerts = append(alerts, windAlert)
	}
	if clearSkyCodes.has(rec.WeatherCode) && rec.Hour >= sunnyStartHour && rec.Hour < sunnyEndHour {
		alerts = append(alerts, uvAlert)
	}
	return Recommendation{
		Tier:   TierFor(float64(rec.ApparentTemp)),
		Alerts: alerts,
	}
}
