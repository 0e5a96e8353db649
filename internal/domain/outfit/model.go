package outfit

import (
	"time"

	"github.com/yanqian/outfitcast/internal/domain/forecast"
)

// Request captures the query accepted by the outfit service.
type Request struct {
	Lat          float64 `form:"lat" json:"lat"`
	Lon          float64 `form:"lon" json:"lon"`
	CredentialID string  `form:"credentialId" json:"credentialId"`
}

// Response is serialized back to API consumers.
type Response struct {
	Location    string         `json:"location"`
	Provider    string         `json:"provider"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Current     CurrentOutlook `json:"current"`
	Days        []DayOutlook   `json:"days"`
}

// CurrentOutlook is the recommendation for right now.
type CurrentOutlook struct {
	Weather forecast.HourlyRecord `json:"weather"`
	Tier    Tier                  `json:"tier"`
	Alerts  []string              `json:"alerts"`
}

// DayOutlook is one calendar day of the forecast horizon.
type DayOutlook struct {
	Date         string         `json:"date"`
	Label        string         `json:"label"`
	WeatherEmoji string         `json:"weatherEmoji"`
	MinApparent  *int           `json:"minApparent,omitempty"`
	MaxApparent  *int           `json:"maxApparent,omitempty"`
	Blocks       []BlockOutlook `json:"blocks"`
	Summary      []string       `json:"summary"`
}

// Config wires runtime settings for the outfit domain.
type Config struct {
	// DefaultServiceKey is used for keyed providers when the request does not
	// reference a stored credential.
	DefaultServiceKey string
	FallbackLocation  string
}
