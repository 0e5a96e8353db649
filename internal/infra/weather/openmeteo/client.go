package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/outfitcast/internal/domain/forecast"
	"github.com/yanqian/outfitcast/internal/infra/upstream"
)

const (
	providerName   = "openmeteo"
	defaultBaseURL = "https://api.open-meteo.com/v1/forecast"
	defaultDays    = 8
)

var (
	currentFields = []string{"temperature_2m", "apparent_temperature", "weather_code", "wind_speed_10m", "relative_humidity_2m"}
	hourlyFields  = []string{"temperature_2m", "apparent_temperature", "weather_code", "wind_speed_10m"}
)

// Client fetches forecasts from Open-Meteo.
type Client struct {
	baseURL    string
	days       int
	http       *upstream.Client
	normalizer Normalizer
}

// NewClient builds an API client.
func NewClient(baseURL string, days int, http *upstream.Client) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	if days <= 0 {
		days = defaultDays
	}
	return &Client{
		baseURL: strings.TrimRight(u, "/"),
		days:    days,
		http:    http,
	}
}

// Name identifies the provider.
func (c *Client) Name() string { return providerName }

// RequiresKey reports whether callers must supply a service key.
func (c *Client) RequiresKey() bool { return false }

// Fetch retrieves and normalizes the forecast for the query coordinates.
func (c *Client) Fetch(ctx context.Context, q forecast.Query) (forecast.Forecast, error) {
	body, err := c.http.Get(ctx, c.endpoint(q.Lat, q.Lon), nil)
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		return forecast.Forecast{}, rejectionFromBody(statusErr.Code, statusErr.Body)
	}
	if err != nil {
		return forecast.Forecast{}, fmt.Errorf("open-meteo request failed: %w", err)
	}
	return c.normalizer.Normalize(body, q.Now)
}

func (c *Client) endpoint(lat, lon float64) string {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	params.Set("current", strings.Join(currentFields, ","))
	params.Set("hourly", strings.Join(hourlyFields, ","))
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(c.days))
	return c.baseURL + "?" + params.Encode()
}
