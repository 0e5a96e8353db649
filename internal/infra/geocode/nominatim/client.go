package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/yanqian/outfitcast/internal/infra/upstream"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org/reverse"
	defaultUserAgent = "outfitcast/1.0"
	defaultLanguage  = "en"
	cityZoom         = 10
)

// Config tunes the reverse geocoder.
type Config struct {
	BaseURL           string
	UserAgent         string
	Language          string
	RequestsPerSecond float64
}

type reverseResponse struct {
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
	Error       string  `json:"error"`
}

type address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	County  string `json:"county"`
	State   string `json:"state"`
	Borough string `json:"borough"`
	Suburb  string `json:"suburb"`
	Village string `json:"village"`
}

// Client resolves coordinates to a short place name through Nominatim.
type Client struct {
	cfg     Config
	http    *upstream.Client
	limiter *rate.Limiter
}

// NewClient builds a reverse geocoder. Nominatim's usage policy allows one
// request per second, which is the default limit.
func NewClient(cfg Config, http *upstream.Client) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	return &Client{
		cfg:     cfg,
		http:    http,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// Resolve returns "City District", "City", or the first part of the display
// name. An empty string means Nominatim knew nothing useful about the point.
func (c *Client) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait canceled: %w", err)
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("format", "json")
	params.Set("accept-language", c.cfg.Language)
	params.Set("zoom", strconv.Itoa(cityZoom))

	header := http.Header{}
	header.Set("User-Agent", c.cfg.UserAgent)

	body, err := c.http.Get(ctx, c.cfg.BaseURL+"?"+params.Encode(), header)
	if err != nil {
		return "", fmt.Errorf("nominatim request failed: %w", err)
	}

	var resp reverseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode nominatim response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("nominatim: %s", resp.Error)
	}
	return placeName(resp), nil
}

func placeName(resp reverseResponse) string {
	a := resp.Address
	city := firstNonEmpty(a.City, a.Town, a.County, a.State)
	district := firstNonEmpty(a.Borough, a.Suburb, a.Village)
	switch {
	case city != "" && district != "":
		return city + " " + district
	case city != "":
		return city
	}
	first, _, _ := strings.Cut(resp.DisplayName, ",")
	return strings.TrimSpace(first)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
