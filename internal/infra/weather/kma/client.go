package kma

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/outfitcast/internal/domain/forecast"
	"github.com/yanqian/outfitcast/internal/infra/upstream"
)

const (
	defaultBaseURL = "https://apis.data.go.kr/1360000/VilageFcstInfoService_2.0/getVilageFcst"
	rowsPerPage    = 1000
	publishLag     = 10 * time.Minute
)

// issueHours are the KST hours at which the village forecast is published.
var issueHours = []int{2, 5, 8, 11, 14, 17, 20, 23}

// Client fetches the KMA short-range village forecast.
type Client struct {
	baseURL    string
	http       *upstream.Client
	normalizer Normalizer
}

// NewClient builds a KMA client.
func NewClient(baseURL string, http *upstream.Client) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	return &Client{baseURL: strings.TrimRight(u, "/"), http: http}
}

// Name identifies the provider.
func (c *Client) Name() string { return providerName }

// RequiresKey reports whether callers must supply a service key.
func (c *Client) RequiresKey() bool { return true }

// Fetch projects the coordinates onto the grid and retrieves the latest issued forecast.
func (c *Client) Fetch(ctx context.Context, q forecast.Query) (forecast.Forecast, error) {
	if strings.TrimSpace(q.ServiceKey) == "" {
		return forecast.Forecast{}, &forecast.ProviderError{Provider: providerName, Code: "11", Message: resultMessage("11")}
	}
	body, err := c.http.Get(ctx, c.endpoint(q), nil)
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) && bytes.HasPrefix(bytes.TrimSpace(statusErr.Body), []byte("<")) {
		return c.normalizer.Normalize(statusErr.Body, q.Now)
	}
	if err != nil {
		return forecast.Forecast{}, fmt.Errorf("kma request failed: %w", err)
	}
	return c.normalizer.Normalize(body, q.Now)
}

func (c *Client) endpoint(q forecast.Query) string {
	grid := Project(q.Lat, q.Lon)
	baseDate, baseTime := BaseDateTime(q.Now)

	params := url.Values{}
	params.Set("serviceKey", strings.TrimSpace(q.ServiceKey))
	params.Set("pageNo", "1")
	params.Set("numOfRows", strconv.Itoa(rowsPerPage))
	params.Set("dataType", "JSON")
	params.Set("base_date", baseDate)
	params.Set("base_time", baseTime)
	params.Set("nx", strconv.Itoa(grid.NX))
	params.Set("ny", strconv.Itoa(grid.NY))
	return c.baseURL + "?" + params.Encode()
}

// BaseDateTime selects the most recent forecast issue that is already
// published at now, returned as KMA's base_date and base_time strings.
func BaseDateTime(now time.Time) (string, string) {
	t := now.In(KST).Add(-publishLag)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, KST)

	hour := -1
	for _, h := range issueHours {
		if h <= t.Hour() {
			hour = h
		}
	}
	if hour < 0 {
		day = day.AddDate(0, 0, -1)
		hour = issueHours[len(issueHours)-1]
	}
	return day.Format("20060102"), fmt.Sprintf("%02d00", hour)
}
