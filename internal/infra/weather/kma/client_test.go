package kma

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfitcast/internal/domain/forecast"
	"github.com/yanqian/outfitcast/internal/infra/upstream"
)

func TestBaseDateTime(t *testing.T) {
	cases := []struct {
		now      time.Time
		wantDate string
		wantTime string
	}{
		{now: time.Date(2024, 1, 15, 15, 20, 0, 0, KST), wantDate: "20240115", wantTime: "1400"},
		{now: time.Date(2024, 1, 15, 14, 5, 0, 0, KST), wantDate: "20240115", wantTime: "1100"},
		{now: time.Date(2024, 1, 15, 14, 10, 0, 0, KST), wantDate: "20240115", wantTime: "1400"},
		{now: time.Date(2024, 1, 15, 2, 5, 0, 0, KST), wantDate: "20240114", wantTime: "2300"},
		{now: time.Date(2024, 1, 14, 23, 30, 0, 0, time.UTC), wantDate: "20240115", wantTime: "0800"},
	}

	for _, tc := range cases {
		gotDate, gotTime := BaseDateTime(tc.now)
		require.Equal(t, tc.wantDate, gotDate, tc.now.String())
		require.Equal(t, tc.wantTime, gotTime, tc.now.String())
	}
}

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "secret-key", q.Get("serviceKey"))
		require.Equal(t, "JSON", q.Get("dataType"))
		require.Equal(t, "1000", q.Get("numOfRows"))
		require.Equal(t, "20240115", q.Get("base_date"))
		require.Equal(t, "1400", q.Get("base_time"))
		require.Equal(t, "60", q.Get("nx"))
		require.Equal(t, "127", q.Get("ny"))
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, newUpstream())
	require.Equal(t, "kma", client.Name())
	require.True(t, client.RequiresKey())

	fc, err := client.Fetch(context.Background(), forecast.Query{
		Lat:        37.5665,
		Lon:        126.978,
		Now:        time.Date(2024, 1, 15, 15, 20, 0, 0, KST),
		ServiceKey: " secret-key ",
	})
	require.NoError(t, err)
	require.Len(t, fc.Hourly, 3)
}

func TestClientFetchGatewayRejection(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusUnauthorized} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/xml;charset=UTF-8")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(gatewayPayload))
		}))

		_, err := NewClient(srv.URL, newUpstream()).Fetch(context.Background(), forecast.Query{
			Lat:        37.5665,
			Lon:        126.978,
			Now:        time.Date(2024, 1, 15, 15, 20, 0, 0, KST),
			ServiceKey: "unregistered",
		})
		srv.Close()

		var providerErr *forecast.ProviderError
		require.True(t, errors.As(err, &providerErr), "status %d", status)
		require.Equal(t, "30", providerErr.Code)
	}
}

func TestClientFetchRequiresKey(t *testing.T) {
	_, err := NewClient("", newUpstream()).Fetch(context.Background(), forecast.Query{Now: time.Now()})
	var providerErr *forecast.ProviderError
	require.True(t, errors.As(err, &providerErr))
	require.Equal(t, "11", providerErr.Code)
}

func newUpstream() *upstream.Client {
	return upstream.NewClient("kma", time.Second, upstream.BackoffConfig{
		InitialInterval: time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
