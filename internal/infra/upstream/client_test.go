package upstream

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "outfitcast-test", r.Header.Get("User-Agent"))
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := newTestClient(2)
	header := http.Header{}
	header.Set("User-Agent", "outfitcast-test")

	body, err := client.Get(context.Background(), srv.URL, header)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(body))
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(3).Get(context.Background(), srv.URL, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, errUnexpected)
	require.Contains(t, err.Error(), "bad key")
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClientClientErrorsKeepCircuitClosed(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":true,"reason":"bad latitude"}`))
	}))
	defer srv.Close()

	client := newTestClient(0)
	for i := 0; i < 10; i++ {
		_, err := client.Get(context.Background(), srv.URL, nil)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, http.StatusBadRequest, statusErr.Code)
		require.JSONEq(t, `{"error":true,"reason":"bad latitude"}`, string(statusErr.Body))
		require.NotErrorIs(t, err, errCircuitOpen)
	}
	require.Equal(t, int32(10), atomic.LoadInt32(&calls))
}

func TestClientServerErrorsOpenCircuit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(0)
	var err error
	for i := 0; i < 10; i++ {
		_, err = client.Get(context.Background(), srv.URL, nil)
	}
	require.ErrorIs(t, err, errCircuitOpen)
	require.Less(t, atomic.LoadInt32(&calls), int32(10))
}

func TestClientGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(1).Get(context.Background(), srv.URL, nil)
	require.ErrorIs(t, err, errRateLimited)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClientRejectsInvalidBackoff(t *testing.T) {
	client := NewClient("test", time.Second, BackoffConfig{MaxRetries: 1}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := client.Get(context.Background(), "http://127.0.0.1:1", nil)
	require.ErrorIs(t, err, errInvalidConfig)
}

func newTestClient(retries int) *Client {
	return NewClient("test", time.Second, BackoffConfig{
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
