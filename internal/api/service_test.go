package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records how many requests it served
type fakeBackend struct {
	*httptest.Server
	hits atomic.Int32
}

func newFakeBackend(t *testing.T, handler http.HandlerFunc) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(fb.Close)
	return fb
}

func newTestBalanceClient(t *testing.T, baseURL string) *BalanceClient {
	t.Helper()
	httpClient, err := transport.NewClient(models.ClientConfig{
		BaseURL:        baseURL,
		RequestTimeout: 2 * time.Second,
	}, transport.StaticToken("worker-token"))
	require.NoError(t, err)
	return NewBalanceClient(httpClient, 30*time.Second)
}

func TestHealthCheckIsAnonymous(t *testing.T) {
	var gotAuth string
	backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status":"ok"}`))
	})

	httpClient, err := transport.NewClient(models.ClientConfig{BaseURL: backend.URL}, nil)
	require.NoError(t, err)
	client := NewBalanceClient(httpClient, 30*time.Second)

	require.NoError(t, client.HealthCheck(context.Background()))
	assert.Empty(t, gotAuth)
}

func TestHealthCheckFailure(t *testing.T) {
	backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := newTestBalanceClient(t, backend.URL).HealthCheck(context.Background())
	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
}
