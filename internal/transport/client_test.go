package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"upi-balance-go/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string, tokens TokenSource, opts ...Option) *Client {
	t.Helper()
	client, err := NewClient(models.ClientConfig{
		BaseURL:        serverURL,
		RequestTimeout: 2 * time.Second,
	}, tokens, opts...)
	require.NoError(t, err)
	return client
}

func TestDoAttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"balance": 10}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, StaticToken("abc123"))

	var out struct {
		Balance int `json:"balance"`
	}
	require.NoError(t, client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance"}, &out))
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, 10, out.Balance)
}

func TestDoReadsTokenOnEveryCall(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	current := "first"
	client := newTestClient(t, server.URL, TokenFunc(func(context.Context) (string, error) {
		return current, nil
	}))

	require.NoError(t, client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance"}, nil))
	current = "second"
	require.NoError(t, client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance"}, nil))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Bearer first", "Bearer second"}, seen)
}

func TestDoEnvTokenObservesLogout(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	t.Setenv("TEST_BALANCE_TOKEN", "logged-in")
	client := newTestClient(t, server.URL, EnvToken("TEST_BALANCE_TOKEN"))
	require.NoError(t, client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance"}, nil))

	t.Setenv("TEST_BALANCE_TOKEN", "")
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance"}, nil)
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestDoContextCredentialOverridesSource(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, StaticToken("from-source"))
	ctx := models.WithCredential(context.Background(), "from-context")

	require.NoError(t, client.Do(ctx, Request{Method: http.MethodGet, Path: "/balance"}, nil))
	assert.Equal(t, "Bearer from-context", gotAuth)
}

func TestDoMissingTokenFailsBeforeNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	tests := []struct {
		name   string
		tokens TokenSource
	}{
		{"nil source", nil},
		{"empty token", StaticToken("")},
		{"whitespace token", StaticToken("   ")},
		{"source error", TokenFunc(func(context.Context) (string, error) { return "", errors.New("store locked") })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, server.URL, tt.tokens)
			err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance"}, nil)

			var authErr *AuthRequiredError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, 0, authErr.Status)
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestDoAnonymousSkipsCredential(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	require.NoError(t, client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/health", Anonymous: true}, nil))
	assert.Empty(t, gotAuth)
}

func TestDoNormalizesErrorBodies(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"message field", http.StatusBadRequest, `{"message":"Insufficient balance"}`, "Insufficient balance"},
		{"error field", http.StatusBadRequest, `{"error":"Invalid amount"}`, "Invalid amount"},
		{"message wins over error", http.StatusConflict, `{"message":"first","error":"second"}`, "first"},
		{"nested error object", http.StatusUnprocessableEntity, `{"error":{"message":"nested reason"}}`, "nested reason"},
		{"empty body", http.StatusInternalServerError, ``, GenericErrorMessage},
		{"non json body", http.StatusBadGateway, `<html>bad gateway</html>`, GenericErrorMessage},
		{"blank message", http.StatusInternalServerError, `{"message":"  "}`, GenericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, StaticToken("tok"))
			err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance"}, nil)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.False(t, IsRetryable(err))
		})
	}
}

func TestDoUnauthorizedReturnsAuthRequiredOnce(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid or expired token"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, StaticToken("expired"))
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance"}, nil)

	var authErr *AuthRequiredError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
	assert.Equal(t, "Invalid or expired token", authErr.Message)
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestDoNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(t, url, StaticToken("tok"))
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance"}, nil)

	var networkErr *NetworkError
	require.ErrorAs(t, err, &networkErr)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, GenericErrorMessage, UserMessage(err))
}

func TestDoTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(t, server.URL, StaticToken("tok"))
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance", Timeout: 50 * time.Millisecond}, nil)

	var networkErr *NetworkError
	require.ErrorAs(t, err, &networkErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoCallerCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, StaticToken("tok"))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	err := client.Do(ctx, Request{Method: http.MethodGet, Path: "/balance"}, nil)

	var cancelledErr *CancelledError
	require.ErrorAs(t, err, &cancelledErr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, IsCancelled(err))
	assert.False(t, IsRetryable(err))
}

func TestDoAlreadyCancelledContextSendsNothing(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, StaticToken("tok"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Do(ctx, Request{Method: http.MethodGet, Path: "/balance"}, nil)
	assert.True(t, IsCancelled(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestDoUnwrapsDataEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"balance":"42.50","userId":"u1"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, StaticToken("tok"))

	var balance models.Balance
	require.NoError(t, client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance"}, &balance))
	assert.Equal(t, "u1", balance.UserId)
	assert.Equal(t, "42.5", balance.Balance.String())
}

func TestDoMalformedSuccessBodyIsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"balance": "not a number"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, StaticToken("tok"))

	var balance models.Balance
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance"}, &balance)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
}

func TestDoRecordsMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/balance/withdraw" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	metrics := NewMetrics(prometheus.NewRegistry())
	client := newTestClient(t, server.URL, StaticToken("tok"), WithMetrics(metrics))

	require.NoError(t, client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/balance"}, nil))
	require.Error(t, client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/balance/withdraw", Body: map[string]int{"amount": 1}}, nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "/balance", outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodPost, "/balance/withdraw", outcomeAPIError)))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ValidationError{Field: "amount", Message: "Please enter a valid amount"}, "Please enter a valid amount"},
		{&AuthRequiredError{}, AuthRequiredMessage},
		{&APIError{Status: 400, Message: "Insufficient balance"}, "Insufficient balance"},
		{&NetworkError{Op: "GET /balance", Err: errors.New("dial tcp")}, GenericErrorMessage},
		{&CancelledError{Op: "GET /balance", Err: context.Canceled}, CancelledMessage},
		{errors.New("anything else"), GenericErrorMessage},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
	assert.Equal(t, "", UserMessage(nil))
}

func TestUnwrapData(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"object envelope", `{"data": {"id": "t9"}}`, `{"id": "t9"}`},
		{"array envelope", `{"data": [1, 2]}`, `[1, 2]`},
		{"no envelope", `{"id": "t9"}`, `{"id": "t9"}`},
		{"scalar data is left alone", `{"data": "x"}`, `{"data": "x"}`},
		{"not json", `oops`, `oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(UnwrapData([]byte(tt.body))))
		})
	}
}
