package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedCall struct {
	service, endpoint string
	status            int
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *recordingObserver) ObserveUpstreamCall(service, endpoint string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{service, endpoint, status})
}

func TestClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/things", r.URL.Path)
		assert.Equal(t, "a,b", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.Header.Get("X-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer server.Close()

	observer := &recordingObserver{}
	client := New(Config{Service: "test", BaseURL: server.URL + "/", Headers: map[string]string{"X-Key": "secret"}}, observer, zap.NewNop())

	var out struct {
		Name string `json:"name"`
	}
	err := client.GetJSON(context.Background(), "things", "/things", url.Values{"q": {"a,b"}}, &out)

	require.NoError(t, err)
	assert.Equal(t, "ok", out.Name)
	require.Len(t, observer.calls, 1)
	assert.Equal(t, recordedCall{"test", "things", http.StatusOK}, observer.calls[0])
}

func TestClient_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := New(Config{Service: "spoonacular", BaseURL: server.URL}, nil, zap.NewNop())
	err := client.GetJSON(context.Background(), "search", "/", nil, &struct{}{})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusPaymentRequired, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "quota exhausted")
	assert.Equal(t, "spoonacular search: unexpected status 402", statusErr.Error())
}

func TestClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":`))
	}))
	defer server.Close()

	client := New(Config{Service: "test", BaseURL: server.URL}, nil, zap.NewNop())
	err := client.GetJSON(context.Background(), "things", "/", nil, &struct{ Name string }{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(Config{Service: "test", BaseURL: server.URL}, nil, zap.NewNop())
	assert.NoError(t, client.PostJSON(context.Background(), "post", "/", nil, map[string]string{"a": "b"}, nil))
}

func TestClient_TransportErrorObservedWithZeroStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	observer := &recordingObserver{}
	client := New(Config{Service: "test", BaseURL: server.URL}, observer, zap.NewNop())
	err := client.GetJSON(context.Background(), "things", "/", nil, nil)

	require.Error(t, err)
	require.Len(t, observer.calls, 1)
	assert.Equal(t, 0, observer.calls[0].status)
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(Config{Service: "test", BaseURL: server.URL, RequestsPerSecond: 0.001, Burst: 1}, nil, zap.NewNop())
	require.NoError(t, client.GetJSON(context.Background(), "first", "/", nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := client.GetJSON(ctx, "second", "/", nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
