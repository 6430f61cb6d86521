package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/saviobatista/launch-tracker/internal/cache"
	"github.com/saviobatista/launch-tracker/internal/types"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestClient_Get(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/v4/rockets" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Expected JSON accept header, got %q", r.Header.Get("Accept"))
		}
		_, _ = w.Write([]byte(`[{"id":"r1"}]`))
	})

	client := New(Config{BaseURL: server.URL + "/v4", Timeout: time.Second})
	defer client.Close()

	body, err := client.Get(context.Background(), "/rockets")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(body) != `[{"id":"r1"}]` {
		t.Errorf("Unexpected body %s", body)
	}

	s := client.Stats().GetStats()
	if s["total_requests"].(uint64) != 1 {
		t.Errorf("Expected 1 request, got %v", s["total_requests"])
	}
	if s["bytes_received"].(uint64) != uint64(len(body)) {
		t.Errorf("Expected %d bytes received, got %v", len(body), s["bytes_received"])
	}
}

func TestClient_Post(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		data, _ := io.ReadAll(r.Body)
		var payload map[string]any
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Errorf("Body is not JSON: %v", err)
		}
		if _, ok := payload["query"]; !ok {
			t.Errorf("Expected query key in %s", data)
		}
		_, _ = w.Write([]byte(`{"docs":[]}`))
	})

	client := New(Config{BaseURL: server.URL, Timeout: time.Second})
	body, err := client.Post(context.Background(), "/launches/query", map[string]any{"query": map[string]any{}})
	if err != nil {
		t.Fatalf("Post() failed: %v", err)
	}
	if string(body) != `{"docs":[]}` {
		t.Errorf("Unexpected body %s", body)
	}
}

func TestClient_Post_UnmarshalablePayload(t *testing.T) {
	client := New(Config{BaseURL: "http://127.0.0.1:0", Timeout: time.Second})
	_, err := client.Post(context.Background(), "/launches/query", map[string]any{"bad": make(chan int)})
	if err == nil || !strings.Contains(err.Error(), "failed to marshal request body") {
		t.Fatalf("Expected marshal error, got %v", err)
	}
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantNotFound bool
	}{
		{name: "not found", status: http.StatusNotFound, wantNotFound: true},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "rate limited", status: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			})
			client := New(Config{BaseURL: server.URL, Timeout: time.Second})

			body, err := client.Get(context.Background(), "/launches/missing")
			if err == nil {
				t.Fatal("Expected an error")
			}
			if body != nil {
				t.Errorf("Expected nil body on error, got %s", body)
			}

			var terr *Error
			if !errors.As(err, &terr) {
				t.Fatalf("Expected *Error, got %T", err)
			}
			if terr.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, terr.StatusCode)
			}
			if terr.Method != http.MethodGet || terr.Path != "/launches/missing" {
				t.Errorf("Unexpected request info %s %s", terr.Method, terr.Path)
			}
			if IsNotFound(err) != tt.wantNotFound {
				t.Errorf("IsNotFound() = %v, want %v", IsNotFound(err), tt.wantNotFound)
			}
			if client.Stats().FailedRequests != 1 {
				t.Errorf("Expected 1 failed request, got %d", client.Stats().FailedRequests)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(Config{BaseURL: url, Timeout: time.Second})
	_, err := client.Get(context.Background(), "/rockets")

	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("Expected *Error, got %T (%v)", err, err)
	}
	if terr.StatusCode != 0 {
		t.Errorf("Expected zero status for network error, got %d", terr.StatusCode)
	}
	if terr.Unwrap() == nil {
		t.Error("Expected underlying cause")
	}
	if IsNotFound(err) {
		t.Error("Network error must not be reported as not found")
	}
}

func TestClient_Timeout(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("{}"))
	})

	client := New(Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	_, err := client.Get(context.Background(), "/rockets")

	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("Expected *Error on timeout, got %T (%v)", err, err)
	}
	if terr.StatusCode != 0 {
		t.Errorf("Expected zero status on timeout, got %d", terr.StatusCode)
	}
}

func TestClient_GetUsesCache(t *testing.T) {
	var hits int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"id":"pad"}`))
	})

	client := New(Config{BaseURL: server.URL, Timeout: time.Second, CacheTTL: time.Minute}, WithCache(cache.NewMemory()))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		body, err := client.Get(ctx, "/launchpads/pad")
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if string(body) != `{"id":"pad"}` {
			t.Errorf("Unexpected body %s", body)
		}
	}

	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("Expected a single upstream request, got %d", hits)
	}
	if client.Stats().CacheHits != 2 || client.Stats().CacheMisses != 1 {
		t.Errorf("Expected 2 hits / 1 miss, got %d / %d", client.Stats().CacheHits, client.Stats().CacheMisses)
	}
}

func TestClient_ErrorsAreNotCached(t *testing.T) {
	var hits int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	client := New(Config{BaseURL: server.URL, Timeout: time.Second, CacheTTL: time.Minute}, WithCache(cache.NewMemory()))
	ctx := context.Background()

	if _, err := client.Get(ctx, "/rockets"); err == nil {
		t.Fatal("Expected first request to fail")
	}
	body, err := client.Get(ctx, "/rockets")
	if err != nil {
		t.Fatalf("Second Get() failed: %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("Unexpected body %s", body)
	}
}

type failingCache struct{}

func (failingCache) GetResponse(ctx context.Context, path string) (*types.CachedResponse, error) {
	return nil, errors.New("cache down")
}

func (failingCache) StoreResponse(ctx context.Context, resp *types.CachedResponse, ttl time.Duration) error {
	return errors.New("cache down")
}

func (failingCache) Close() error { return nil }

func TestClient_CacheFailuresAreIgnored(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	client := New(Config{BaseURL: server.URL, Timeout: time.Second}, WithCache(failingCache{}))
	body, err := client.Get(context.Background(), "/launchpads")
	if err != nil {
		t.Fatalf("Get() should succeed when the cache fails: %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("Unexpected body %s", body)
	}
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	client := New(Config{BaseURL: server.URL, Timeout: time.Second, RateLimit: 0.001, RateBurst: 1})

	if _, err := client.Get(context.Background(), "/rockets/a"); err != nil {
		t.Fatalf("First request should use the burst token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "/rockets/b")
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("Expected *Error when the limiter cannot wait, got %T (%v)", err, err)
	}
}

func TestError_Messages(t *testing.T) {
	statusErr := &Error{Method: "GET", Path: "/rockets/x", StatusCode: 404}
	if got := statusErr.Error(); got != "GET /rockets/x: unexpected status 404 Not Found" {
		t.Errorf("Unexpected message %q", got)
	}

	netErr := &Error{Method: "POST", Path: "/launches/query", Err: errors.New("connection refused")}
	if got := netErr.Error(); got != "POST /launches/query: connection refused" {
		t.Errorf("Unexpected message %q", got)
	}
}
