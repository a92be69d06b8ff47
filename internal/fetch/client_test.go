package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pagelens/pagelens/internal/model"
)

// proxyStub simulates the scraping proxy. It records every request and
// answers based on the render parameter.
type proxyStub struct {
	mu       sync.Mutex
	requests []*http.Request

	enhancedStatus int
	enhancedBody   string
	basicStatus    int
	basicBody      string
}

func (p *proxyStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.requests = append(p.requests, r)
		p.mu.Unlock()

		if r.URL.Query().Get("render") == "true" {
			w.WriteHeader(p.enhancedStatus)
			_, _ = w.Write([]byte(p.enhancedBody))
			return
		}
		w.WriteHeader(p.basicStatus)
		_, _ = w.Write([]byte(p.basicBody))
	}
}

func (p *proxyStub) requestCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// TestClient_Fetch_Enhanced tests the happy path through the enhanced tier.
func TestClient_Fetch_Enhanced(t *testing.T) {
	t.Parallel()

	stub := &proxyStub{
		enhancedStatus: http.StatusOK,
		enhancedBody:   "<html><body>rendered</body></html>",
	}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	result, err := client.Fetch(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if result.UsedFallback {
		t.Error("expected enhanced tier, got fallback")
	}
	if result.HTML != "<html><body>rendered</body></html>" {
		t.Errorf("unexpected HTML: %q", result.HTML)
	}
	if stub.requestCount() != 1 {
		t.Errorf("expected 1 upstream request, got %d", stub.requestCount())
	}

	// Enhanced mode carries the render hints.
	q := stub.requests[0].URL.Query()
	if q.Get("api_key") != "test-key" {
		t.Errorf("api_key = %q", q.Get("api_key"))
	}
	if q.Get("url") != "https://example.com" {
		t.Errorf("url = %q", q.Get("url"))
	}
	if q.Get("country_code") != DefaultCountryCode || q.Get("device_type") != DefaultDeviceType {
		t.Errorf("missing geo hints: %v", q)
	}
}

// TestClient_Fetch_FallbackOnClientError tests the enhanced-to-basic
// fallback on a 4xx upstream status.
func TestClient_Fetch_FallbackOnClientError(t *testing.T) {
	t.Parallel()

	stub := &proxyStub{
		enhancedStatus: http.StatusUnprocessableEntity,
		enhancedBody:   "render failed",
		basicStatus:    http.StatusOK,
		basicBody:      "<html>basic</html>",
	}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	result, err := client.Fetch(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !result.UsedFallback {
		t.Error("expected fallback to be recorded")
	}
	if result.HTML != "<html>basic</html>" {
		t.Errorf("unexpected HTML: %q", result.HTML)
	}
	if stub.requestCount() != 2 {
		t.Errorf("expected 2 upstream requests, got %d", stub.requestCount())
	}
}

// TestClient_Fetch_NoFallbackOnServerError tests that a 5xx from the
// proxy surfaces immediately as an UpstreamError.
func TestClient_Fetch_NoFallbackOnServerError(t *testing.T) {
	t.Parallel()

	stub := &proxyStub{
		enhancedStatus: http.StatusBadGateway,
		enhancedBody:   "proxy down",
	}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	_, err := client.Fetch(context.Background(), "https://example.com")
	if err == nil {
		t.Fatal("expected error")
	}

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *UpstreamError, got %T: %v", err, err)
	}
	if upstream.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", upstream.StatusCode)
	}
	if stub.requestCount() != 1 {
		t.Errorf("expected no fallback attempt, got %d requests", stub.requestCount())
	}
}

// TestClient_Fetch_InvalidURL tests URL validation.
func TestClient_Fetch_InvalidURL(t *testing.T) {
	t.Parallel()

	client := NewClient("https://proxy.invalid", "test-key")

	tests := []struct {
		name   string
		target string
	}{
		{name: "missing scheme", target: "example.com"},
		{name: "unsupported scheme", target: "ftp://example.com"},
		{name: "missing host", target: "https://"},
		{name: "garbage", target: "::::"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := client.Fetch(context.Background(), tt.target)
			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("Fetch(%q) error = %v, want ErrInvalidURL", tt.target, err)
			}
		})
	}
}

// TestClient_Fetch_EmptyContent tests that an empty body is rejected.
func TestClient_Fetch_EmptyContent(t *testing.T) {
	t.Parallel()

	stub := &proxyStub{
		enhancedStatus: http.StatusOK,
		enhancedBody:   "",
	}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	_, err := client.Fetch(context.Background(), "https://example.com")
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Fetch() error = %v, want ErrEmptyContent", err)
	}
}

// TestClient_Fetch_Timeout tests that a slow proxy yields a TimeoutError.
func TestClient_Fetch_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte("too late"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key",
		WithTimeouts(50*time.Millisecond, 50*time.Millisecond),
	)

	_, err := client.Fetch(context.Background(), "https://example.com")
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Errorf("expected *TimeoutError, got %T: %v", err, err)
	}
}

// TestClient_Fetch_SkipEnhanced tests the per-site basic-only mode.
func TestClient_Fetch_SkipEnhanced(t *testing.T) {
	t.Parallel()

	stub := &proxyStub{
		basicStatus: http.StatusOK,
		basicBody:   "<html>static</html>",
	}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := NewClient(server.URL, "test-key", WithSkipEnhanced())

	result, err := client.Fetch(context.Background(), "https://static.example.com")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !result.UsedFallback {
		t.Error("expected basic tier to be recorded as fallback")
	}
	if stub.requestCount() != 1 {
		t.Fatalf("expected 1 upstream request, got %d", stub.requestCount())
	}
	if stub.requests[0].URL.Query().Get("render") == "true" {
		t.Error("expected no render parameter in basic mode")
	}
}

// memoryCache is a map-backed Cache for tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*model.FetchResult
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*model.FetchResult)}
}

func (c *memoryCache) Get(_ context.Context, url string) (*model.FetchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[url]
	return result, ok
}

func (c *memoryCache) Put(_ context.Context, url string, result *model.FetchResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = result
	c.puts++
	return nil
}

// TestClient_Fetch_Cache tests the read-through cache path.
func TestClient_Fetch_Cache(t *testing.T) {
	t.Parallel()

	stub := &proxyStub{
		enhancedStatus: http.StatusOK,
		enhancedBody:   "<html>fresh</html>",
	}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	cache := newMemoryCache()
	client := NewClient(server.URL, "test-key", WithCache(cache))

	// First fetch goes upstream and populates the cache.
	first, err := client.Fetch(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if cache.puts != 1 {
		t.Errorf("expected 1 cache store, got %d", cache.puts)
	}

	// Second fetch is served from the cache without an upstream call.
	second, err := client.Fetch(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if stub.requestCount() != 1 {
		t.Errorf("expected 1 upstream request total, got %d", stub.requestCount())
	}
	if second.HTML != first.HTML {
		t.Errorf("cached HTML differs: %q vs %q", second.HTML, first.HTML)
	}
}

// TestRetryable tests the fallback decision for upstream statuses.
func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "400 triggers fallback",
			err:  &UpstreamError{StatusCode: 400},
			want: true,
		},
		{
			name: "429 triggers fallback",
			err:  &UpstreamError{StatusCode: 429},
			want: true,
		},
		{
			name: "500 does not trigger fallback",
			err:  &UpstreamError{StatusCode: 500},
			want: false,
		},
		{
			name: "transport error triggers fallback",
			err:  errors.New("connection reset"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := retryable(tt.err); got != tt.want {
				t.Errorf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
