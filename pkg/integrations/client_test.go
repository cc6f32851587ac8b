package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/josz009/folio/pkg/cache"
	"github.com/josz009/folio/pkg/httputil"
)

type payload struct {
	Message string `json:"message"`
}

func newTestClient(t *testing.T, c cache.Cache, srv *httptest.Server) *Client {
	t.Helper()
	client := NewClient(Options{
		Cache:     c,
		Namespace: "test",
		TTL:       time.Hour,
		Headers:   map[string]string{"X-Default": "default"},
	})
	client.SetHTTPClient(srv.Client())
	return client
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Options{})
	if client.http == nil {
		t.Error("http client is nil")
	}
	if _, ok := client.cache.(cache.NullCache); !ok {
		t.Errorf("nil cache should default to NullCache, got %T", client.cache)
	}
	if client.http.Timeout != 0 {
		t.Errorf("default timeout = %v, want none", client.http.Timeout)
	}
}

func TestNewClientTimeout(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{0, 0},
		{-time.Second, 0},
		{5 * time.Second, 5 * time.Second},
	}
	for _, tt := range tests {
		if got := NewClient(Options{Timeout: tt.in}).http.Timeout; got != tt.want {
			t.Errorf("Timeout %v: client timeout = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClientGet(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		gotHeader = r.Header.Get("X-Default")
		json.NewEncoder(w).Encode(payload{Message: "hello"})
	}))
	defer srv.Close()

	client := newTestClient(t, nil, srv)
	var p payload
	if err := client.Get(context.Background(), srv.URL, &p); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if p.Message != "hello" {
		t.Errorf("message = %q, want %q", p.Message, "hello")
	}
	if gotHeader != "default" {
		t.Errorf("default header = %q, want %q", gotHeader, "default")
	}
}

func TestClientGetStatusErrors(t *testing.T) {
	tests := []struct {
		status        int
		wantNotFound  bool
		wantRetryable bool
	}{
		{http.StatusNotFound, true, false},
		{http.StatusForbidden, false, false},
		{http.StatusUnprocessableEntity, false, false},
		{http.StatusInternalServerError, false, true},
		{http.StatusBadGateway, false, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			var p payload
			err := newTestClient(t, nil, srv).Get(context.Background(), srv.URL, &p)
			if !errors.Is(err, ErrNetwork) {
				t.Fatalf("err = %v, want ErrNetwork", err)
			}
			if got := errors.Is(err, ErrNotFound); got != tt.wantNotFound {
				t.Errorf("ErrNotFound = %v, want %v", got, tt.wantNotFound)
			}
			if got := httputil.IsRetryable(err); got != tt.wantRetryable {
				t.Errorf("retryable = %v, want %v", got, tt.wantRetryable)
			}
		})
	}
}

func TestClientGetAcceptsAny2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		json.NewEncoder(w).Encode(payload{Message: "ok"})
	}))
	defer srv.Close()

	var p payload
	if err := newTestClient(t, nil, srv).Get(context.Background(), srv.URL, &p); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
}

func TestClientGetTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	client := newTestClient(t, nil, srv)
	srv.Close()

	var p payload
	err := client.Get(context.Background(), url, &p)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
	if !httputil.IsRetryable(err) {
		t.Error("transport errors should be retryable")
	}
}

func TestClientGetMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	var p payload
	if err := newTestClient(t, nil, srv).Get(context.Background(), srv.URL, &p); !errors.Is(err, ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", err)
	}
}

func TestClientCached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(payload{Message: "fresh"})
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := newTestClient(t, fc, srv)
	ctx := context.Background()

	fetch := func(p *payload) func() error {
		return func() error { return client.Get(ctx, srv.URL, p) }
	}

	var first payload
	if err := client.Cached(ctx, "k", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	var second payload
	if err := client.Cached(ctx, "k", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1 (second read from cache)", calls)
	}
	if second.Message != "fresh" {
		t.Errorf("cached message = %q, want %q", second.Message, "fresh")
	}

	var third payload
	if err := client.Cached(ctx, "k", true, &third, fetch(&third)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("refresh should bypass cache; calls = %d, want 2", calls)
	}
}

func TestClientCachedDoesNotStoreFailures(t *testing.T) {
	fc, _ := cache.NewFileCache(t.TempDir())
	client := NewClient(Options{Cache: fc, Namespace: "test"})
	ctx := context.Background()

	var p payload
	err := client.Cached(ctx, "k", false, &p, func() error { return ErrNetwork })
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
	if _, hit, _ := fc.Get(ctx, cache.Key("test", "k")); hit {
		t.Error("failed fetch must not populate the cache")
	}
}
