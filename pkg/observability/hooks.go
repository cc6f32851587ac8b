// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; binaries decide what
// backs them. `folio serve` installs Prometheus-backed hooks, the CLI leaves
// the no-op defaults in place.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetHTTPHooks(promHooks)
//	observability.SetSimulatorHooks(promHooks)
//
// Libraries call hooks to emit events:
//
//	observability.HTTP().OnRequest(ctx, "GET", host, path)
//	observability.Simulator().OnEvent(view, string(ev.Severity))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Simulator Hooks
// =============================================================================

// SimulatorHooks receives lifecycle and generation events from siem simulators.
type SimulatorHooks interface {
	OnActivate(view string)
	OnDeactivate(view string)
	OnEvent(view, severity string)
}

// =============================================================================
// Loader Hooks
// =============================================================================

// LoaderHooks receives results of project list loads.
type LoaderHooks interface {
	// OnLoad records a completed load. degraded is true when the repository
	// listing failed and curated projects were returned without enrichment.
	OnLoad(ctx context.Context, username string, projects int, degraded bool, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, namespace string)
	OnCacheMiss(ctx context.Context, namespace string)
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSimulatorHooks is a no-op implementation of SimulatorHooks.
type NoopSimulatorHooks struct{}

func (NoopSimulatorHooks) OnActivate(string)      {}
func (NoopSimulatorHooks) OnDeactivate(string)    {}
func (NoopSimulatorHooks) OnEvent(string, string) {}

// NoopLoaderHooks is a no-op implementation of LoaderHooks.
type NoopLoaderHooks struct{}

func (NoopLoaderHooks) OnLoad(context.Context, string, int, bool, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	simulatorHooks SimulatorHooks = NoopSimulatorHooks{}
	loaderHooks    LoaderHooks    = NoopLoaderHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetSimulatorHooks registers custom simulator hooks. Nil is ignored.
func SetSimulatorHooks(h SimulatorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulatorHooks = h
	}
}

// SetLoaderHooks registers custom loader hooks. Nil is ignored.
func SetLoaderHooks(h LoaderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		loaderHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Simulator returns the registered simulator hooks.
func Simulator() SimulatorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulatorHooks
}

// Loader returns the registered loader hooks.
func Loader() LoaderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return loaderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	simulatorHooks = NoopSimulatorHooks{}
	loaderHooks = NoopLoaderHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
