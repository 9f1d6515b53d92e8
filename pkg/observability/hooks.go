// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about measurement probes, placement
// computations, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, plain logs, ...)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetMeasureHooks(&myMeasureHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Measure().OnProbeStart(ctx, targetID)
//	// ... probe the host environment ...
//	observability.Measure().OnProbeComplete(ctx, targetID, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Measure Hooks
// =============================================================================

// MeasureHooks receives events from measurement acquisition.
type MeasureHooks interface {
	// OnProbeStart records the start of an element lookup round.
	OnProbeStart(ctx context.Context, targetID string)

	// OnProbeComplete records a finished lookup round. phase is the reached
	// acquisition phase name ("empty", "have-reference", "have-size").
	OnProbeComplete(ctx context.Context, targetID, phase string, duration time.Duration, err error)

	// OnResize records a viewport resize notification triggering a re-measure.
	OnResize(ctx context.Context, targetID string)
}

// =============================================================================
// Place Hooks
// =============================================================================

// PlaceHooks receives events from the placement engine's callers.
type PlaceHooks interface {
	// OnPlace records a computed placement.
	OnPlace(ctx context.Context, variant, side string, visible bool)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopMeasureHooks is a no-op implementation of MeasureHooks.
type NoopMeasureHooks struct{}

func (NoopMeasureHooks) OnProbeStart(context.Context, string)                                 {}
func (NoopMeasureHooks) OnProbeComplete(context.Context, string, string, time.Duration, error) {}
func (NoopMeasureHooks) OnResize(context.Context, string)                                     {}

// NoopPlaceHooks is a no-op implementation of PlaceHooks.
type NoopPlaceHooks struct{}

func (NoopPlaceHooks) OnPlace(context.Context, string, string, bool) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	measureHooks MeasureHooks = NoopMeasureHooks{}
	placeHooks   PlaceHooks   = NoopPlaceHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetMeasureHooks registers custom measurement hooks.
// This should be called once at application startup before any measurements.
func SetMeasureHooks(h MeasureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		measureHooks = h
	}
}

// SetPlaceHooks registers custom placement hooks.
// This should be called once at application startup.
func SetPlaceHooks(h PlaceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		placeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Measure returns the registered measurement hooks.
func Measure() MeasureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return measureHooks
}

// Place returns the registered placement hooks.
func Place() PlaceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return placeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	measureHooks = NoopMeasureHooks{}
	placeHooks = NoopPlaceHooks{}
	cacheHooks = NoopCacheHooks{}
}
