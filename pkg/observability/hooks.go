// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks keep the engine and the cache backends free of any particular
// observability backend. Consumers register implementations at startup and
// receive events about graph runs, node visits and cache operations.
//
// # Architecture
//
// Each event category has a hook interface with a no-op default and a slot
// in a global registry. Hooks are registered by main, never by libraries, so
// there are no import cycles.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(observability.NewLogEngineHooks(logger))
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnRunStart(ctx, g.Name, string(target), g.NodeCount())
//	// ... visit nodes ...
//	observability.Engine().OnRunComplete(ctx, g.Name, string(target), built, failed, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the execution engine.
type EngineHooks interface {
	// Run events
	OnRunStart(ctx context.Context, graph, target string, nodeCount int)
	OnRunComplete(ctx context.Context, graph, target string, built, failed int, duration time.Duration, err error)

	// OnNodeRevisit records that a node was marked dirty, and why.
	OnNodeRevisit(ctx context.Context, nodeID, name, reason string)

	// OnNodeComplete records the terminal status of one node visit.
	OnNodeComplete(ctx context.Context, nodeID, kind, status string, duration time.Duration, err error)
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

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnRunStart(context.Context, string, string, int) {}
func (NoopEngineHooks) OnRunComplete(context.Context, string, string, int, int, time.Duration, error) {
}
func (NoopEngineHooks) OnNodeRevisit(context.Context, string, string, string) {}
func (NoopEngineHooks) OnNodeComplete(context.Context, string, string, string, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Logging Implementation
// =============================================================================

// LogEngineHooks writes engine events to a structured logger at debug level.
type LogEngineHooks struct {
	Logger *log.Logger
}

// NewLogEngineHooks returns hooks that log through logger.
func NewLogEngineHooks(logger *log.Logger) *LogEngineHooks {
	return &LogEngineHooks{Logger: logger}
}

func (h *LogEngineHooks) OnRunStart(_ context.Context, graph, target string, nodeCount int) {
	h.Logger.Debug("run start", "graph", graph, "target", target, "nodes", nodeCount)
}

func (h *LogEngineHooks) OnRunComplete(_ context.Context, graph, target string, built, failed int, d time.Duration, err error) {
	h.Logger.Debug("run complete", "graph", graph, "target", target,
		"built", built, "failed", failed, "duration", d, "err", err)
}

func (h *LogEngineHooks) OnNodeRevisit(_ context.Context, nodeID, name, reason string) {
	h.Logger.Debug("revisit", "node", name, "id", nodeID, "reason", reason)
}

func (h *LogEngineHooks) OnNodeComplete(_ context.Context, nodeID, kind, status string, d time.Duration, err error) {
	h.Logger.Debug("node", "id", nodeID, "kind", kind, "status", status, "duration", d, "err", err)
}

// LogCacheHooks writes cache events to a structured logger at debug level.
type LogCacheHooks struct {
	Logger *log.Logger
}

// NewLogCacheHooks returns cache hooks that log through logger.
func NewLogCacheHooks(logger *log.Logger) *LogCacheHooks {
	return &LogCacheHooks{Logger: logger}
}

func (h *LogCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any run.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
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

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
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
	engineHooks = NoopEngineHooks{}
	cacheHooks = NoopCacheHooks{}
}
