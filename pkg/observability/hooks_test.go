package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEngineHooks{}
	e.OnRunStart(ctx, "textures", "ios", 3)
	e.OnNodeRevisit(ctx, "id-1", "Load", "delta")
	e.OnNodeComplete(ctx, "id-1", "Loader", "cached", time.Millisecond, nil)
	e.OnRunComplete(ctx, "textures", "ios", 1, 0, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "outputs")
	c.OnCacheMiss(ctx, "snapshot")
	c.OnCacheSet(ctx, "outputs", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}

	Reset()
}

func TestLogEngineHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogEngineHooks(logger)

	h.OnNodeRevisit(context.Background(), "id-1", "Load", "delta")
	h.OnNodeComplete(context.Background(), "id-1", "Loader", "failed", time.Millisecond, errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"revisit", "Load", "delta", "failed", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogCacheHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogCacheHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	h.OnCacheMiss(context.Background(), "snapshot")
	h.OnCacheSet(context.Background(), "outputs", 42)

	out := buf.String()
	for _, want := range []string{"cache miss", "snapshot", "cache set", "42"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

// Test implementations
type testEngineHooks struct{ NoopEngineHooks }
type testCacheHooks struct{ NoopCacheHooks }
