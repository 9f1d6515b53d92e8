package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	m := NoopMeasureHooks{}
	m.OnProbeStart(ctx, "trigger")
	m.OnProbeComplete(ctx, "trigger", "have-size", time.Second, nil)
	m.OnResize(ctx, "trigger")

	p := NoopPlaceHooks{}
	p.OnPlace(ctx, "centered", "below", true)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "probe")
	c.OnCacheMiss(ctx, "probe")
	c.OnCacheSet(ctx, "probe", 1024)
}

type testMeasureHooks struct {
	probes  int
	resizes int
}

func (h *testMeasureHooks) OnProbeStart(context.Context, string) { h.probes++ }
func (h *testMeasureHooks) OnProbeComplete(context.Context, string, string, time.Duration, error) {
}
func (h *testMeasureHooks) OnResize(context.Context, string) { h.resizes++ }

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Measure().(NoopMeasureHooks); !ok {
		t.Error("Measure() should return NoopMeasureHooks by default")
	}
	if _, ok := Place().(NoopPlaceHooks); !ok {
		t.Error("Place() should return NoopPlaceHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	custom := &testMeasureHooks{}
	SetMeasureHooks(custom)

	Measure().OnProbeStart(context.Background(), "trigger")
	Measure().OnResize(context.Background(), "trigger")

	if custom.probes != 1 || custom.resizes != 1 {
		t.Errorf("custom hooks not invoked: probes=%d resizes=%d", custom.probes, custom.resizes)
	}

	// Nil registration keeps the current hooks.
	SetMeasureHooks(nil)
	if _, ok := Measure().(*testMeasureHooks); !ok {
		t.Error("SetMeasureHooks(nil) should keep the registered hooks")
	}
}
