package hovercard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/myrho/hovercard/pkg/errors"
	"github.com/myrho/hovercard/pkg/geom"
	"github.com/myrho/hovercard/pkg/measure"
	"github.com/myrho/hovercard/pkg/place"
)

// gatedProber serves canned boxes and can hold individual lookups until
// released, to simulate slow asynchronous host round-trips.
type gatedProber struct {
	mu      sync.Mutex
	boxes   map[string]measure.Probe
	gates   map[string]chan struct{}
	lookups []string
}

func newGatedProber() *gatedProber {
	return &gatedProber{
		boxes: make(map[string]measure.Probe),
		gates: make(map[string]chan struct{}),
	}
}

func (p *gatedProber) set(id string, box geom.Box) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.boxes[id] = measure.Probe{
		Element:  box,
		Viewport: geom.Box{Width: 800, Height: 600},
	}
}

func (p *gatedProber) gate(id string) chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan struct{})
	p.gates[id] = ch
	return ch
}

func (p *gatedProber) lookupCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.lookups)
}

func (p *gatedProber) Probe(ctx context.Context, id string) (measure.Probe, error) {
	p.mu.Lock()
	p.lookups = append(p.lookups, id)
	gate := p.gates[id]
	probe, ok := p.boxes[id]
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if !ok {
		return measure.Probe{}, errors.New(errors.ErrCodeElementNotFound, "no element with id %q", id)
	}
	return probe, nil
}

// newTestCard wires a card to a gated prober and an update channel.
func newTestCard(t *testing.T, prober *gatedProber, opts ...Option) (*Card, chan View) {
	t.Helper()
	updates := make(chan View, 16)
	opts = append(opts, WithOnUpdate(func(v View) { updates <- v }))
	card := New(prober, opts...)
	t.Cleanup(card.Close)
	return card, updates
}

func waitUpdate(t *testing.T, updates chan View) View {
	t.Helper()
	select {
	case v := <-updates:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for card update")
		return View{}
	}
}

func TestCardActivateMeasuresAndPlaces(t *testing.T) {
	prober := newGatedProber()
	prober.set("trigger", geom.Box{X: 100, Y: 50, Width: 50, Height: 50})
	prober.set("trigger-hovercard", geom.Box{Width: 40, Height: 60})

	card, updates := newTestCard(t, prober)
	card.Activate(context.Background(), "trigger")

	view := waitUpdate(t, updates)
	if !view.Placement.Visible {
		t.Error("card should be visible after a full measurement round")
	}
	if view.Placement.AnchorX != 125 {
		t.Errorf("AnchorX = %v, want 125", view.Placement.AnchorX)
	}
	if view.Snapshot.Phase != measure.PhaseHaveSize {
		t.Errorf("Phase = %v, want %v", view.Snapshot.Phase, measure.PhaseHaveSize)
	}
}

func TestCardHiddenUntilPanelMeasured(t *testing.T) {
	prober := newGatedProber()
	prober.set("trigger", geom.Box{X: 100, Y: 50, Width: 50, Height: 50})
	// Panel element missing: the second phase fails and is absorbed.

	hub := NewHub()
	card, updates := newTestCard(t, prober, WithNotifier(hub))
	card.Activate(context.Background(), "trigger")

	view := waitUpdate(t, updates)
	if view.Placement.Visible {
		t.Error("card must stay hidden while the panel size is unknown")
	}
	if view.Snapshot.Phase != measure.PhaseHaveReference {
		t.Errorf("Phase = %v, want %v", view.Snapshot.Phase, measure.PhaseHaveReference)
	}
	if card.Tracking() {
		t.Error("resize reactor should stay Idle before the first measured round")
	}
	if hub.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", hub.Subscribers())
	}
}

func TestCardStaleActivationDiscarded(t *testing.T) {
	prober := newGatedProber()
	prober.set("first", geom.Box{X: 10, Y: 10, Width: 10, Height: 10})
	prober.set("first-hovercard", geom.Box{Width: 30, Height: 30})
	prober.set("second", geom.Box{X: 200, Y: 200, Width: 20, Height: 20})
	prober.set("second-hovercard", geom.Box{Width: 40, Height: 40})
	gate := prober.gate("first")

	hub := NewHub()
	card, updates := newTestCard(t, prober, WithNotifier(hub))

	// First activation stalls in the host environment; the user has already
	// moved on to another trigger.
	card.Activate(context.Background(), "first")
	card.Activate(context.Background(), "second")

	view := waitUpdate(t, updates)
	if view.Snapshot.TargetID != "second" {
		t.Fatalf("TargetID = %q, want %q", view.Snapshot.TargetID, "second")
	}

	// The stalled lookup completes late; its result must be dropped.
	close(gate)
	hub.Notify()
	view = waitUpdate(t, updates)
	if view.Snapshot.TargetID != "second" {
		t.Errorf("TargetID = %q after stale arrival, want %q", view.Snapshot.TargetID, "second")
	}
	if view.Snapshot.Reference.X != 200 {
		t.Errorf("Reference.X = %v, want 200 (geometry of the second target)", view.Snapshot.Reference.X)
	}
}

func TestCardResizeTriggersOneRemeasure(t *testing.T) {
	prober := newGatedProber()
	prober.set("trigger", geom.Box{X: 100, Y: 50, Width: 50, Height: 50})
	prober.set("trigger-hovercard", geom.Box{Width: 40, Height: 60})

	hub := NewHub()
	card, updates := newTestCard(t, prober, WithNotifier(hub))
	card.Activate(context.Background(), "trigger")
	waitUpdate(t, updates)

	if !card.Tracking() {
		t.Fatal("card should be Tracking after the first measured round")
	}
	before := prober.lookupCount()

	// A reflow moved the reference; the resize round must pick that up.
	prober.set("trigger", geom.Box{X: 300, Y: 50, Width: 50, Height: 50})
	hub.Notify()

	view := waitUpdate(t, updates)
	if view.Snapshot.Reference.X != 300 {
		t.Errorf("Reference.X = %v, want 300 (full re-measure on resize)", view.Snapshot.Reference.X)
	}
	if got := prober.lookupCount() - before; got != 2 {
		t.Errorf("resize triggered %d lookups, want exactly 2 (reference + panel)", got)
	}
}

func TestCardNoDuplicateSubscriptions(t *testing.T) {
	prober := newGatedProber()
	prober.set("trigger", geom.Box{X: 100, Y: 50, Width: 50, Height: 50})
	prober.set("trigger-hovercard", geom.Box{Width: 40, Height: 60})

	hub := NewHub()
	card, updates := newTestCard(t, prober, WithNotifier(hub))
	card.Activate(context.Background(), "trigger")
	waitUpdate(t, updates)

	// Repeated measured rounds must not accumulate subscriptions.
	hub.Notify()
	waitUpdate(t, updates)
	hub.Notify()
	waitUpdate(t, updates)

	if got := hub.Subscribers(); got != 1 {
		t.Errorf("Subscribers() = %d, want 1", got)
	}
}

func TestCardDeactivate(t *testing.T) {
	prober := newGatedProber()
	prober.set("trigger", geom.Box{X: 100, Y: 50, Width: 50, Height: 50})
	prober.set("trigger-hovercard", geom.Box{Width: 40, Height: 60})

	hub := NewHub()
	card, updates := newTestCard(t, prober, WithNotifier(hub))
	card.Activate(context.Background(), "trigger")
	waitUpdate(t, updates)

	card.Deactivate()

	if card.Tracking() {
		t.Error("Deactivate should leave the Tracking state")
	}
	if hub.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0 after Deactivate", hub.Subscribers())
	}
	if v := card.View(); v.Placement.Visible {
		t.Error("deactivated card must be hidden")
	}
}

func TestCardStrategyOption(t *testing.T) {
	prober := newGatedProber()
	prober.set("trigger", geom.Box{X: 10, Y: 10, Width: 50, Height: 50})
	prober.set("trigger-hovercard", geom.Box{Width: 40, Height: 40})

	cfg := place.Config{TickLength: 16, MaxWidth: 100, MaxHeight: 100}
	card, updates := newTestCard(t, prober, WithStrategy(place.MaxBox{}), WithConfig(cfg))
	card.Activate(context.Background(), "trigger")

	view := waitUpdate(t, updates)
	if view.Placement.Edge == "" {
		t.Error("max-box strategy should report an anchor edge")
	}
}

func TestHubCancelIsIdempotent(t *testing.T) {
	hub := NewHub()
	cancel := hub.Subscribe(func() {})
	if hub.Subscribers() != 1 {
		t.Fatalf("Subscribers() = %d, want 1", hub.Subscribers())
	}
	cancel()
	cancel()
	if hub.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", hub.Subscribers())
	}
}
