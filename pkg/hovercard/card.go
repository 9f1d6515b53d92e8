// Package hovercard orchestrates measurement, placement, and re-placement
// for a single floating panel anchored to a reference element.
//
// A [Card] owns exactly one measurement/placement state. Activating a target
// replaces that state wholesale with a fresh, uniquely tagged activation and
// runs the two-phase acquisition (pkg/measure) against the injected prober.
// Results from a superseded activation are discarded when they arrive, so
// switching targets mid-flight can never resurrect stale geometry.
//
// The resize reactor is a two-state machine: Idle until the panel has been
// measured at least once, then Tracking — subscribed to viewport resize
// notifications. Every notification triggers a full re-measurement of the
// current target; there is no debouncing and no incremental adjustment.
//
// Multiple concurrent hovercards are simply independent Card instances.
package hovercard

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/myrho/hovercard/pkg/measure"
	"github.com/myrho/hovercard/pkg/observability"
	"github.com/myrho/hovercard/pkg/place"
)

// Notifier delivers viewport resize notifications. Subscribe registers fn to
// be called on every resize and returns a cancel function that removes the
// subscription.
type Notifier interface {
	Subscribe(fn func()) (cancel func())
}

// View is the renderable state of a card: the current placement plus the
// snapshot it was computed from. Placement.Visible gates rendering.
type View struct {
	Placement place.Placement
	Snapshot  measure.Snapshot
}

// Option configures a Card.
type Option func(*Card)

// WithLogger sets the logger. Absorbed lookup failures are logged at debug
// level; without a logger they are silent.
func WithLogger(l *log.Logger) Option {
	return func(c *Card) { c.logger = l }
}

// WithStrategy sets the placement strategy. Default is place.Centered.
func WithStrategy(s place.Strategy) Option {
	return func(c *Card) { c.strategy = s }
}

// WithConfig sets the placement configuration. Defaults are applied.
func WithConfig(cfg place.Config) Option {
	return func(c *Card) { c.cfg = cfg }
}

// WithNotifier sets the resize notifier. Without one the card never enters
// the Tracking state and only measures on activation.
func WithNotifier(n Notifier) Option {
	return func(c *Card) { c.notifier = n }
}

// WithOnUpdate registers a callback invoked after every committed state
// change, with the fresh view. Useful for driving renderers and tests.
func WithOnUpdate(fn func(View)) Option {
	return func(c *Card) { c.onUpdate = fn }
}

// Card is a single hovercard instance.
type Card struct {
	prober   measure.Prober
	notifier Notifier
	strategy place.Strategy
	cfg      place.Config
	logger   *log.Logger
	onUpdate func(View)

	mu          sync.Mutex
	ctx         context.Context
	activation  uuid.UUID
	round       uint64 // acquisition rounds started for the activation
	committed   uint64 // latest round whose result was committed
	snapshot    measure.Snapshot
	placement   place.Placement
	tracking    bool
	unsubscribe func()
	closed      bool
}

// New creates a card measuring through prober.
func New(prober measure.Prober, opts ...Option) *Card {
	c := &Card{
		prober:   prober,
		strategy: place.Centered{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cfg.SetDefaults()
	return c
}

// Activate points the card at a new reference element and starts the
// asynchronous measurement round. Any in-flight round for a previous target
// is superseded: its result will be discarded on arrival.
//
// Lookup failures are absorbed; the card simply stays hidden. Activate never
// returns an error.
func (c *Card) Activate(ctx context.Context, targetID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.ctx = ctx
	c.activation = uuid.New()
	c.round = 0
	c.committed = 0
	c.snapshot = measure.Snapshot{TargetID: targetID}
	c.placement = place.Placement{}
	act := c.activation
	c.mu.Unlock()

	c.acquire(ctx, act, targetID)
}

// Deactivate clears the current target. The card goes back to its hidden,
// unmeasured state; the resize subscription (if any) is released.
func (c *Card) Deactivate() {
	c.mu.Lock()
	c.activation = uuid.UUID{}
	c.snapshot = measure.Snapshot{}
	c.placement = place.Placement{}
	unsub := c.unsubscribe
	c.unsubscribe = nil
	c.tracking = false
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Close deactivates the card permanently.
func (c *Card) Close() {
	c.Deactivate()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// View returns the current renderable state.
func (c *Card) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{Placement: c.placement, Snapshot: c.snapshot}
}

// Tracking reports whether the resize reactor is subscribed.
func (c *Card) Tracking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracking
}

// acquire starts one asynchronous measurement round for the given
// activation.
func (c *Card) acquire(ctx context.Context, act uuid.UUID, targetID string) {
	c.mu.Lock()
	if c.activation != act {
		c.mu.Unlock()
		return
	}
	c.round++
	round := c.round
	c.mu.Unlock()

	go func() {
		observability.Measure().OnProbeStart(ctx, targetID)
		start := time.Now()
		snap, err := measure.Acquire(ctx, c.prober, targetID)
		observability.Measure().OnProbeComplete(ctx, targetID, snap.Phase.String(), time.Since(start), err)
		if err != nil {
			// Absorbed: a missing reference means a hidden card, nothing more.
			if c.logger != nil {
				c.logger.Debug("reference lookup failed, card stays hidden", "target", targetID, "err", err)
			}
			return
		}
		c.commit(ctx, act, round, snap)
	}()
}

// commit stores a finished round's snapshot, recomputes the placement, and
// enters the Tracking state on the first measured round. Results from
// superseded activations or out-of-order rounds are dropped.
func (c *Card) commit(ctx context.Context, act uuid.UUID, round uint64, snap measure.Snapshot) {
	c.mu.Lock()
	if c.activation != act || round <= c.committed {
		c.mu.Unlock()
		if c.logger != nil {
			c.logger.Debug("discarding stale measurement", "target", snap.TargetID)
		}
		return
	}
	c.committed = round
	c.snapshot = snap
	c.placement = c.strategy.Place(snap.Reference, snap.Viewport, snap.Panel, snap.Measured(), c.cfg)
	view := View{Placement: c.placement, Snapshot: c.snapshot}

	subscribe := snap.Measured() && !c.tracking && c.notifier != nil
	if subscribe {
		c.tracking = true
	}
	c.mu.Unlock()

	observability.Place().OnPlace(ctx, c.strategy.Name(), string(view.Placement.Side), view.Placement.Visible)

	if subscribe {
		unsub := c.notifier.Subscribe(c.handleResize)
		c.mu.Lock()
		// A Deactivate may have raced the subscription; release it again.
		if c.tracking {
			c.unsubscribe = unsub
			unsub = nil
		}
		c.mu.Unlock()
		if unsub != nil {
			unsub()
		}
	}

	if c.onUpdate != nil {
		c.onUpdate(view)
	}
}

// handleResize re-measures the current target from scratch. Element and
// viewport sizes may both have changed due to reflow, so nothing from the
// previous snapshot is reused.
func (c *Card) handleResize() {
	c.mu.Lock()
	ctx := c.ctx
	act := c.activation
	targetID := c.snapshot.TargetID
	c.mu.Unlock()

	if targetID == "" || act == (uuid.UUID{}) {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	observability.Measure().OnResize(ctx, targetID)
	c.acquire(ctx, act, targetID)
}
