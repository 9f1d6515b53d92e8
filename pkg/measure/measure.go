// Package measure acquires the geometry the placement engine needs from the
// host environment.
//
// Measurement is a strictly ordered two-phase process. The reference element
// is probed first; only then can the panel be probed, because the panel is
// mounted (invisibly) at an identifier derived from the reference and its
// size is unknown until its content has been laid out. The phases map to a
// small state machine:
//
//	PhaseEmpty → PhaseHaveReference → PhaseHaveSize
//
// A failed reference lookup leaves the state empty; a failed panel lookup
// leaves it at PhaseHaveReference. Either way the card stays hidden, which
// is the intended degrade-to-invisible behavior. There is no retry here;
// re-measurement is driven by the caller (typically on viewport resize).
//
// The Prober is an injected capability, so tests can supply canned boxes and
// production code can back it with a real browser (see pkg/probe).
package measure

import (
	"context"

	"github.com/myrho/hovercard/pkg/geom"
)

// PanelSuffix is appended to the reference identifier to derive the panel
// element's identifier. The panel must already be rendered (invisibly) under
// this id before its size can be measured.
const PanelSuffix = "-hovercard"

// Phase is the progress of the two-phase acquisition.
type Phase int

// Acquisition phases, in order.
const (
	PhaseEmpty Phase = iota
	PhaseHaveReference
	PhaseHaveSize
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseHaveReference:
		return "have-reference"
	case PhaseHaveSize:
		return "have-size"
	default:
		return "unknown"
	}
}

// Probe is the host environment's answer to a single element lookup: the
// element's box and the enclosing viewport's box, in one coordinate space.
type Probe struct {
	Element  geom.Box `json:"element"`
	Viewport geom.Box `json:"viewport"`
}

// Prober looks up element geometry in the host environment. Lookups are
// asynchronous from the host's point of view; the context bounds them.
//
// A missing element yields an error with code ErrCodeElementNotFound.
type Prober interface {
	Probe(ctx context.Context, id string) (Probe, error)
}

// Snapshot is the result of one acquisition round. It is immutable once
// returned; a re-measurement produces a fresh snapshot.
type Snapshot struct {
	TargetID  string    `json:"target_id"`
	Phase     Phase     `json:"phase"`
	Reference geom.Box  `json:"reference"`
	Viewport  geom.Box  `json:"viewport"`
	Panel     geom.Size `json:"panel"`
}

// Measured reports whether the panel size is known, i.e. whether a visible
// placement may be computed from this snapshot.
func (s Snapshot) Measured() bool { return s.Phase == PhaseHaveSize }

// PanelID derives the panel element's identifier from the reference
// identifier.
func PanelID(targetID string) string { return targetID + PanelSuffix }

// Acquire runs the two-phase acquisition against the prober.
//
// The reference element is probed first. If that fails, the zero-phase
// snapshot and the lookup error are returned; callers absorb the error and
// keep the card hidden. The panel is then probed under the derived
// identifier. A panel failure is absorbed here already: the returned
// snapshot simply stays at PhaseHaveReference with a nil error, since an
// unmeasured panel is a normal intermediate state, not a fault.
func Acquire(ctx context.Context, p Prober, targetID string) (Snapshot, error) {
	snap := Snapshot{TargetID: targetID}

	ref, err := p.Probe(ctx, targetID)
	if err != nil {
		return snap, err
	}
	snap.Reference = ref.Element
	snap.Viewport = ref.Viewport
	snap.Phase = PhaseHaveReference

	panel, err := p.Probe(ctx, PanelID(targetID))
	if err != nil {
		return snap, nil
	}
	snap.Panel = panel.Element.Size()
	snap.Phase = PhaseHaveSize
	return snap, nil
}
