// Package place implements the hovercard placement engine.
//
// Given the reference element's box, the viewport box, and the panel's
// measured size, the engine computes where the panel goes: the anchor point,
// the vertical side (above or below the reference), the panel's internal
// offsets, and the effective card dimensions. The computation is a pure
// function of its inputs.
//
// # Strategies
//
// Two placement strategies exist and are deliberately not unified, because
// their side-selection rules differ:
//
//   - [Centered]: the panel floats horizontally centered over the reference
//     with a connecting triangular tick. Below is the fallback side whenever
//     above does not have strictly enough room, even if below has less.
//   - [MaxBox]: the panel is bounded by MaxWidth/MaxHeight, may anchor to
//     either horizontal edge of the reference, and prefers above whenever
//     above fully fits. When neither side fits, the panel is clipped to the
//     side with more room.
//
// Both produce a [Placement] in viewport-relative coordinates. Callers pick
// a strategy via [ForVariant] or construct one directly.
//
// # Visibility
//
// The engine may be invoked before the panel has been measured. In that case
// the result carries Visible=false and renderers must suppress the card; the
// centered strategy additionally reports a zero anchor, since no stable
// midpoint is observable while the card is hidden.
package place

import (
	"github.com/myrho/hovercard/pkg/errors"
	"github.com/myrho/hovercard/pkg/geom"
)

// Side is the vertical side of the reference the panel is placed on.
type Side string

// Placement sides.
const (
	SideAbove Side = "above"
	SideBelow Side = "below"
)

// Edge is the horizontal anchor edge used by the max-box strategy.
type Edge string

// Horizontal anchor edges.
const (
	EdgeLeft  Edge = "left"
	EdgeRight Edge = "right"
)

// Variant names accepted by [ForVariant].
const (
	VariantCentered = "centered"
	VariantMaxBox   = "maxbox"
)

// DefaultTickLength is the pointer length in user units when none is configured.
const DefaultTickLength = 16.0

// Config holds the placement options. It is immutable per computation.
type Config struct {
	// TickLength is the length of the triangular pointer in user units.
	TickLength float64 `json:"tick_length"`

	// BorderWidth is the stroke width of both the panel border and the
	// pointer outline. It does not influence side selection.
	BorderWidth float64 `json:"border_width"`

	// MaxWidth and MaxHeight are hard caps on the panel dimensions.
	// Only the max-box strategy consults them.
	MaxWidth  float64 `json:"max_width,omitempty"`
	MaxHeight float64 `json:"max_height,omitempty"`

	// Viewport replaces the ambient viewport for the placement math. Set it
	// when the card renders inside a positioned or clipped container rather
	// than directly in the document.
	Viewport *geom.Box `json:"viewport,omitempty"`
}

// SetDefaults fills unset fields with their defaults.
func (c *Config) SetDefaults() {
	if c.TickLength == 0 {
		c.TickLength = DefaultTickLength
	}
}

// Validate checks the configuration for a given variant.
func (c Config) Validate(variant string) error {
	if c.TickLength < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tick length must not be negative, got %v", c.TickLength)
	}
	if c.BorderWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "border width must not be negative, got %v", c.BorderWidth)
	}
	if variant == VariantMaxBox && (c.MaxWidth <= 0 || c.MaxHeight <= 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "max-box placement requires positive max width and height, got %vx%v", c.MaxWidth, c.MaxHeight)
	}
	return nil
}

// Clip returns the effective viewport: the override when set, otherwise the
// ambient viewport passed in.
func (c Config) Clip(ambient geom.Box) geom.Box {
	if c.Viewport != nil {
		return *c.Viewport
	}
	return ambient
}

// Placement is the output of a placement computation. All coordinates are
// relative to the effective viewport origin.
type Placement struct {
	// AnchorX and AnchorY locate the positioning origin: the point the
	// panel's internal offsets are measured from and the tick attaches to.
	AnchorX float64 `json:"anchor_x"`
	AnchorY float64 `json:"anchor_y"`

	// Side is the vertical side of the reference the panel sits on.
	Side Side `json:"side"`

	// Edge is the horizontal anchor edge. Only the max-box strategy sets it.
	Edge Edge `json:"edge,omitempty"`

	// OffsetX and OffsetY position the panel's top-left corner relative to
	// the anchor.
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`

	// TickX is the viewport-relative x coordinate the pointer tick centers
	// on: the horizontal midpoint of the reference. For the centered
	// strategy it coincides with AnchorX; for max-box the anchor sits on a
	// reference edge and the two diverge.
	TickX float64 `json:"tick_x"`

	// CardWidth and CardHeight are the effective panel dimensions. For the
	// max-box strategy these may be smaller than the configured maximums
	// when the panel is clipped to fit.
	CardWidth  float64 `json:"card_width"`
	CardHeight float64 `json:"card_height"`

	// Visible reports whether the card may be shown. It is false until the
	// panel has been measured; renderers must keep the card hidden while
	// false regardless of the computed coordinates.
	Visible bool `json:"visible"`
}

// Strategy computes a placement from the measured geometry.
//
// ref and viewport share one coordinate space. panel is the panel's own
// measured size; measured reports whether that size is known yet. The
// returned placement is deterministic: identical inputs yield identical
// output.
type Strategy interface {
	// Name returns the variant name ("centered" or "maxbox").
	Name() string

	// Place computes the panel placement.
	Place(ref, viewport geom.Box, panel geom.Size, measured bool, cfg Config) Placement
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ForVariant returns the strategy registered under the given variant name.
func ForVariant(name string) (Strategy, error) {
	switch name {
	case VariantCentered:
		return Centered{}, nil
	case VariantMaxBox:
		return MaxBox{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidVariant, "unknown placement variant %q", name)
	}
}
