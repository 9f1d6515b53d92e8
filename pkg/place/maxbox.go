package place

import "github.com/myrho/hovercard/pkg/geom"

// MaxBox places a panel bounded by MaxWidth/MaxHeight. The panel may anchor
// to either horizontal edge of the reference and sit above or below it; the
// pointer is embedded flush with the chosen vertical edge rather than
// floating.
//
// Unlike [Centered], above is the preferred side whenever it fully fits.
// When neither side fits, the side with more room wins and the panel's
// effective height is clipped to that room. The two strategies genuinely
// disagree on tie-breaks; keep them separate.
type MaxBox struct{}

// Name returns the variant name.
func (MaxBox) Name() string { return VariantMaxBox }

// Place computes the max-box placement. The panel's measured size does not
// influence the geometry (the configured maximums do), but an unmeasured
// panel still yields Visible=false so renderers keep the card hidden until
// it has been laid out once.
func (MaxBox) Place(ref, viewport geom.Box, panel geom.Size, measured bool, cfg Config) Placement {
	vp := cfg.Clip(viewport)

	// Viewport-relative reference position.
	x := ref.X - vp.X
	y := ref.Y - vp.Y

	// Vertical: above is preferred when it fully fits. When neither side
	// fits, clip the panel to the side with more room.
	diffBelow := vp.Height - cfg.MaxHeight - y - ref.Height
	diffAbove := y - cfg.MaxHeight

	side := SideBelow
	height := cfg.MaxHeight
	switch {
	case diffAbove < 0 && diffBelow < 0:
		if diffAbove > diffBelow {
			side = SideAbove
			height = cfg.MaxHeight + diffAbove
		} else {
			height = cfg.MaxHeight + diffBelow
		}
	case diffAbove >= 0:
		side = SideAbove
	}

	// Horizontal: anchor to the right edge when the panel would not fit
	// growing rightward from the reference.
	diffRight := vp.Width - x
	edge := EdgeLeft
	width := cfg.MaxWidth
	if diffRight < cfg.MaxWidth {
		edge = EdgeRight
		width = minf(vp.Width, cfg.MaxWidth)
	}

	var offsetX float64
	switch {
	case edge == EdgeRight:
		// Pull the panel leftward to hug the viewport edge.
		offsetX = -(vp.Width - x - ref.Width)
	case x < 0:
		// The reference's left edge is cut off; align with the viewport.
		offsetX = -x
	case ref.Width > cfg.MaxWidth:
		// Reference wider than the panel: center the panel under it.
		offsetX = x + ref.Width/2 - cfg.MaxWidth/2
	default:
		offsetX = 0
	}

	anchorX := x
	if edge == EdgeRight {
		anchorX = x + ref.Width
	}

	// The anchor sits on the reference edge facing the panel. Below the
	// panel grows downward from it; above it must end at the anchor, so the
	// top-left offset pulls it up by the effective height.
	anchorY := y + ref.Height
	offsetY := 0.0
	if side == SideAbove {
		anchorY = y
		offsetY = -height
	}

	return Placement{
		AnchorX:    anchorX,
		AnchorY:    anchorY,
		Side:       side,
		Edge:       edge,
		OffsetX:    offsetX,
		OffsetY:    offsetY,
		TickX:      x + ref.Width/2,
		CardWidth:  width,
		CardHeight: height,
		Visible:    measured,
	}
}
