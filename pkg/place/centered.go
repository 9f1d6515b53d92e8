package place

import "github.com/myrho/hovercard/pkg/geom"

// Centered places the panel horizontally centered over the reference with a
// floating triangular tick connecting the two.
//
// Side selection is a greedy one-sided test: the panel goes below unless
// above has strictly enough room for the panel plus the tick. Below is the
// fallback even when below has less room than above; the room below is
// never inspected.
type Centered struct{}

// Name returns the variant name.
func (Centered) Name() string { return VariantCentered }

// Place computes the centered placement.
//
// The anchor is the horizontal midpoint of the reference's visible
// intersection with the viewport, on the edge facing the panel. The panel is
// shifted horizontally so it never crosses the viewport's left or right edge
// while the anchor (and with it the tick) stays fixed on the midpoint.
func (Centered) Place(ref, viewport geom.Box, panel geom.Size, measured bool, cfg Config) Placement {
	vp := cfg.Clip(viewport)

	if !measured {
		// Hidden state: the anchor defaults to zero and is never observed
		// visually. Renderers gate on Visible.
		return Placement{Side: SideBelow, Visible: false}
	}

	// Visible intersection of the reference with the viewport.
	leftBound := maxf(ref.X, vp.X)
	rightBound := minf(ref.Right(), vp.Right())
	upperBound := maxf(ref.Y, vp.Y)
	lowerBound := minf(ref.Bottom(), vp.Bottom())

	anchorX := (leftBound+rightBound)/2 - vp.X

	// One-sided test: only the room above matters. Below wins whenever the
	// panel plus tick does not strictly fit above.
	diffAbove := upperBound - vp.Y

	side := SideAbove
	if diffAbove < panel.Height+cfg.TickLength {
		side = SideBelow
	}

	var anchorY, offsetY float64
	if side == SideBelow {
		anchorY = lowerBound - vp.Y
		offsetY = cfg.TickLength / 2
	} else {
		anchorY = upperBound - vp.Y
		offsetY = -cfg.TickLength/2 - panel.Height
	}

	// Clamp horizontally: shift the panel so neither edge leaves the
	// viewport, without moving the anchor.
	offsetX := -panel.Width / 2
	diffLeft := minf(0, anchorX+offsetX)
	diffRight := minf(0, vp.Width-(anchorX+panel.Width/2))
	offsetX = offsetX - diffLeft + diffRight

	return Placement{
		AnchorX:    anchorX,
		AnchorY:    anchorY,
		Side:       side,
		OffsetX:    offsetX,
		OffsetY:    offsetY,
		TickX:      anchorX,
		CardWidth:  panel.Width,
		CardHeight: panel.Height,
		Visible:    true,
	}
}
