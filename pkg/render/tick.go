package render

import (
	"fmt"

	"github.com/myrho/hovercard/pkg/place"
)

// TickPath returns the SVG path for the triangular pointer. The triangle
// occupies a tickLength x tickLength/2 box; below the reference the apex
// points up toward it, above the apex points down — the shape mirrors with
// the side.
func TickPath(side place.Side, tickLength float64) string {
	half := tickLength / 2
	if side == place.SideAbove {
		return fmt.Sprintf("M0,0 L%g,%g L%g,0 Z", half, half, tickLength)
	}
	return fmt.Sprintf("M0,%g L%g,0 L%g,%g Z", half, half, tickLength, half)
}

// TickMarkup returns the positioned SVG element for the pointer. The tick is
// horizontally centered on the reference midpoint (Placement.TickX) minus
// half the tick length, flush with the chosen vertical edge. The left offset
// is relative to the container at the anchor, so it is the midpoint's
// distance from the anchor; for the centered strategy the two coincide.
func TickMarkup(p place.Placement, s Style, tickLength float64) string {
	half := tickLength / 2
	left := p.TickX - p.AnchorX - half
	top := 0.0
	if p.Side == place.SideAbove {
		top = -half
	}
	return fmt.Sprintf(
		`<svg style="position:absolute;left:%gpx;top:%gpx;" width="%g" height="%g"><path d="%s" fill="%s" stroke="%s" stroke-width="%g"/></svg>`,
		left, top, tickLength, half,
		TickPath(p.Side, tickLength), s.BackgroundColor, s.BorderColor, s.BorderWidth,
	)
}
