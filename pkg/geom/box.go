// Package geom provides the rectangle and size value types shared by the
// measurement and placement packages.
//
// All boxes live in a single viewport-relative coordinate space with the
// origin at the top-left corner and the y axis growing downward, matching
// the coordinate space reported by the host environment
// (getBoundingClientRect and friends). A Box can describe the reference
// element, the viewport itself, or the hovercard panel.
package geom

// Box is an axis-aligned rectangle in user units (typically CSS pixels).
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size is a width/height pair without a position.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// MidX returns the horizontal center point.
func (b Box) MidX() float64 { return b.X + b.Width/2 }

// MidY returns the vertical center point.
func (b Box) MidY() float64 { return b.Y + b.Height/2 }

// Size returns the box dimensions without the position.
func (b Box) Size() Size { return Size{Width: b.Width, Height: b.Height} }

// Translate returns the box shifted by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height}
}

// RelativeTo converts the box into the coordinate space whose origin is the
// top-left corner of origin. Used to express element boxes relative to an
// overridden viewport.
func (b Box) RelativeTo(origin Box) Box {
	return b.Translate(-origin.X, -origin.Y)
}

// Intersect returns the overlapping region of b and other. When the boxes do
// not overlap, the result has zero or negative width/height; callers that
// only need the clipped bounds can use the edges directly.
func (b Box) Intersect(other Box) Box {
	left := maxf(b.X, other.X)
	top := maxf(b.Y, other.Y)
	right := minf(b.Right(), other.Right())
	bottom := minf(b.Bottom(), other.Bottom())
	return Box{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// Contains reports whether the point (x, y) lies inside the box, with the
// top/left edges inclusive and the bottom/right edges exclusive.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom()
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
