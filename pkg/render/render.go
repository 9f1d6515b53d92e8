// Package render turns placement results into markup and style strings.
//
// This is thin glue by design: the placement math lives in pkg/place, and
// the caller supplies arbitrary content which is wrapped, never inspected.
// The package produces CSS style attribute strings for the positioned
// container and the panel, and an SVG triangle for the pointer tick.
package render

import (
	"fmt"
	"strings"

	"github.com/myrho/hovercard/pkg/place"
)

// Style carries the caller-supplied decorative options. They pass through to
// the emitted style strings; placement is unaffected by any of them.
type Style struct {
	BorderWidth     float64 `json:"border_width"`
	BorderColor     string  `json:"border_color"`
	BackgroundColor string  `json:"background_color"`
	ZIndex          int     `json:"z_index"`
}

// SetDefaults fills unset fields with their defaults.
func (s *Style) SetDefaults() {
	if s.BorderColor == "" {
		s.BorderColor = "black"
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = "white"
	}
}

// Fragment identifies a child of the card container in document order.
type Fragment string

// Card fragments.
const (
	FragmentTick    Fragment = "tick"
	FragmentContent Fragment = "content"
)

// Fragments returns the card's children in document order. Below the
// reference the tick comes first (it sits visually on top of the panel);
// above, the order is reversed so the rendered tree still reads top-to-
// bottom. Consumers rely on this for consistent tab and reading order.
func Fragments(p place.Placement) []Fragment {
	if p.Side == place.SideAbove {
		return []Fragment{FragmentContent, FragmentTick}
	}
	return []Fragment{FragmentTick, FragmentContent}
}

// ContainerStyle returns the style attribute for the zero-size positioned
// container at the anchor point. The card is fully transparent until the
// panel has been measured; the anchor coordinates are emitted either way so
// the panel can be laid out (and measured) invisibly.
func ContainerStyle(p place.Placement, s Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, "position:absolute;left:%gpx;top:%gpx;", p.AnchorX, p.AnchorY)
	if s.ZIndex != 0 {
		fmt.Fprintf(&b, "z-index:%d;", s.ZIndex)
	}
	if !p.Visible {
		b.WriteString("opacity:0;")
	}
	return b.String()
}

// CardStyle returns the style attribute for the panel box, positioned by its
// internal offsets relative to the anchor.
func CardStyle(p place.Placement, s Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, "position:absolute;left:%gpx;top:%gpx;", p.OffsetX, p.OffsetY)
	if p.CardWidth > 0 {
		fmt.Fprintf(&b, "max-width:%gpx;", p.CardWidth)
	}
	if p.CardHeight > 0 {
		fmt.Fprintf(&b, "max-height:%gpx;", p.CardHeight)
	}
	fmt.Fprintf(&b, "border:%gpx solid %s;background-color:%s;", s.BorderWidth, s.BorderColor, s.BackgroundColor)
	return b.String()
}

// Card composes the full markup: positioned container, pointer tick, and the
// caller's content, in the document order given by Fragments. content is
// emitted verbatim.
func Card(p place.Placement, s Style, tickLength float64, content string) string {
	s.SetDefaults()

	var b strings.Builder
	fmt.Fprintf(&b, `<div style="%s">`, ContainerStyle(p, s))
	for _, f := range Fragments(p) {
		switch f {
		case FragmentTick:
			b.WriteString(TickMarkup(p, s, tickLength))
		case FragmentContent:
			fmt.Fprintf(&b, `<div style="%s">%s</div>`, CardStyle(p, s), content)
		}
	}
	b.WriteString("</div>")
	return b.String()
}
