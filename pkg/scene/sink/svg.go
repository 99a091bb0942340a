package sink

import (
	"bytes"
	"fmt"

	"github.com/boxlogic/stowplan/pkg/scene"
)

// SVG layout constants, in pixels.
const (
	svgPixelsPerUnit = 50.0
	svgMargin        = 24.0
	svgPanelGap      = 48.0
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels   bool
	sideView bool
	title    string
}

// WithSVGLabels draws each solid's name inside its rectangle.
func WithSVGLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithSVGSideView adds a side elevation panel (length vs height) next to
// the top-down panel.
func WithSVGSideView() SVGOption { return func(r *svgRenderer) { r.sideView = true } }

// WithSVGTitle sets the document title text.
func WithSVGTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// RenderSVG draws the scene as a 2D preview: a top-down panel (length
// against width) and optionally a side elevation (length against
// height). Solids are filled with their palette color and drawn in input
// order, so later placements paint over earlier ones the same way a
// camera above the container would see them.
func RenderSVG(sc scene.Scene, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	topW := sc.Container.Length * svgPixelsPerUnit
	topH := sc.Container.Width * svgPixelsPerUnit
	sideH := sc.Container.Height * svgPixelsPerUnit

	totalW := topW + 2*svgMargin
	totalH := topH + 2*svgMargin
	if r.sideView {
		totalH += svgPanelGap + sideH
	}
	if r.title != "" {
		totalH += svgPanelGap / 2
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		totalW, totalH, totalW, totalH)

	y := svgMargin
	if r.title != "" {
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="14" font-weight="bold">%s</text>`+"\n",
			svgMargin, y-6, escapeText(r.title))
		y += svgPanelGap / 2
	}

	r.renderTopDown(&buf, sc, svgMargin, y)
	if r.sideView {
		r.renderSide(&buf, sc, svgMargin, y+topH+svgPanelGap)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderTopDown draws the length/width plane: scene X maps to SVG x,
// scene Z to SVG y.
func (r *svgRenderer) renderTopDown(buf *bytes.Buffer, sc scene.Scene, ox, oy float64) {
	halfL := sc.Container.Length / 2
	halfW := sc.Container.Width / 2

	renderFrame(buf, ox, oy, sc.Container.Length*svgPixelsPerUnit, sc.Container.Width*svgPixelsPerUnit)

	for _, s := range sc.Solids {
		x := ox + (s.Center.X-s.Size.Length/2+halfL)*svgPixelsPerUnit
		y := oy + (s.Center.Z-s.Size.Width/2+halfW)*svgPixelsPerUnit
		w := s.Size.Length * svgPixelsPerUnit
		h := s.Size.Width * svgPixelsPerUnit
		renderSolid(buf, x, y, w, h, s.Color)
		if r.labels {
			renderLabel(buf, x+w/2, y+h/2, s.Name)
		}
	}
}

// renderSide draws the length/height elevation: scene X maps to SVG x,
// scene Y (floor-up) to SVG y (top-down, so flipped).
func (r *svgRenderer) renderSide(buf *bytes.Buffer, sc scene.Scene, ox, oy float64) {
	halfL := sc.Container.Length / 2
	ch := sc.Container.Height

	renderFrame(buf, ox, oy, sc.Container.Length*svgPixelsPerUnit, ch*svgPixelsPerUnit)

	for _, s := range sc.Solids {
		x := ox + (s.Center.X-s.Size.Length/2+halfL)*svgPixelsPerUnit
		top := s.Center.Y + s.Size.Height/2
		y := oy + (ch-top)*svgPixelsPerUnit
		w := s.Size.Length * svgPixelsPerUnit
		h := s.Size.Height * svgPixelsPerUnit
		renderSolid(buf, x, y, w, h, s.Color)
		if r.labels {
			renderLabel(buf, x+w/2, y+h/2, s.Name)
		}
	}
}

func renderFrame(buf *bytes.Buffer, x, y, w, h float64) {
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#333" stroke-width="2"/>`+"\n",
		x, y, w, h)
}

func renderSolid(buf *bytes.Buffer, x, y, w, h float64, color string) {
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.85" stroke="#222" stroke-width="1"/>`+"\n",
		x, y, w, h, color)
}

func renderLabel(buf *bytes.Buffer, cx, cy float64, text string) {
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="10" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		cx, cy, escapeText(text))
}

func escapeText(s string) string {
	var out bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		case '&':
			out.WriteString("&amp;")
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
