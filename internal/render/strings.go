package render

import (
	"strings"

	"github.com/roach88/plotstore/internal/scene"
)

// Strings extracts the content of every Text call, one per line.
type Strings struct {
	lines []string
}

var _ scene.Visitor = (*Strings)(nil)

// NewStrings creates a Strings renderer.
func NewStrings() *Strings {
	return &Strings{}
}

// RenderText implements TextRenderer. Scale is ignored.
func (r *Strings) RenderText(p *scene.Page, _ float64) string {
	r.lines = r.lines[:0]
	scene.Walk(r, p.DrawCalls)
	return strings.Join(r.lines, "\n")
}

func (r *Strings) VisitText(d scene.Text)       { r.lines = append(r.lines, d.Str) }
func (r *Strings) VisitCircle(scene.Circle)     {}
func (r *Strings) VisitLine(scene.Line)         {}
func (r *Strings) VisitRect(scene.Rect)         {}
func (r *Strings) VisitPolyline(scene.Polyline) {}
func (r *Strings) VisitPolygon(scene.Polygon)   {}
func (r *Strings) VisitPath(scene.Path)         {}
func (r *Strings) VisitRaster(scene.Raster)     {}

// Meta summarizes a page without visiting its draw calls.
type Meta struct {
	buffer
}

// NewMeta creates a Meta renderer.
func NewMeta() *Meta {
	return &Meta{}
}

// RenderText implements TextRenderer.
func (r *Meta) RenderText(p *scene.Page, scale float64) string {
	r.reset(128)
	r.printf("{\n \"id\": \"%d\", \"w\": %.2f, \"h\": %.2f, \"scale\": %.2f, \"clips\": %d, \"draw_calls\": %d\n}",
		p.ID, p.Width, p.Height, scale, len(p.Clips), len(p.DrawCalls))
	return r.String()
}
