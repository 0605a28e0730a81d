package render

import (
	"encoding/json"

	"github.com/roach88/plotstore/internal/geom"
	"github.com/roach88/plotstore/internal/scene"
)

// JSON renders a page as a JSON document with one object per draw call,
// tagged by "type". Floating point fields use two decimals so output is
// stable across platforms.
type JSON struct {
	buffer
}

var _ scene.Visitor = (*JSON)(nil)

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// RenderText implements TextRenderer.
func (r *JSON) RenderText(p *scene.Page, scale float64) string {
	r.reset(sizeHint(p))

	r.printf("{\n \"id\": \"%d\", \"w\": %.2f, \"h\": %.2f, \"scale\": %.2f, \"fill\": \"%s\",\n",
		p.ID, p.Width, p.Height, scale, p.Fill.Hex())
	r.write(" \"clips\": [\n  ")
	for i, c := range p.Clips {
		if i > 0 {
			r.write(",\n  ")
		}
		r.printf(`{ "id": %d, "x": %.2f, "y": %.2f, "w": %.2f, "h": %.2f }`,
			c.ID, c.Rect.X, c.Rect.Y, c.Rect.Width, c.Rect.Height)
	}
	r.write("\n ],\n \"draw_calls\": [\n  ")
	for i, dc := range p.DrawCalls {
		if i > 0 {
			r.write(",\n  ")
		}
		r.write("{ ")
		dc.Accept(r)
		r.write(" }")
	}
	r.write("\n ]\n}")
	return r.String()
}

func (r *JSON) lineInfo(stroke geom.Color, l geom.LineStyle) {
	r.printf(`{ "col": "%s", "lwd": %.2f, "lty": %d, "lend": %d, "ljoin": %d, "lmitre": %.2f }`,
		stroke.Hex(), l.Width, l.Type, l.Cap, l.Join, l.Miter)
}

func (r *JSON) verts(pts []geom.Point) {
	r.write("[")
	for i, p := range pts {
		if i > 0 {
			r.write(", ")
		}
		r.printf("[ %.2f, %.2f ]", p.X, p.Y)
	}
	r.write("]")
}

func (r *JSON) str(s string) {
	b, err := json.Marshal(s)
	if err != nil {
		r.write(`""`)
		return
	}
	r.b.Write(b)
}

func (r *JSON) VisitText(d scene.Text) {
	r.printf(`"type": "text", "clip_id": %d, "x": %.2f, "y": %.2f, "rot": %.2f, "hadj": %.2f, "col": "%s", "str": `,
		d.ClipID, d.Pos.X, d.Pos.Y, d.Rot, d.Hadj, d.Stroke.Hex())
	r.str(d.Str)
	r.printf(`, "weight": %d, "features": `, d.Font.Weight)
	r.str(d.Font.Features)
	r.write(`, "font_family": `)
	r.str(d.Font.Family)
	r.printf(`, "fontsize": %.2f, "italic": %t, "txtwidth_px": %.2f`, d.Font.Size, d.Font.Italic, d.Font.Width)
}

func (r *JSON) VisitCircle(d scene.Circle) {
	r.printf(`"type": "circle", "clip_id": %d, "x": %.2f, "y": %.2f, "r": %.2f, "fill": "%s", "line": `,
		d.ClipID, d.Center.X, d.Center.Y, d.R, d.Fill.Hex())
	r.lineInfo(d.Stroke, d.Line)
}

func (r *JSON) VisitLine(d scene.Line) {
	r.printf(`"type": "line", "clip_id": %d, "x0": %.2f, "y0": %.2f, "x1": %.2f, "y1": %.2f, "line": `,
		d.ClipID, d.From.X, d.From.Y, d.To.X, d.To.Y)
	r.lineInfo(d.Stroke, d.Line)
}

func (r *JSON) VisitRect(d scene.Rect) {
	b := d.Bounds()
	r.printf(`"type": "rect", "clip_id": %d, "x": %.2f, "y": %.2f, "w": %.2f, "h": %.2f, "fill": "%s", "line": `,
		d.ClipID, b.X, b.Y, b.Width, b.Height, d.Fill.Hex())
	r.lineInfo(d.Stroke, d.Line)
}

func (r *JSON) VisitPolyline(d scene.Polyline) {
	r.printf(`"type": "polyline", "clip_id": %d, "line": `, d.ClipID)
	r.lineInfo(d.Stroke, d.Line)
	r.write(`, "points": `)
	r.verts(d.Points)
}

func (r *JSON) VisitPolygon(d scene.Polygon) {
	r.printf(`"type": "polygon", "clip_id": %d, "fill": "%s", "line": `, d.ClipID, d.Fill.Hex())
	r.lineInfo(d.Stroke, d.Line)
	r.write(`, "points": `)
	r.verts(d.Points)
}

func (r *JSON) VisitPath(d scene.Path) {
	r.printf(`"type": "path", "clip_id": %d, "fill": "%s", "winding": %t, "line": `, d.ClipID, d.Fill.Hex(), d.Winding)
	r.lineInfo(d.Stroke, d.Line)
	r.write(`, "nper": [`)
	for i, n := range d.NPer {
		if i > 0 {
			r.write(", ")
		}
		r.printf("%d", n)
	}
	r.write(`], "points": `)
	r.verts(d.Points)
}

func (r *JSON) VisitRaster(d scene.Raster) {
	r.printf(`"type": "raster", "clip_id": %d, "x": %.2f, "y": %.2f, "w": %.2f, "h": %.2f, "rot": %.2f, "raster": { "w": %d, "h": %d, "data": "%s" }`,
		d.ClipID, d.Rect.X, d.Rect.Y, d.Rect.Width, d.Rect.Height, d.Rot, d.SrcW, d.SrcH, rasterBase64(d))
}
