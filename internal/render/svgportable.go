package render

import (
	"github.com/roach88/plotstore/internal/geom"
	"github.com/roach88/plotstore/internal/scene"
)

// SVGPortable renders an SVG document without a style block. Every element
// carries its presentation attributes and every clip id is suffixed with a
// token generated per render, so several documents can share one host page.
type SVGPortable struct {
	buffer
	tokens TokenGenerator
	token  string
}

var _ scene.Visitor = (*SVGPortable)(nil)

// NewSVGPortable creates a portable renderer. A nil generator uses UUIDs.
func NewSVGPortable(tokens TokenGenerator) *SVGPortable {
	if tokens == nil {
		tokens = UUIDGenerator{}
	}
	return &SVGPortable{tokens: tokens}
}

// RenderText implements TextRenderer.
func (r *SVGPortable) RenderText(p *scene.Page, scale float64) string {
	r.reset(sizeHint(p))
	r.token = r.tokens.Generate()

	r.write(svgOpen)
	r.printf(`width="%.2f" height="%.2f" viewBox="0 0 %.2f %.2f">`+"\n<defs>\n",
		p.Width*scale, p.Height*scale, p.Width, p.Height)
	for _, c := range p.Clips {
		r.printf(`<clipPath id="c%d-%s"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath>`+"\n",
			c.ID, r.token, c.Rect.X, c.Rect.Y, c.Rect.Width, c.Rect.Height)
	}
	r.write("</defs>\n")
	r.printf(`<rect width="100%%" height="100%%" stroke="none" fill="%s"/>`+"\n", p.Fill.Hex())

	for i, g := range p.Groups() {
		if i == 0 {
			r.printf(`<g clip-path="url(#c%d-%s)">`+"\n", g.Clip.ID, r.token)
		} else {
			r.printf(`</g><g clip-path="url(#c%d-%s)">`+"\n", g.Clip.ID, r.token)
		}
		for _, dc := range g.Calls {
			dc.Accept(r)
			r.write("\n")
		}
	}
	r.write("</g>\n</svg>")
	return r.String()
}

func (r *SVGPortable) VisitText(d scene.Text) {
	r.write("<g><text ")
	writeTextPosition(&r.buffer, d)
	r.write(textAnchor(d.Hadj))

	r.printf(`font-family="%s" font-size="%.2fpx"`, escapeXML(d.Font.Family), d.Font.Size)
	switch d.Font.Weight {
	case 400:
	case 700:
		r.write(` font-weight="bold"`)
	default:
		r.printf(` font-weight="%d"`, d.Font.Weight)
	}
	if d.Font.Italic {
		r.write(` font-style="italic"`)
	}
	if d.Stroke != geom.Black {
		attrFillOrNone(&r.buffer, d.Stroke)
	}
	if d.Font.Features != "" {
		r.printf(` font-feature-settings="%s"`, escapeXML(d.Font.Features))
	}
	if d.Font.Width > 0 {
		r.printf(` textLength="%.2fpx" lengthAdjust="spacingAndGlyphs"`, d.Font.Width)
	}
	r.write(">")
	r.write(escapeXML(d.Str))
	r.write("</text></g>")
}

func (r *SVGPortable) VisitCircle(d scene.Circle) {
	r.printf(`<circle cx="%.2f" cy="%.2f" r="%.2f" `, d.Center.X, d.Center.Y, d.R)
	attrLine(&r.buffer, d.Stroke, d.Line)
	attrFillOrNone(&r.buffer, d.Fill)
	r.write("/>")
}

func (r *SVGPortable) VisitLine(d scene.Line) {
	r.printf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" `, d.From.X, d.From.Y, d.To.X, d.To.Y)
	attrLine(&r.buffer, d.Stroke, d.Line)
	r.write("/>")
}

func (r *SVGPortable) VisitRect(d scene.Rect) {
	b := d.Bounds()
	r.printf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" `, b.X, b.Y, b.Width, b.Height)
	attrLine(&r.buffer, d.Stroke, d.Line)
	attrFillOrNone(&r.buffer, d.Fill)
	r.write("/>")
}

func (r *SVGPortable) VisitPolyline(d scene.Polyline) {
	r.write(`<polyline points="`)
	writePoints(&r.buffer, d.Points)
	r.write(`" fill="none" `)
	attrLine(&r.buffer, d.Stroke, d.Line)
	r.write("/>")
}

func (r *SVGPortable) VisitPolygon(d scene.Polygon) {
	r.write(`<polygon points="`)
	writePoints(&r.buffer, d.Points)
	r.write(`" `)
	attrLine(&r.buffer, d.Stroke, d.Line)
	attrFillOrNone(&r.buffer, d.Fill)
	r.write("/>")
}

func (r *SVGPortable) VisitPath(d scene.Path) {
	r.write(`<path d="`)
	writePathData(&r.buffer, d.Subpaths())
	r.write(`" `)
	attrLine(&r.buffer, d.Stroke, d.Line)
	attrFillOrNone(&r.buffer, d.Fill)
	r.printf(` fill-rule="%s"/>`, fillRule(d.Winding))
}

func (r *SVGPortable) VisitRaster(d scene.Raster) {
	writeImage(&r.buffer, d)
}
