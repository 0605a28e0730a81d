package render

import (
	"github.com/roach88/plotstore/internal/geom"
	"github.com/roach88/plotstore/internal/scene"
)

const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" class="plotstore" `

const svgStyle = "  <style type='text/css'><![CDATA[\n" +
	"    .plotstore line, .plotstore polyline, .plotstore polygon, .plotstore path, .plotstore rect, .plotstore circle {\n" +
	"      fill: none;\n" +
	"      stroke: #000000;\n" +
	"      stroke-linecap: round;\n" +
	"      stroke-linejoin: round;\n" +
	"      stroke-miterlimit: 10.00;\n" +
	"    }\n"

// SVG renders a page as an SVG document styled through a shared CSS block.
// Element ids are not unique across documents, so two outputs cannot be
// inlined into the same host page; use SVGPortable for that.
type SVG struct {
	buffer
	extraCSS string
}

var _ scene.Visitor = (*SVG)(nil)

// NewSVG creates an SVG renderer. extraCSS, when non-empty, is appended to
// the style block.
func NewSVG(extraCSS string) *SVG {
	return &SVG{extraCSS: extraCSS}
}

// RenderText implements TextRenderer.
func (r *SVG) RenderText(p *scene.Page, scale float64) string {
	r.reset(sizeHint(p))

	r.write(svgOpen)
	r.printf(`width="%.2f" height="%.2f" viewBox="0 0 %.2f %.2f">`+"\n<defs>\n",
		p.Width*scale, p.Height*scale, p.Width, p.Height)
	r.write(svgStyle)
	if r.extraCSS != "" {
		r.write(r.extraCSS + "\n")
	}
	r.write("  ]]></style>\n")

	for _, c := range p.Clips {
		r.printf(`<clipPath id="c%d"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath>`+"\n",
			c.ID, c.Rect.X, c.Rect.Y, c.Rect.Width, c.Rect.Height)
	}
	r.write("</defs>\n")
	r.printf(`<rect width="100%%" height="100%%" style="stroke: none;fill: %s;"/>`+"\n", p.Fill.Hex())

	for i, g := range p.Groups() {
		if i == 0 {
			r.printf(`<g clip-path="url(#c%d)">`+"\n", g.Clip.ID)
		} else {
			r.printf(`</g><g clip-path="url(#c%d)">`+"\n", g.Clip.ID)
		}
		for _, dc := range g.Calls {
			dc.Accept(r)
			r.write("\n")
		}
	}
	r.write("</g>\n</svg>")
	return r.String()
}

func (r *SVG) VisitText(d scene.Text) {
	r.write("<g><text ")
	writeTextPosition(&r.buffer, d)
	r.write(textAnchor(d.Hadj))

	r.printf(`style="font-family: %s;font-size: %.2fpx;`, escapeXML(d.Font.Family), d.Font.Size)
	switch d.Font.Weight {
	case 400:
	case 700:
		r.write("font-weight: bold;")
	default:
		r.printf("font-weight: %d;", d.Font.Weight)
	}
	if d.Font.Italic {
		r.write("font-style: italic;")
	}
	if d.Stroke != geom.Black {
		cssFillOrNone(&r.buffer, d.Stroke)
	}
	if d.Font.Features != "" {
		r.printf("font-feature-settings: %s;", escapeXML(d.Font.Features))
	}
	r.write(`"`)
	if d.Font.Width > 0 {
		r.printf(` textLength="%.2fpx" lengthAdjust="spacingAndGlyphs"`, d.Font.Width)
	}
	r.write(">")
	r.write(escapeXML(d.Str))
	r.write("</text></g>")
}

func (r *SVG) VisitCircle(d scene.Circle) {
	r.printf(`<circle cx="%.2f" cy="%.2f" r="%.2f" style="`, d.Center.X, d.Center.Y, d.R)
	cssLine(&r.buffer, d.Stroke, d.Line)
	cssFillOrOmit(&r.buffer, d.Fill)
	r.write(`"/>`)
}

func (r *SVG) VisitLine(d scene.Line) {
	r.printf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" style="`, d.From.X, d.From.Y, d.To.X, d.To.Y)
	cssLine(&r.buffer, d.Stroke, d.Line)
	r.write(`"/>`)
}

func (r *SVG) VisitRect(d scene.Rect) {
	b := d.Bounds()
	r.printf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" style="`, b.X, b.Y, b.Width, b.Height)
	cssLine(&r.buffer, d.Stroke, d.Line)
	cssFillOrOmit(&r.buffer, d.Fill)
	r.write(`"/>`)
}

func (r *SVG) VisitPolyline(d scene.Polyline) {
	r.write(`<polyline points="`)
	writePoints(&r.buffer, d.Points)
	r.write(`" style="`)
	cssLine(&r.buffer, d.Stroke, d.Line)
	r.write(`"/>`)
}

func (r *SVG) VisitPolygon(d scene.Polygon) {
	r.write(`<polygon points="`)
	writePoints(&r.buffer, d.Points)
	r.write(`" style="`)
	cssLine(&r.buffer, d.Stroke, d.Line)
	cssFillOrOmit(&r.buffer, d.Fill)
	r.write(`"/>`)
}

func (r *SVG) VisitPath(d scene.Path) {
	r.write(`<path d="`)
	writePathData(&r.buffer, d.Subpaths())
	r.write(`" style="`)
	cssLine(&r.buffer, d.Stroke, d.Line)
	cssFillOrOmit(&r.buffer, d.Fill)
	r.printf(`fill-rule: %s;"/>`, fillRule(d.Winding))
}

func (r *SVG) VisitRaster(d scene.Raster) {
	writeImage(&r.buffer, d)
}

// writeTextPosition places a text element either directly or, when rotated,
// through a transform. The rotation sign flips because device y grows down.
func writeTextPosition(w *buffer, d scene.Text) {
	if d.Rot == 0 {
		w.printf(`x="%.2f" y="%.2f" `, d.Pos.X, d.Pos.Y)
		return
	}
	w.printf(`transform="translate(%.2f,%.2f) rotate(%.2f)" `, d.Pos.X, d.Pos.Y, -d.Rot)
}

// writeImage embeds a raster call as a base64 PNG. The clip path stays on
// the enclosing group so the rotation does not apply to it.
func writeImage(w *buffer, d scene.Raster) {
	w.printf(`<g><image x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="none" `,
		d.Rect.X, d.Rect.Y, d.Rect.Width, d.Rect.Height)
	if !d.Interpolate {
		w.write(`image-rendering="pixelated" `)
	}
	if d.Rot != 0 {
		w.printf(`transform="rotate(%.2f,%.2f,%.2f)" `, -d.Rot, d.Rect.X, d.Rect.Y)
	}
	w.write(`xlink:href="data:image/png;base64,`)
	w.write(rasterBase64(d))
	w.write(`"/></g>`)
}
