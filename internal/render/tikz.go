package render

import (
	"math"

	"github.com/roach88/plotstore/internal/geom"
	"github.com/roach88/plotstore/internal/scene"
)

// TikZ renders a page as a tikzpicture for inclusion in LaTeX documents.
// Clip groups become nested scopes. Raster images are not supported and
// are replaced by a TeX comment.
type TikZ struct {
	buffer
	scale float64
}

var _ scene.Visitor = (*TikZ)(nil)

// NewTikZ creates a TikZ renderer.
func NewTikZ() *TikZ {
	return &TikZ{}
}

// RenderText implements TextRenderer.
func (r *TikZ) RenderText(p *scene.Page, scale float64) string {
	r.reset(sizeHint(p))
	r.scale = scale

	r.printf("\\begin{tikzpicture}[x=1pt,y=-1pt,scale=%.2f]\n", scale)

	if !p.Fill.Transparent() {
		r.write(`\fill[fill=`)
		r.xcolor(p.Fill)
		if !p.Fill.Opaque() {
			r.printf(",fill opacity=%.2f", p.Fill.AlphaFrac())
		}
		r.printf("] (0,0) rectangle (%.2f,%.2f);\n", p.Width, p.Height)
	}

	first := true
	for i, g := range p.Groups() {
		if i == 0 {
			r.printf("\\begin{scope}\\clip (%.2f,%.2f) rectangle (%.2f,%.2f);\n",
				g.Clip.Rect.X, g.Clip.Rect.Y, g.Clip.Rect.MaxX(), g.Clip.Rect.MaxY())
		}
		for j, dc := range g.Calls {
			if !first {
				r.write("\n")
			}
			first = false
			if j == 0 && i > 0 {
				r.printf("\\end{scope}\\begin{scope}\\clip (%.2f,%.2f) rectangle (%.2f,%.2f);\n",
					g.Clip.Rect.X, g.Clip.Rect.Y, g.Clip.Rect.MaxX(), g.Clip.Rect.MaxY())
			}
			dc.Accept(r)
		}
	}
	r.write("\n\\end{scope}\n\\end{tikzpicture}")
	return r.String()
}

func (r *TikZ) xcolor(c geom.Color) {
	r.printf("{rgb,255:red,%d; green,%d; blue,%d}", c.R(), c.G(), c.B())
}

func (r *TikZ) fillOrOmit(c geom.Color) {
	if c.Transparent() {
		return
	}
	r.write("fill=")
	r.xcolor(c)
	r.write(",")
	if !c.Opaque() {
		r.printf("fill opacity=%.2f,", c.AlphaFrac())
	}
}

// lineInfo writes stroke options. TikZ defaults to butt caps, miter joins
// and a miter limit of 10.
func (r *TikZ) lineInfo(stroke geom.Color, l geom.LineStyle) {
	r.printf("line width=%.2fpt", geom.LwdToPt(l.Width))

	if stroke != geom.Black {
		if stroke.Transparent() {
			r.write(",draw=none")
		} else {
			r.write(",draw=")
			r.xcolor(stroke)
			if !stroke.Opaque() {
				r.printf(",draw opacity=%.2f", stroke.AlphaFrac())
			}
		}
	}

	if l.Dashed() {
		for i, n := range geom.DashNibbles(l.Type) {
			switch {
			case i == 0:
				r.printf(",dash pattern=on %d", n)
			case i%2 == 0:
				r.printf(" on %d", n)
			default:
				r.printf(" off %d", n)
			}
		}
	}

	switch l.Cap {
	case geom.CapRound:
		r.write(",line cap=round")
	case geom.CapSquare:
		r.write(",line cap=rect")
	}

	switch l.Join {
	case geom.JoinRound:
		r.write(",line join=round")
	case geom.JoinBevel:
		r.write(",line join=bevel")
	case geom.JoinMiter:
		if math.Abs(l.Miter-geom.DefaultMiter) > 1e-3 {
			r.printf(",miter limit=%.2f", l.Miter)
		}
	}
}

// anchor maps a horizontal adjustment to a TikZ node anchor.
func anchor(hadj float64) string {
	switch {
	case math.Abs(hadj-0.5) < 0.1:
		return "base"
	case math.Abs(hadj-1) < 0.1:
		return "base east"
	default:
		return "base west"
	}
}

func (r *TikZ) VisitText(d scene.Text) {
	r.write(`\node[text=`)
	r.xcolor(d.Stroke)
	if !d.Stroke.Opaque() {
		r.printf(",text opacity=%.2f", d.Stroke.AlphaFrac())
	}
	if d.Rot > 0 {
		r.printf(",rotate=%.2f", d.Rot)
	}
	r.printf(",anchor=%s,inner sep=0pt, outer sep=0pt, scale=%.2f] at (%.2f,%.2f) {\\fontsize{%.2f}{\\baselineskip}\\selectfont ",
		anchor(d.Hadj), r.scale, d.Pos.X, d.Pos.Y, d.Font.Size)
	r.write(escapeTeX(d.Str))
	r.write("};")
}

func (r *TikZ) VisitCircle(d scene.Circle) {
	r.write(`\draw[`)
	r.fillOrOmit(d.Fill)
	r.lineInfo(d.Stroke, d.Line)
	r.printf("] (%.2f,%.2f) circle (%.2f);", d.Center.X, d.Center.Y, d.R)
}

func (r *TikZ) VisitLine(d scene.Line) {
	r.write(`\draw[`)
	r.lineInfo(d.Stroke, d.Line)
	r.printf("] (%.2f,%.2f) -- (%.2f,%.2f);", d.From.X, d.From.Y, d.To.X, d.To.Y)
}

func (r *TikZ) VisitRect(d scene.Rect) {
	b := d.Bounds()
	r.write(`\draw[`)
	r.fillOrOmit(d.Fill)
	r.lineInfo(d.Stroke, d.Line)
	r.printf("] (%.2f,%.2f) rectangle (%.2f,%.2f);", b.X, b.Y, b.MaxX(), b.MaxY())
}

func (r *TikZ) VisitPolyline(d scene.Polyline) {
	r.write(`\draw[`)
	r.lineInfo(d.Stroke, d.Line)
	r.write("] ")
	for i, p := range d.Points {
		if i > 0 {
			r.write(" -- ")
		}
		r.printf("(%.2f,%.2f)", p.X, p.Y)
	}
	r.write(";")
}

func (r *TikZ) VisitPolygon(d scene.Polygon) {
	r.write(`\draw[`)
	r.fillOrOmit(d.Fill)
	r.lineInfo(d.Stroke, d.Line)
	r.write("] ")
	for _, p := range d.Points {
		r.printf("(%.2f,%.2f) -- ", p.X, p.Y)
	}
	r.write("cycle;")
}

func (r *TikZ) VisitPath(d scene.Path) {
	r.write(`\draw[`)
	r.fillOrOmit(d.Fill)
	r.lineInfo(d.Stroke, d.Line)
	if !d.Winding {
		r.write(",even odd rule")
	}
	r.write("] ")
	for _, sp := range d.Subpaths() {
		for i, p := range sp {
			if i == 0 {
				r.printf("(%.2f,%.2f)", p.X, p.Y)
				continue
			}
			r.printf(" -- (%.2f,%.2f)", p.X, p.Y)
		}
		if len(sp) > 1 {
			r.write(" -- cycle ")
		}
	}
	r.write(";")
}

func (r *TikZ) VisitRaster(scene.Raster) {
	r.write("% WARNING: TikZ raster image drawing not yet supported.")
}
