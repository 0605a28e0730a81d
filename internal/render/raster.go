package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"

	"github.com/roach88/plotstore/internal/geom"
	"github.com/roach88/plotstore/internal/scene"
)

// ImageFormat selects the encoding of a Raster renderer.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatTIFF ImageFormat = "tiff"
	FormatBMP  ImageFormat = "bmp"
)

// Raster rasterizes a page at scale pixels per device unit.
//
// Rectangles, circles, lines, polylines, polygons and paths are drawn with
// the same geometry as the vector formats. Raster images are drawn when
// unrotated. Text is not drawn: glyph rendering needs font files and shaping,
// which this package does not have.
type Raster struct {
	format ImageFormat
	scale  float64
	img    *image.RGBA
	filler *rasterx.Filler
	dasher *rasterx.Dasher
	clip   image.Rectangle
}

var _ scene.Visitor = (*Raster)(nil)

// NewRaster creates a raster renderer for the given format.
func NewRaster(format ImageFormat) *Raster {
	return &Raster{format: format}
}

// RenderBinary implements BinaryRenderer.
func (r *Raster) RenderBinary(p *scene.Page, scale float64) ([]byte, error) {
	img := r.Image(p, scale)

	var buf bytes.Buffer
	var err error
	switch r.format {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("unknown image format %q", r.format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.format, err)
	}
	return buf.Bytes(), nil
}

// Image draws p into a new RGBA image without encoding it.
func (r *Raster) Image(p *scene.Page, scale float64) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	r.scale = scale
	w := max(int(math.Round(p.Width*scale)), 1)
	h := max(int(math.Round(p.Height*scale)), 1)

	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, r.img, r.img.Bounds())
	r.filler = rasterx.NewFiller(w, h, scanner)
	r.dasher = rasterx.NewDasher(w, h, scanner)

	if !p.Fill.Transparent() {
		draw.Draw(r.img, r.img.Bounds(), image.NewUniform(p.Fill.NRGBA()), image.Point{}, draw.Src)
	}

	for _, g := range p.Groups() {
		r.clip = r.pixelRect(g.Clip.Rect).Intersect(r.img.Bounds())
		if r.clip.Empty() {
			continue
		}
		scanner.SetClip(r.clip)
		scene.Walk(r, g.Calls)
	}
	return r.img
}

// pixelRect converts a device rectangle to the smallest covering pixel
// rectangle.
func (r *Raster) pixelRect(b geom.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(b.X*r.scale)),
		int(math.Floor(b.Y*r.scale)),
		int(math.Ceil(b.MaxX()*r.scale)),
		int(math.Ceil(b.MaxY()*r.scale)),
	)
}

func (r *Raster) pt(p geom.Point) fixed.Point26_6 {
	return rasterx.ToFixedP(p.X*r.scale, p.Y*r.scale)
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

var capFuncs = map[geom.LineCap]rasterx.CapFunc{
	geom.CapRound:  rasterx.RoundCap,
	geom.CapButt:   rasterx.ButtCap,
	geom.CapSquare: rasterx.SquareCap,
}

var joinModes = map[geom.LineJoin]rasterx.JoinMode{
	geom.JoinRound: rasterx.Round,
	geom.JoinMiter: rasterx.Miter,
	geom.JoinBevel: rasterx.Bevel,
}

// fill paints the outline built by add with the fill color.
func (r *Raster) fill(c geom.Color, nonZero bool, add func(rasterx.Adder)) {
	if c.Transparent() {
		return
	}
	r.filler.Clear()
	r.filler.SetWinding(nonZero)
	add(r.filler)
	r.filler.SetColor(c.NRGBA())
	r.filler.Draw()
}

// stroke outlines the path built by add. Widths follow the vector formats:
// producer units of 1/96 in converted to 1/72 in, then scaled to pixels.
func (r *Raster) stroke(c geom.Color, l geom.LineStyle, add func(rasterx.Adder)) {
	if c.Transparent() || l.Type == geom.LineBlank {
		return
	}
	width := geom.LwdToPt(math.Max(l.Width, 0.01)) * r.scale

	var dashes []float64
	for _, d := range geom.DashLengths(l.Type, l.Width) {
		dashes = append(dashes, geom.LwdToPt(d)*r.scale)
	}

	capFn, ok := capFuncs[l.Cap]
	if !ok {
		capFn = rasterx.RoundCap
	}
	join, ok := joinModes[l.Join]
	if !ok {
		join = rasterx.Round
	}
	gap := rasterx.FlatGap
	if l.Join == geom.JoinRound {
		gap = rasterx.RoundGap
	}

	r.dasher.Clear()
	r.dasher.SetStroke(toFixed(width), toFixed(l.Miter), capFn, capFn, gap, join, dashes, 0)
	add(r.dasher)
	r.dasher.SetColor(c.NRGBA())
	r.dasher.Draw()
}

func (r *Raster) polyline(pts []geom.Point, closed bool) func(rasterx.Adder) {
	return func(a rasterx.Adder) {
		if len(pts) == 0 {
			return
		}
		a.Start(r.pt(pts[0]))
		for _, p := range pts[1:] {
			a.Line(r.pt(p))
		}
		a.Stop(closed)
	}
}

// VisitText is not drawn; see the type documentation.
func (r *Raster) VisitText(scene.Text) {}

func (r *Raster) VisitCircle(d scene.Circle) {
	add := func(a rasterx.Adder) {
		rasterx.AddCircle(d.Center.X*r.scale, d.Center.Y*r.scale, d.R*r.scale, a)
	}
	r.fill(d.Fill, true, add)
	r.stroke(d.Stroke, d.Line, add)
}

func (r *Raster) VisitLine(d scene.Line) {
	r.stroke(d.Stroke, d.Line, r.polyline([]geom.Point{d.From, d.To}, false))
}

func (r *Raster) VisitRect(d scene.Rect) {
	b := d.Bounds()
	add := func(a rasterx.Adder) {
		rasterx.AddRect(b.X*r.scale, b.Y*r.scale, b.MaxX()*r.scale, b.MaxY()*r.scale, 0, a)
	}
	r.fill(d.Fill, true, add)
	r.stroke(d.Stroke, d.Line, add)
}

func (r *Raster) VisitPolyline(d scene.Polyline) {
	r.stroke(d.Stroke, d.Line, r.polyline(d.Points, false))
}

func (r *Raster) VisitPolygon(d scene.Polygon) {
	add := r.polyline(d.Points, true)
	r.fill(d.Fill, true, add)
	r.stroke(d.Stroke, d.Line, add)
}

func (r *Raster) VisitPath(d scene.Path) {
	sub := d.Subpaths()
	add := func(a rasterx.Adder) {
		for _, sp := range sub {
			r.polyline(sp, true)(a)
		}
	}
	r.fill(d.Fill, d.Winding, add)
	r.stroke(d.Stroke, d.Line, add)
}

// VisitRaster scales the image into its target rectangle. Rotated images
// are skipped.
func (r *Raster) VisitRaster(d scene.Raster) {
	if d.Rot != 0 || d.SrcW <= 0 || d.SrcH <= 0 {
		return
	}
	dst := r.pixelRect(d.Rect)
	if dst.Empty() {
		return
	}
	var scaler draw.Scaler = draw.NearestNeighbor
	if d.Interpolate {
		scaler = draw.BiLinear
	}
	target := r.img.SubImage(r.clip).(*image.RGBA)
	src := sourceImage(d)
	scaler.Scale(target, dst, src, src.Bounds(), draw.Over, nil)
}
