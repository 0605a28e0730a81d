package scene

import (
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/plotstore/internal/geom"
)

// ClipID identifies a clip region within one page. Ids are assigned in
// order from 0 and restart after Clear.
type ClipID int

// Kind tags a draw call variant.
type Kind string

const (
	KindText     Kind = "text"
	KindCircle   Kind = "circle"
	KindLine     Kind = "line"
	KindRect     Kind = "rect"
	KindPolyline Kind = "polyline"
	KindPolygon  Kind = "polygon"
	KindPath     Kind = "path"
	KindRaster   Kind = "raster"
)

// Attrs is the style shared by every draw call.
type Attrs struct {
	Stroke geom.Color
	Fill   geom.Color
	// Gamma is recorded for completeness; no renderer reads it.
	Gamma  float64
	Line   geom.LineStyle
	ClipID ClipID
}

// DefaultAttrs is a black 1-unit round-capped stroke without fill.
func DefaultAttrs() Attrs {
	return Attrs{
		Stroke: geom.Black,
		Fill:   geom.TransparentWhite,
		Gamma:  1,
		Line:   geom.DefaultLineStyle(),
	}
}

// Attributes returns the shared style.
func (a Attrs) Attributes() Attrs { return a }

// DrawCall is one recorded primitive. The set of implementations is closed.
type DrawCall interface {
	Kind() Kind
	Attributes() Attrs
	// Accept calls the visitor method matching the concrete kind.
	Accept(v Visitor)
	bind(id ClipID) DrawCall
}

// Font describes how a Text call was measured by the producer.
type Font struct {
	Family   string
	Size     float64
	Weight   int
	Italic   bool
	Features string
	// Width is the pre-measured string width in pixels. Zero or negative
	// means unknown.
	Width float64
}

// Text draws a string anchored at Pos.
type Text struct {
	Attrs
	Pos geom.Point
	// Rot is in degrees; positive values rotate counter-clockwise on screen.
	Rot float64
	// Hadj is the horizontal anchor: 0 left, 0.5 center, 1 right.
	Hadj float64
	Str  string
	Font Font
}

// NewText builds a Text call with its string in Unicode NFC form.
func NewText(a Attrs, pos geom.Point, str string, rot, hadj float64, font Font) Text {
	return Text{Attrs: a, Pos: pos, Rot: rot, Hadj: hadj, Str: norm.NFC.String(str), Font: font}
}

func (Text) Kind() Kind { return KindText }
func (d Text) Accept(v Visitor) { v.VisitText(d) }
func (d Text) bind(id ClipID) DrawCall { d.ClipID = id; return d }

// Circle draws a circle of radius R around Center.
type Circle struct {
	Attrs
	Center geom.Point
	R      float64
}

func (Circle) Kind() Kind { return KindCircle }
func (d Circle) Accept(v Visitor) { v.VisitCircle(d) }
func (d Circle) bind(id ClipID) DrawCall { d.ClipID = id; return d }

// Line draws a single segment.
type Line struct {
	Attrs
	From geom.Point
	To   geom.Point
}

func (Line) Kind() Kind { return KindLine }
func (d Line) Accept(v Visitor) { v.VisitLine(d) }
func (d Line) bind(id ClipID) DrawCall { d.ClipID = id; return d }

// Rect draws an axis-aligned rectangle given by two opposite corners.
type Rect struct {
	Attrs
	P0 geom.Point
	P1 geom.Point
}

// Bounds returns the rectangle with non-negative width and height.
func (d Rect) Bounds() geom.Rect {
	return geom.NormalizeRect(d.P0.X, d.P0.Y, d.P1.X, d.P1.Y)
}

func (Rect) Kind() Kind { return KindRect }
func (d Rect) Accept(v Visitor) { v.VisitRect(d) }
func (d Rect) bind(id ClipID) DrawCall { d.ClipID = id; return d }

// Polyline draws an open chain of segments.
type Polyline struct {
	Attrs
	Points []geom.Point
}

func (Polyline) Kind() Kind { return KindPolyline }
func (d Polyline) Accept(v Visitor) { v.VisitPolyline(d) }
func (d Polyline) bind(id ClipID) DrawCall { d.ClipID = id; return d }

// Polygon draws a closed chain of segments.
type Polygon struct {
	Attrs
	Points []geom.Point
}

func (Polygon) Kind() Kind { return KindPolygon }
func (d Polygon) Accept(v Visitor) { v.VisitPolygon(d) }
func (d Polygon) bind(id ClipID) DrawCall { d.ClipID = id; return d }

// Path draws one or more closed subpaths. Points holds every vertex; NPer
// holds the vertex count of each subpath in order.
type Path struct {
	Attrs
	Points []geom.Point
	NPer   []int
	// Winding selects the nonzero fill rule; false means even-odd.
	Winding bool
}

// Subpaths splits Points according to NPer. Counts that run past the end
// of Points are truncated.
func (d Path) Subpaths() [][]geom.Point {
	out := make([][]geom.Point, 0, len(d.NPer))
	off := 0
	for _, n := range d.NPer {
		if n <= 0 || off >= len(d.Points) {
			continue
		}
		end := min(off+n, len(d.Points))
		out = append(out, d.Points[off:end])
		off = end
	}
	return out
}

func (Path) Kind() Kind { return KindPath }
func (d Path) Accept(v Visitor) { v.VisitPath(d) }
func (d Path) bind(id ClipID) DrawCall { d.ClipID = id; return d }

// Raster draws a pixel buffer into a target rectangle.
type Raster struct {
	Attrs
	// Pixels is row-major, SrcW*SrcH entries.
	Pixels []geom.Color
	SrcW   int
	SrcH   int
	Rect   geom.Rect
	Rot    float64
	// Interpolate selects smooth sampling instead of nearest neighbor.
	Interpolate bool
}

// NewRaster builds a Raster call. Negative target sizes are stored as
// magnitudes. A negative height moves the origin up to the top edge; x is
// kept as given.
func NewRaster(a Attrs, pixels []geom.Color, srcW, srcH int, x, y, width, height, rot float64, interpolate bool) Raster {
	if width < 0 {
		width = -width
	}
	if height < 0 {
		height = -height
		y -= height
	}
	return Raster{
		Attrs:       a,
		Pixels:      pixels,
		SrcW:        srcW,
		SrcH:        srcH,
		Rect:        geom.Rect{X: x, Y: y, Width: width, Height: height},
		Rot:         rot,
		Interpolate: interpolate,
	}
}

func (Raster) Kind() Kind { return KindRaster }
func (d Raster) Accept(v Visitor) { v.VisitRaster(d) }
func (d Raster) bind(id ClipID) DrawCall { d.ClipID = id; return d }
