package geom

import "math"

// ClipEpsilon is the tolerance used when comparing clip rectangles.
const ClipEpsilon = 0.01

// Point is a 2D position in device units.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Scale returns p with each axis multiplied by the given factors.
func (p Point) Scale(sx, sy float64) Point {
	return Point{X: p.X * sx, Y: p.Y * sy}
}

// Rect is an axis-aligned rectangle with a non-negative width and height
// once normalized.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NormalizeRect builds a Rect from two opposite corners given in any order.
func NormalizeRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X:      math.Min(x0, x1),
		Y:      math.Min(y0, y1),
		Width:  math.Abs(x0 - x1),
		Height: math.Abs(y0 - y1),
	}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Equals reports whether every field of r and o differs by less than eps.
func (r Rect) Equals(o Rect, eps float64) bool {
	return math.Abs(r.X-o.X) < eps &&
		math.Abs(r.Y-o.Y) < eps &&
		math.Abs(r.Width-o.Width) < eps &&
		math.Abs(r.Height-o.Height) < eps
}

// Scale returns r with x/width multiplied by sx and y/height by sy.
func (r Rect) Scale(sx, sy float64) Rect {
	return Rect{X: r.X * sx, Y: r.Y * sy, Width: r.Width * sx, Height: r.Height * sy}
}
