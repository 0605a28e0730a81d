package geom

import "math"

// LineType is the packed dash description used by producers: 0 is solid,
// -1 blank, anything else a sequence of up to 8 dash/gap lengths stored in
// consecutive 4-bit nibbles, lowest nibble first.
type LineType int

// Predefined line types.
const (
	LineBlank    LineType = -1
	LineSolid    LineType = 0
	LineDashed   LineType = 4 + (4 << 4)
	LineDotted   LineType = 1 + (3 << 4)
	LineDotDash  LineType = 1 + (3 << 4) + (4 << 8) + (3 << 12)
	LineLongDash LineType = 7 + (3 << 4)
	LineTwoDash  LineType = 2 + (2 << 4) + (6 << 8) + (2 << 12)
)

// LineCap is the stroke end style.
type LineCap int

const (
	CapRound  LineCap = 1
	CapButt   LineCap = 2
	CapSquare LineCap = 3
)

// LineJoin is the stroke corner style.
type LineJoin int

const (
	JoinRound LineJoin = 1
	JoinMiter LineJoin = 2
	JoinBevel LineJoin = 3
)

// DefaultMiter is the miter limit assumed when none is emitted.
const DefaultMiter = 10.0

// maxDashTerms bounds the nibble expansion of a LineType.
const maxDashTerms = 8

// LineStyle describes how outlines are stroked.
type LineStyle struct {
	Width float64  `json:"lwd"`
	Type  LineType `json:"lty"`
	Cap   LineCap  `json:"lend"`
	Join  LineJoin `json:"ljoin"`
	Miter float64  `json:"lmitre"`
}

// DefaultLineStyle is a 1-unit solid line with round caps and joins.
func DefaultLineStyle() LineStyle {
	return LineStyle{Width: 1, Type: LineSolid, Cap: CapRound, Join: JoinRound, Miter: DefaultMiter}
}

// Dashed reports whether the style carries a dash pattern.
func (l LineStyle) Dashed() bool {
	return l.Type != LineSolid && l.Type != LineBlank
}

// DashLengths expands a line type into dash/gap lengths scaled by the line
// width. Widths below 1 do not shrink the pattern. Solid and blank types
// yield nil.
func DashLengths(lty LineType, lwd float64) []float64 {
	if lty == LineSolid || lty == LineBlank {
		return nil
	}
	scale := math.Max(lwd, 1)
	bits := uint32(lty)
	out := []float64{float64(bits&15) * scale}
	bits >>= 4
	for i := 1; i < maxDashTerms && bits&15 != 0; i++ {
		out = append(out, float64(bits&15)*scale)
		bits >>= 4
	}
	return out
}

// DashNibbles returns the unscaled nibble sequence of lty.
func DashNibbles(lty LineType) []int {
	if lty == LineSolid || lty == LineBlank {
		return nil
	}
	bits := uint32(lty)
	out := []int{int(bits & 15)}
	bits >>= 4
	for i := 1; i < maxDashTerms && bits&15 != 0; i++ {
		out = append(out, int(bits&15))
		bits >>= 4
	}
	return out
}

// LwdToPt converts a producer line width (1/96 in) to output points (1/72 in).
func LwdToPt(lwd float64) float64 {
	return lwd / 96 * 72
}
