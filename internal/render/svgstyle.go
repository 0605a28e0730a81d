package render

import (
	"math"

	"github.com/roach88/plotstore/internal/geom"
)

const portableMiterDefault = 4.0

func writeDashes(w *buffer, lengths []float64) {
	for i, l := range lengths {
		if i > 0 {
			w.write(", ")
		}
		w.printf("%.2f", l)
	}
}

// cssLine writes stroke properties that differ from the document defaults
// declared in the <style> block: black stroke, round caps and joins, miter
// limit 10.
func cssLine(w *buffer, stroke geom.Color, l geom.LineStyle) {
	w.printf("stroke-width: %.2f;", geom.LwdToPt(l.Width))

	if stroke != geom.Black {
		if stroke.Transparent() {
			w.write("stroke: none;")
		} else {
			w.printf("stroke: %s;", stroke.Hex())
			if !stroke.Opaque() {
				w.printf("stroke-opacity: %.2f;", stroke.AlphaFrac())
			}
		}
	}

	if l.Dashed() {
		w.write(" stroke-dasharray: ")
		writeDashes(w, geom.DashLengths(l.Type, l.Width))
		w.write(";")
	}

	switch l.Cap {
	case geom.CapButt:
		w.write("stroke-linecap: butt;")
	case geom.CapSquare:
		w.write("stroke-linecap: square;")
	}

	switch l.Join {
	case geom.JoinBevel:
		w.write("stroke-linejoin: bevel;")
	case geom.JoinMiter:
		w.write("stroke-linejoin: miter;")
		if math.Abs(l.Miter-geom.DefaultMiter) > 1e-3 {
			w.printf("stroke-miterlimit: %.2f;", l.Miter)
		}
	}
}

func cssFillOrNone(w *buffer, c geom.Color) {
	if c.Transparent() {
		w.write("fill: none;")
		return
	}
	cssFillOrOmit(w, c)
}

func cssFillOrOmit(w *buffer, c geom.Color) {
	if c.Transparent() {
		return
	}
	w.printf("fill: %s;", c.Hex())
	if !c.Opaque() {
		w.printf("fill-opacity: %.2f;", c.AlphaFrac())
	}
}

// attrLine writes every stroke property as a presentation attribute. The
// portable format cannot rely on a style block, so only SVG's own defaults
// (butt caps, miter joins with limit 4) are omitted.
func attrLine(w *buffer, stroke geom.Color, l geom.LineStyle) {
	w.printf(`stroke-width="%.2f"`, geom.LwdToPt(l.Width))

	if !stroke.Transparent() {
		w.printf(` stroke="%s"`, stroke.Hex())
		if !stroke.Opaque() {
			w.printf(` stroke-opacity="%.2f"`, stroke.AlphaFrac())
		}
	}

	if l.Dashed() {
		w.write(` stroke-dasharray="`)
		writeDashes(w, geom.DashLengths(l.Type, l.Width))
		w.write(`"`)
	}

	switch l.Cap {
	case geom.CapRound:
		w.write(` stroke-linecap="round"`)
	case geom.CapSquare:
		w.write(` stroke-linecap="square"`)
	}

	switch l.Join {
	case geom.JoinRound:
		w.write(` stroke-linejoin="round"`)
	case geom.JoinBevel:
		w.write(` stroke-linejoin="bevel"`)
	case geom.JoinMiter:
		if math.Abs(l.Miter-portableMiterDefault) > 1e-3 {
			w.printf(` stroke-miterlimit="%.2f"`, l.Miter)
		}
	}
}

func attrFillOrNone(w *buffer, c geom.Color) {
	if c.Transparent() {
		w.write(` fill="none"`)
		return
	}
	attrFillOrOmit(w, c)
}

func attrFillOrOmit(w *buffer, c geom.Color) {
	if c.Transparent() {
		return
	}
	w.printf(` fill="%s"`, c.Hex())
	if !c.Opaque() {
		w.printf(` fill-opacity="%.2f"`, c.AlphaFrac())
	}
}

func writePoints(w *buffer, pts []geom.Point) {
	for i, p := range pts {
		if i > 0 {
			w.write(" ")
		}
		w.printf("%.2f,%.2f", p.X, p.Y)
	}
}

// writePathData emits one M/L run per subpath, closing each with Z.
func writePathData(w *buffer, subpaths [][]geom.Point) {
	for _, sp := range subpaths {
		for i, p := range sp {
			if i == 0 {
				w.printf("M%.2f %.2f", p.X, p.Y)
				continue
			}
			w.printf("L%.2f %.2f", p.X, p.Y)
		}
		if len(sp) > 1 {
			w.write("Z")
		}
	}
}

func fillRule(winding bool) string {
	if winding {
		return "nonzero"
	}
	return "evenodd"
}

func textAnchor(hadj float64) string {
	switch hadj {
	case 0.5:
		return `text-anchor="middle" `
	case 1:
		return `text-anchor="end" `
	}
	return ""
}
