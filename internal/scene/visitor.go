package scene

// Visitor receives one call per draw call kind.
type Visitor interface {
	VisitText(Text)
	VisitCircle(Circle)
	VisitLine(Line)
	VisitRect(Rect)
	VisitPolyline(Polyline)
	VisitPolygon(Polygon)
	VisitPath(Path)
	VisitRaster(Raster)
}

// Walk dispatches every call in order.
func Walk(v Visitor, calls []DrawCall) {
	for _, dc := range calls {
		dc.Accept(v)
	}
}
