package render

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/plotstore/internal/geom"
	"github.com/roach88/plotstore/internal/scene"
)

// twoClipPage has a filled rect in the full-page clip, then a dashed line
// and a centered text in a second clip.
func twoClipPage() *scene.Page {
	p := scene.NewPage(1, 100, 50, geom.White)

	rect := scene.Rect{Attrs: scene.DefaultAttrs(), P0: geom.Pt(0, 0), P1: geom.Pt(10, 10)}
	rect.Fill = geom.RGB(255, 0, 0)
	p.Put(rect)

	p.Clip(geom.Rect{X: 10, Y: 10, Width: 40, Height: 20})

	line := scene.Line{Attrs: scene.DefaultAttrs(), From: geom.Pt(0, 0), To: geom.Pt(100, 50)}
	line.Stroke = geom.RGB(0, 0, 255)
	line.Line.Width = 2
	line.Line.Type = geom.LineDashed
	p.Put(line)

	p.Put(scene.NewText(scene.DefaultAttrs(), geom.Pt(5, 40), "a<b", 0, 0.5,
		scene.Font{Family: "Helvetica", Size: 12, Weight: 400}))
	return p
}

func singleRectPage(fill geom.Color) *scene.Page {
	p := scene.NewPage(1, 100, 100, geom.White)
	rect := scene.Rect{Attrs: scene.DefaultAttrs(), P0: geom.Pt(0, 0), P1: geom.Pt(10, 10)}
	rect.Fill = fill
	p.Put(rect)
	return p
}

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
