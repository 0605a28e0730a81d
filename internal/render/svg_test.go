package render

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/plotstore/internal/geom"
	"github.com/roach88/plotstore/internal/scene"
	"github.com/roach88/plotstore/internal/testutil"
)

func TestSVG_Golden(t *testing.T) {
	out := NewSVG("").RenderText(twoClipPage(), 1)
	newGoldie(t).Assert(t, "svg_two_clips", []byte(out))
}

func TestSVGPortable_Golden(t *testing.T) {
	out := NewSVGPortable(NewSequenceGenerator("t")).RenderText(twoClipPage(), 1)
	newGoldie(t).Assert(t, "svgp_two_clips", []byte(out))
}

func TestSVG_RedRect(t *testing.T) {
	out := NewSVG("").RenderText(singleRectPage(geom.RGB(255, 0, 0)), 1)

	assert.Contains(t, out, `<rect x="0.00" y="0.00" width="10.00" height="10.00" style="stroke-width: 0.75;fill: #FF0000;"/>`)
	assert.NotContains(t, out, "fill-opacity")
}

func TestSVG_TranslucentFill(t *testing.T) {
	out := NewSVG("").RenderText(singleRectPage(geom.RGBA(255, 0, 0, 128)), 1)

	assert.Contains(t, out, "fill: #FF0000;fill-opacity: 0.50;")
}

func TestSVG_ScaleAffectsSizeNotViewBox(t *testing.T) {
	out := NewSVG("").RenderText(singleRectPage(geom.White), 2)

	assert.Contains(t, out, `width="200.00" height="200.00" viewBox="0 0 100.00 100.00"`)
}

func TestSVG_ExtraCSS(t *testing.T) {
	out := NewSVG(".plotstore text { fill: red; }").RenderText(singleRectPage(geom.White), 1)

	assert.Contains(t, out, "    }\n.plotstore text { fill: red; }\n  ]]></style>")
}

func TestSVG_ClipGroupBoundaries(t *testing.T) {
	p := scene.NewPage(1, 100, 100, geom.White)
	for i := 0; i < 3; i++ {
		p.Put(scene.Circle{Attrs: scene.DefaultAttrs(), Center: geom.Pt(5, 5), R: 1})
	}
	p.Clip(geom.Rect{Width: 50, Height: 50})
	for i := 0; i < 5; i++ {
		p.Put(scene.Circle{Attrs: scene.DefaultAttrs(), Center: geom.Pt(5, 5), R: 2})
	}

	out := NewSVG("").RenderText(p, 1)

	assert.Equal(t, 2, strings.Count(out, "<g clip-path="))
	assert.Equal(t, 1, strings.Count(out, "</g><g clip-path="))
}

func TestSVG_LineStyle(t *testing.T) {
	tests := []struct {
		name   string
		stroke geom.Color
		line   geom.LineStyle
		want   string
		absent string
	}{
		{
			name:   "defaults omitted",
			stroke: geom.Black,
			line:   geom.DefaultLineStyle(),
			want:   `style="stroke-width: 0.75;"`,
		},
		{
			name:   "transparent stroke",
			stroke: geom.TransparentWhite,
			line:   geom.DefaultLineStyle(),
			want:   "stroke: none;",
		},
		{
			name:   "translucent stroke",
			stroke: geom.RGBA(0, 255, 0, 51),
			line:   geom.DefaultLineStyle(),
			want:   "stroke: #00FF00;stroke-opacity: 0.20;",
		},
		{
			name:   "butt cap and bevel join",
			stroke: geom.Black,
			line:   geom.LineStyle{Width: 1, Cap: geom.CapButt, Join: geom.JoinBevel, Miter: 10},
			want:   "stroke-linecap: butt;stroke-linejoin: bevel;",
		},
		{
			name:   "miter with default limit",
			stroke: geom.Black,
			line:   geom.LineStyle{Width: 1, Cap: geom.CapRound, Join: geom.JoinMiter, Miter: 10},
			want:   "stroke-linejoin: miter;",
			absent: "stroke-miterlimit: 10",
		},
		{
			name:   "miter with custom limit",
			stroke: geom.Black,
			line:   geom.LineStyle{Width: 1, Cap: geom.CapRound, Join: geom.JoinMiter, Miter: 3},
			want:   "stroke-linejoin: miter;stroke-miterlimit: 3.00;",
		},
		{
			name:   "dash pattern",
			stroke: geom.Black,
			line:   geom.LineStyle{Width: 1, Type: geom.LineDotDash, Cap: geom.CapRound, Join: geom.JoinRound, Miter: 10},
			want:   "stroke-dasharray: 1.00, 3.00, 4.00, 3.00;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scene.NewPage(1, 10, 10, geom.White)
			a := scene.DefaultAttrs()
			a.Stroke = tt.stroke
			a.Line = tt.line
			p.Put(scene.Line{Attrs: a, From: geom.Pt(0, 0), To: geom.Pt(1, 1)})

			// The shared <style> block mentions every default, so only the
			// line element itself is inspected.
			line := lineElement(t, NewSVG("").RenderText(p, 1))

			assert.Contains(t, line, tt.want)
			if tt.absent != "" {
				assert.NotContains(t, line, tt.absent)
			}
		})
	}
}

// lineElement returns the first <line .../> element of an SVG document.
func lineElement(t *testing.T, out string) string {
	t.Helper()
	start := strings.Index(out, "<line ")
	require.GreaterOrEqual(t, start, 0, "no line element in %s", out)
	end := strings.Index(out[start:], "/>")
	require.GreaterOrEqual(t, end, 0, "unterminated line element")
	return out[start : start+end+2]
}

func TestSVG_DashScalesWithWidth(t *testing.T) {
	render := func(lwd float64) string {
		p := scene.NewPage(1, 10, 10, geom.White)
		a := scene.DefaultAttrs()
		a.Line.Type = geom.LineDashed
		a.Line.Width = lwd
		p.Put(scene.Line{Attrs: a, From: geom.Pt(0, 0), To: geom.Pt(1, 1)})
		return NewSVG("").RenderText(p, 1)
	}

	assert.Contains(t, render(1), "stroke-dasharray: 4.00, 4.00;")
	assert.Contains(t, render(2), "stroke-dasharray: 8.00, 8.00;")
}

func TestSVG_Text(t *testing.T) {
	tests := []struct {
		name string
		text scene.Text
		want []string
	}{
		{
			name: "rotated right anchored",
			text: scene.NewText(scene.DefaultAttrs(), geom.Pt(10, 20), "x", 90, 1, scene.Font{Family: "serif", Size: 10, Weight: 400}),
			want: []string{`transform="translate(10.00,20.00) rotate(-90.00)"`, `text-anchor="end"`},
		},
		{
			name: "bold italic with features",
			text: scene.NewText(scene.DefaultAttrs(), geom.Pt(0, 0), "x", 0, 0, scene.Font{Family: "sans", Size: 10, Weight: 700, Italic: true, Features: `"liga" 0`}),
			want: []string{"font-weight: bold;", "font-style: italic;", "font-feature-settings: &quot;liga&quot; 0;"},
		},
		{
			name: "numeric weight",
			text: scene.NewText(scene.DefaultAttrs(), geom.Pt(0, 0), "x", 0, 0, scene.Font{Family: "sans", Size: 10, Weight: 300}),
			want: []string{"font-weight: 300;"},
		},
		{
			name: "measured width",
			text: scene.NewText(scene.DefaultAttrs(), geom.Pt(0, 0), "x", 0, 0, scene.Font{Family: "sans", Size: 10, Weight: 400, Width: 33.3}),
			want: []string{`textLength="33.30px" lengthAdjust="spacingAndGlyphs"`},
		},
		{
			name: "escaped content",
			text: scene.NewText(scene.DefaultAttrs(), geom.Pt(0, 0), `<&'">`, 0, 0, scene.Font{Family: "sans", Size: 10, Weight: 400}),
			want: []string{">&lt;&amp;&apos;&quot;&gt;</text>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scene.NewPage(1, 100, 100, geom.White)
			p.Put(tt.text)

			out := NewSVG("").RenderText(p, 1)

			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestSVG_TextWithoutWidthOmitsLength(t *testing.T) {
	p := scene.NewPage(1, 100, 100, geom.White)
	p.Put(scene.NewText(scene.DefaultAttrs(), geom.Pt(0, 0), "x", 0, 0, scene.Font{Size: 10, Weight: 400, Width: -1}))

	out := NewSVG("").RenderText(p, 1)

	assert.NotContains(t, out, "textLength")
	assert.NotContains(t, out, "text-anchor")
}

func TestSVG_Path(t *testing.T) {
	p := scene.NewPage(1, 100, 100, geom.White)
	p.Put(scene.Path{
		Attrs:   scene.DefaultAttrs(),
		Points:  []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(20, 20), geom.Pt(30, 20), geom.Pt(30, 30)},
		NPer:    []int{3, 3},
		Winding: false,
	})

	out := NewSVG("").RenderText(p, 1)

	assert.Contains(t, out, `d="M0.00 0.00L10.00 0.00L10.00 10.00ZM20.00 20.00L30.00 20.00L30.00 30.00Z"`)
	assert.Contains(t, out, "fill-rule: evenodd;")
}

func TestSVG_Raster(t *testing.T) {
	p := scene.NewPage(1, 100, 100, geom.White)
	px := []geom.Color{geom.Black, geom.White, geom.White, geom.Black}
	p.Put(scene.NewRaster(scene.DefaultAttrs(), px, 2, 2, 10, 40, 20, -20, 30, false))

	out := NewSVG("").RenderText(p, 1)

	assert.Contains(t, out, `<g><image x="10.00" y="20.00" width="20.00" height="20.00" preserveAspectRatio="none" image-rendering="pixelated" transform="rotate(-30.00,10.00,20.00)" xlink:href="data:image/png;base64,`)
}

func TestSVGPortable_UniqueClipIDsPerRender(t *testing.T) {
	r := NewSVGPortable(nil)
	page := singleRectPage(geom.White)

	first := r.RenderText(page, 1)
	second := r.RenderText(page, 1)

	assert.NotEqual(t, first, second)
	assert.Contains(t, first, `<clipPath id="c0-`)
	assert.NotContains(t, first, "<style")
}

func TestSVGPortable_ConstantTokenIsReproducible(t *testing.T) {
	r := NewSVGPortable(testutil.NewConstantGenerator("fixed"))
	page := singleRectPage(geom.White)

	first := r.RenderText(page, 1)
	assert.Equal(t, first, r.RenderText(page, 1))
	assert.Contains(t, first, `<clipPath id="c0-fixed">`)
}

func TestGzip_RoundTrip(t *testing.T) {
	page := twoClipPage()
	want := NewSVG("").RenderText(page, 1)

	data, err := NewGzip(NewSVG("")).RenderBinary(page, 1)
	require.NoError(t, err)

	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestGzip_RecomputesEveryCall(t *testing.T) {
	page := singleRectPage(geom.White)
	r := NewGzip(NewSVGPortable(NewSequenceGenerator("one", "two")))

	a, err := r.RenderBinary(page, 1)
	require.NoError(t, err)
	b, err := r.RenderBinary(page, 1)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
