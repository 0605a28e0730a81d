package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/plotstore/internal/geom"
	"github.com/roach88/plotstore/internal/scene"
	"github.com/roach88/plotstore/internal/store"
)

func simpleProgram() PageProgram {
	return PageProgram{
		Width:  100,
		Height: 50,
		Ops: []Op{
			{Op: OpRect, Points: [][]float64{{10, 10}, {20, 20}}},
			{Op: OpClip, X: 0, Y: 0, W: 50, H: 25},
			{Op: OpCircle, Points: [][]float64{{50, 25}}, R: 10},
		},
	}
}

func TestRecorder_PlayPage(t *testing.T) {
	st := store.New()
	rec := NewRecorder(st)

	id, err := rec.PlayPage(simpleProgram())
	require.NoError(t, err)

	page, ok := st.Snapshot(0)
	require.True(t, ok)
	assert.Equal(t, id, page.ID)
	assert.Equal(t, geom.White, page.Fill)
	require.Len(t, page.DrawCalls, 2)
	require.Len(t, page.Clips, 2)
	assert.Equal(t, scene.ClipID(1), page.DrawCalls[1].Attributes().ClipID)
}

func TestRecorder_PlayPage_RejectsBadSize(t *testing.T) {
	rec := NewRecorder(store.New())
	_, err := rec.PlayPage(PageProgram{Width: 0, Height: 10})
	assert.Error(t, err)
}

func TestRecorder_Redraw_ScalesProgram(t *testing.T) {
	st := store.New()
	rec := NewRecorder(st)
	id, err := rec.PlayPage(simpleProgram())
	require.NoError(t, err)

	before := st.State().Upid
	require.NoError(t, rec.Redraw(id, 200, 200))

	assert.Equal(t, before+1, st.State().Upid, "redraw is a single version change")

	page, ok := st.Snapshot(0)
	require.True(t, ok)
	assert.Equal(t, 200.0, page.Width)
	assert.Equal(t, 200.0, page.Height)
	assert.False(t, st.Diff(0, 200, 200))

	require.Len(t, page.DrawCalls, 2)
	rect := page.DrawCalls[0].(scene.Rect)
	assert.Equal(t, geom.Pt(20, 40), rect.P0)
	assert.Equal(t, geom.Pt(40, 80), rect.P1)

	circle := page.DrawCalls[1].(scene.Circle)
	assert.Equal(t, geom.Pt(100, 100), circle.Center)
	assert.InDelta(t, 20.0, circle.R, 1e-9, "radius scales by the smaller factor")

	require.Len(t, page.Clips, 2)
	assert.True(t, page.Clips[1].Rect.Equals(geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}, geom.ClipEpsilon))
}

func TestRecorder_Redraw_ZeroKeepsAxis(t *testing.T) {
	st := store.New()
	rec := NewRecorder(st)
	id, err := rec.PlayPage(simpleProgram())
	require.NoError(t, err)

	require.NoError(t, rec.Redraw(id, 0, 100))

	w, h, ok := st.PageSize(0)
	require.True(t, ok)
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 100.0, h)
}

func TestRecorder_Redraw_UnknownPageOnlyResizes(t *testing.T) {
	st := store.New()
	idx, id := st.NewPage(10, 10, geom.White)
	st.Put(idx, scene.Line{Attrs: scene.DefaultAttrs(), From: geom.Pt(0, 0), To: geom.Pt(1, 1)})

	rec := NewRecorder(st)
	require.NoError(t, rec.Redraw(id, 20, 20))

	page, _ := st.Snapshot(idx)
	assert.Equal(t, 20.0, page.Width)
	assert.Empty(t, page.DrawCalls)
}

func TestRecorder_Redraw_MissingPage(t *testing.T) {
	rec := NewRecorder(store.New())
	assert.Error(t, rec.Redraw(3, 10, 10))
}

func TestRecorder_Redraw_FollowsIDAfterRemoval(t *testing.T) {
	st := store.New()
	rec := NewRecorder(st)
	_, err := rec.PlayPage(simpleProgram())
	require.NoError(t, err)
	second, err := rec.PlayPage(simpleProgram())
	require.NoError(t, err)

	require.True(t, st.Remove(0))
	require.NoError(t, rec.Redraw(second, 200, 100))

	page, ok := st.SnapshotID(second)
	require.True(t, ok)
	assert.Equal(t, 200.0, page.Width)
	assert.Len(t, page.DrawCalls, 2)
	assert.Equal(t, 1, st.Size())
}

func TestRecorder_Forget(t *testing.T) {
	st := store.New()
	rec := NewRecorder(st)
	id, err := rec.PlayPage(simpleProgram())
	require.NoError(t, err)

	rec.Forget(id)
	require.NoError(t, rec.Redraw(id, 100, 50))

	page, _ := st.Snapshot(0)
	assert.Empty(t, page.DrawCalls)
}

func TestBuildDrawCall_Kinds(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		kind scene.Kind
	}{
		{"line", Op{Op: OpLine, Points: [][]float64{{0, 0}, {1, 1}}}, scene.KindLine},
		{"polyline", Op{Op: OpPolyline, Points: [][]float64{{0, 0}, {1, 1}, {2, 0}}}, scene.KindPolyline},
		{"polygon", Op{Op: OpPolygon, Points: [][]float64{{0, 0}, {1, 1}, {2, 0}}}, scene.KindPolygon},
		{"path", Op{Op: OpPath, Points: [][]float64{{0, 0}, {1, 1}}, NPer: []int{2}}, scene.KindPath},
		{"text", Op{Op: OpText, Points: [][]float64{{0, 0}}, Text: "hi"}, scene.KindText},
		{"raster", Op{Op: OpRaster, X: 0, Y: 0, W: 2, H: 2, SrcW: 1, SrcH: 1, Pixels: []string{"red"}}, scene.KindRaster},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc, err := buildDrawCall(tt.op, 1, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, dc.Kind())
		})
	}
}

func TestBuildDrawCall_TextDefaultsAndNFC(t *testing.T) {
	dc, err := buildDrawCall(Op{Op: OpText, Points: [][]float64{{1, 2}}, Text: "é"}, 2, 2)
	require.NoError(t, err)

	txt := dc.(scene.Text)
	assert.Equal(t, "é", txt.Str)
	assert.Equal(t, geom.Pt(2, 4), txt.Pos)
	assert.Equal(t, scene.Font{Family: "sans", Size: 12, Weight: 400}, txt.Font)
}
