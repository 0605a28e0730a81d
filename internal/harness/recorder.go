package harness

import (
	"fmt"
	"math"
	"sync"

	"github.com/roach88/plotstore/internal/geom"
	"github.com/roach88/plotstore/internal/scene"
)

// Target is the page store a Recorder draws into. Pages are addressed by
// their stable id so concurrent removals cannot redirect a draw.
type Target interface {
	NewPage(width, height float64, fill geom.Color) (int, scene.PageID)
	PutID(id scene.PageID, dc scene.DrawCall) bool
	PutQuietID(id scene.PageID, dc scene.DrawCall) bool
	ClipID(id scene.PageID, r geom.Rect) bool
	ResizeID(id scene.PageID, width, height float64) bool
	SnapshotID(id scene.PageID) (*scene.Page, bool)
}

// Recorder plays page programs into a Target and remembers them so a page
// can later be redrawn at another size. It plays the producer role: all
// drawing goes through it, one call at a time.
type Recorder struct {
	target Target

	mu       sync.Mutex
	programs map[scene.PageID]PageProgram
}

// NewRecorder creates a recorder drawing into target.
func NewRecorder(target Target) *Recorder {
	return &Recorder{
		target:   target,
		programs: make(map[scene.PageID]PageProgram),
	}
}

// Play draws every page of the scenario and returns their ids in order.
func (r *Recorder) Play(s *Scenario) ([]scene.PageID, error) {
	ids := make([]scene.PageID, 0, len(s.Pages))
	for i, prog := range s.Pages {
		id, err := r.PlayPage(prog)
		if err != nil {
			return ids, fmt.Errorf("page %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PlayPage opens a new page and draws prog on it.
func (r *Recorder) PlayPage(prog PageProgram) (scene.PageID, error) {
	if prog.Width <= 0 || prog.Height <= 0 {
		return 0, fmt.Errorf("width and height must be positive")
	}
	fill := geom.White
	if prog.Fill != "" {
		c, err := parseColor(prog.Fill)
		if err != nil {
			return 0, err
		}
		fill = c
	}

	_, id := r.target.NewPage(prog.Width, prog.Height, fill)

	r.mu.Lock()
	r.programs[id] = prog
	r.mu.Unlock()

	if err := r.draw(id, prog, 1, 1, r.target.PutID); err != nil {
		return id, err
	}
	return id, nil
}

// Redraw resizes the page with id and replays its program scaled to the
// new size. The replay uses PutQuietID so the whole redraw is one version
// change. Pages the recorder did not draw are only resized.
func (r *Recorder) Redraw(id scene.PageID, width, height float64) error {
	page, ok := r.target.SnapshotID(id)
	if !ok {
		return fmt.Errorf("redraw page id %d: not found", id)
	}
	if width < 0.1 {
		width = page.Width
	}
	if height < 0.1 {
		height = page.Height
	}

	r.mu.Lock()
	prog, known := r.programs[id]
	r.mu.Unlock()

	if !r.target.ResizeID(id, width, height) {
		return fmt.Errorf("redraw page id %d: resize failed", id)
	}
	if !known {
		return nil
	}

	sx := width / prog.Width
	sy := height / prog.Height
	return r.draw(id, prog, sx, sy, r.target.PutQuietID)
}

// Forget drops the program for a removed page.
func (r *Recorder) Forget(id scene.PageID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.programs, id)
}

func (r *Recorder) draw(id scene.PageID, prog PageProgram, sx, sy float64, put func(scene.PageID, scene.DrawCall) bool) error {
	for i, op := range prog.Ops {
		if op.Op == OpClip {
			rect := geom.NormalizeRect(op.X*sx, op.Y*sy, (op.X+op.W)*sx, (op.Y+op.H)*sy)
			if !r.target.ClipID(id, rect) {
				return fmt.Errorf("ops[%d]: clip on missing page id %d", i, id)
			}
			continue
		}

		dc, err := buildDrawCall(op, sx, sy)
		if err != nil {
			return fmt.Errorf("ops[%d]: %w", i, err)
		}
		if !put(id, dc) {
			return fmt.Errorf("ops[%d]: put on missing page id %d", i, id)
		}
	}
	return nil
}

// buildDrawCall converts one op to a draw call with coordinates scaled by
// (sx, sy). Radii scale by the smaller factor; line widths and fonts do
// not scale.
func buildDrawCall(op Op, sx, sy float64) (scene.DrawCall, error) {
	if err := validateOp(op); err != nil {
		return nil, err
	}
	a, err := op.Style.attrs()
	if err != nil {
		return nil, err
	}

	pts := make([]geom.Point, len(op.Points))
	for i, p := range op.Points {
		pts[i] = geom.Pt(p[0], p[1]).Scale(sx, sy)
	}

	switch op.Op {
	case OpRect:
		return scene.Rect{Attrs: a, P0: pts[0], P1: pts[1]}, nil
	case OpCircle:
		return scene.Circle{Attrs: a, Center: pts[0], R: op.R * math.Min(sx, sy)}, nil
	case OpLine:
		return scene.Line{Attrs: a, From: pts[0], To: pts[1]}, nil
	case OpPolyline:
		return scene.Polyline{Attrs: a, Points: pts}, nil
	case OpPolygon:
		return scene.Polygon{Attrs: a, Points: pts}, nil
	case OpPath:
		nper := append([]int(nil), op.NPer...)
		return scene.Path{Attrs: a, Points: pts, NPer: nper, Winding: op.Winding}, nil
	case OpText:
		font := scene.Font{Family: "sans", Size: 12, Weight: 400}
		if f := op.Font; f != nil {
			if f.Family != "" {
				font.Family = f.Family
			}
			if f.Size > 0 {
				font.Size = f.Size
			}
			if f.Weight > 0 {
				font.Weight = f.Weight
			}
			font.Italic = f.Italic
			font.Features = f.Features
			font.Width = f.Width
		}
		return scene.NewText(a, pts[0], op.Text, op.Rot, op.Hadj, font), nil
	case OpRaster:
		pixels := make([]geom.Color, len(op.Pixels))
		for i, px := range op.Pixels {
			c, err := parseColor(px)
			if err != nil {
				return nil, fmt.Errorf("pixels[%d]: %w", i, err)
			}
			pixels[i] = c
		}
		return scene.NewRaster(a, pixels, op.SrcW, op.SrcH,
			op.X*sx, op.Y*sy, op.W*sx, op.H*sy, op.Rot, op.Interpolate), nil
	default:
		return nil, fmt.Errorf("unknown op %q", op.Op)
	}
}
