package scene

import "github.com/roach88/plotstore/internal/geom"

// PageID is the stable identity of a page. It never changes when pages
// before it are removed.
type PageID int32

// Clip is a rectangular region limiting where later draw calls are visible.
type Clip struct {
	ID   ClipID
	Rect geom.Rect
}

// Page is one canvas of recorded draw calls.
type Page struct {
	ID        PageID
	Width     float64
	Height    float64
	Fill      geom.Color
	DrawCalls []DrawCall
	Clips     []Clip
	// Version counts structural changes to this page.
	Version int
}

// NewPage creates an empty page seeded with a full-page clip.
func NewPage(id PageID, width, height float64, fill geom.Color) *Page {
	p := &Page{ID: id, Width: width, Height: height, Fill: fill}
	p.seed()
	return p
}

func (p *Page) seed() {
	p.Clips = []Clip{{ID: 0, Rect: geom.Rect{Width: p.Width, Height: p.Height}}}
}

// Put appends dc, bound to the last clip on the page.
func (p *Page) Put(dc DrawCall) {
	last := p.Clips[len(p.Clips)-1]
	p.DrawCalls = append(p.DrawCalls, dc.bind(last.ID))
	p.Version++
}

// Clip appends a clip region unless it equals the last one within
// geom.ClipEpsilon. It reports whether a clip was added.
func (p *Page) Clip(r geom.Rect) bool {
	if n := len(p.Clips); n > 0 && p.Clips[n-1].Rect.Equals(r, geom.ClipEpsilon) {
		return false
	}
	p.Clips = append(p.Clips, Clip{ID: ClipID(len(p.Clips)), Rect: r})
	return true
}

// Clear drops every draw call and clip and re-seeds the full-page clip.
func (p *Page) Clear() {
	p.DrawCalls = nil
	p.seed()
	p.Version++
}

// Resize changes the page size and clears it.
func (p *Page) Resize(width, height float64) {
	p.Width = width
	p.Height = height
	p.Clear()
}

// ClipByID returns the clip with the given id.
func (p *Page) ClipByID(id ClipID) (Clip, bool) {
	if id >= 0 && int(id) < len(p.Clips) && p.Clips[id].ID == id {
		return p.Clips[id], true
	}
	for _, c := range p.Clips {
		if c.ID == id {
			return c, true
		}
	}
	return Clip{}, false
}

// Group is a run of consecutive draw calls sharing one clip.
type Group struct {
	Clip  Clip
	Calls []DrawCall
}

// Groups partitions the draw calls into clip groups in recorded order. The
// first group always uses the first clip of the page, even when it holds no
// calls; a new group starts whenever the clip id changes.
func (p *Page) Groups() []Group {
	if len(p.Clips) == 0 {
		return nil
	}
	groups := []Group{{Clip: p.Clips[0]}}
	for _, dc := range p.DrawCalls {
		id := dc.Attributes().ClipID
		cur := &groups[len(groups)-1]
		if id != cur.Clip.ID {
			if c, ok := p.ClipByID(id); ok {
				groups = append(groups, Group{Clip: c})
				cur = &groups[len(groups)-1]
			}
		}
		cur.Calls = append(cur.Calls, dc)
	}
	return groups
}

// Texts returns the strings of every Text call in order.
func (p *Page) Texts() []string {
	var out []string
	for _, dc := range p.DrawCalls {
		if t, ok := dc.(Text); ok {
			out = append(out, t.Str)
		}
	}
	return out
}

// Snapshot returns a copy whose slices are not shared with p. Draw call
// payloads are immutable values and are shared.
func (p *Page) Snapshot() *Page {
	cp := *p
	cp.DrawCalls = append([]DrawCall(nil), p.DrawCalls...)
	cp.Clips = append([]Clip(nil), p.Clips...)
	return &cp
}
