package store

import (
	"fmt"

	"github.com/roach88/plotstore/internal/geom"
	"github.com/roach88/plotstore/internal/render"
	"github.com/roach88/plotstore/internal/scene"
)

// The methods in this file address a page by its stable id. The id is
// resolved and acted on under a single hold of the lock, so a concurrent
// removal can never redirect the operation to a neighbouring page.

// PutID appends a draw call to the page with id.
func (s *Store) PutID(id scene.PageID, dc scene.DrawCall) bool {
	return s.mutate(func() bool { return s.putLocked(s.indexOf(id), dc, true) })
}

// PutQuietID appends a draw call to the page with id without bumping upid.
func (s *Store) PutQuietID(id scene.PageID, dc scene.DrawCall) bool {
	return s.mutate(func() bool { return s.putLocked(s.indexOf(id), dc, false) })
}

// ClipID starts a new clip region on the page with id.
func (s *Store) ClipID(id scene.PageID, r geom.Rect) bool {
	return s.mutate(func() bool { return s.clipLocked(s.indexOf(id), r) })
}

// ResizeID changes the size of the page with id and clears it.
func (s *Store) ResizeID(id scene.PageID, width, height float64) bool {
	return s.mutate(func() bool { return s.resizeLocked(s.indexOf(id), width, height) })
}

// RemoveID deletes the page with id and returns it.
func (s *Store) RemoveID(id scene.PageID) (*scene.Page, bool) {
	var removed *scene.Page
	s.mutate(func() bool {
		removed = s.removeLocked(s.indexOf(id))
		return removed != nil
	})
	return removed, removed != nil
}

// SnapshotID returns an immutable copy of the page with id.
func (s *Store) SnapshotID(id scene.PageID) (*scene.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.pages[i].Snapshot(), true
}

// DiffID is Diff for the page with id. An unknown id never needs a redraw.
func (s *Store) DiffID(id scene.PageID, width, height float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	return diffPage(s.pages[i], width, height)
}

// RenderID renders the page with id from a copy taken under the lock.
func (s *Store) RenderID(id scene.PageID, info render.Info, scale float64) ([]byte, error) {
	page, ok := s.SnapshotID(id)
	if !ok {
		return nil, fmt.Errorf("render page id %d: %w", id, ErrNotFound)
	}
	return info.Render(page, scale)
}
