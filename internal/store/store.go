package store

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/roach88/plotstore/internal/geom"
	"github.com/roach88/plotstore/internal/render"
	"github.com/roach88/plotstore/internal/scene"
)

// DefaultUpidLimit is the value at which upid wraps back to zero.
const DefaultUpidLimit = 1_000_000

// diffTolerance is the per-axis tolerance used by Diff.
const diffTolerance = 0.1

// ErrNotFound is returned when an index does not address a page.
var ErrNotFound = errors.New("page not found")

// State is the observable state pushed to subscribers.
type State struct {
	Upid      int  `json:"upid"`
	PageCount int  `json:"hsize"`
	Active    bool `json:"active"`
}

// Changed reports whether s differs from prev in a way subscribers care about.
func (s State) Changed(prev State) bool {
	return s.Upid != prev.Upid || s.Active != prev.Active
}

// Notifier receives the store state after an observable change.
type Notifier func(State)

// Option configures a Store.
type Option func(*Store)

// WithNotifier installs the broadcast hook. Notifications are delivered one
// at a time in upid order; the hook must not mutate the store.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notify = n }
}

// WithUpidLimit sets the wrap point for upid. Values <= 0 are ignored.
func WithUpidLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.upidLimit = n
		}
	}
}

// Store owns every page and the version counter.
//
// Every exported method holds mu for its whole duration. The notifier
// runs after mu is released so it may read the store, but it must not
// mutate it. notifyMu serializes mutations with their notification, so
// states reach the notifier in the order they were produced.
type Store struct {
	notifyMu  sync.Mutex
	mu        sync.Mutex
	pages     []*scene.Page
	nextID    scene.PageID
	upid      int
	upidLimit int
	active    bool
	notify    Notifier
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{upidLimit: DefaultUpidLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mutate runs fn under the lock and notifies afterwards if the state changed.
// Lock order is notifyMu then mu.
func (s *Store) mutate(fn func() bool) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	before := s.stateLocked()
	ok := fn()
	after := s.stateLocked()
	notify := s.notify
	s.mu.Unlock()

	if notify != nil && after.Changed(before) {
		notify(after)
	}
	return ok
}

func (s *Store) bump() {
	if s.upid+1 < s.upidLimit {
		s.upid++
	} else {
		s.upid = 0
	}
}

func (s *Store) stateLocked() State {
	return State{Upid: s.upid, PageCount: len(s.pages), Active: s.active}
}

// valid reports whether index addresses a page. Callers hold mu.
func (s *Store) valid(index int) bool {
	return index >= 0 && index < len(s.pages)
}

// indexOf returns the current index of the page with id, or -1. Callers
// hold mu.
func (s *Store) indexOf(id scene.PageID) int {
	for i, p := range s.pages {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// resolve maps a negative index to the last page. Callers hold mu.
func (s *Store) resolve(index int) int {
	if index < 0 {
		return len(s.pages) - 1
	}
	return index
}

// NewPage appends a page and returns its index and stable id.
func (s *Store) NewPage(width, height float64, fill geom.Color) (int, scene.PageID) {
	var (
		index int
		id    scene.PageID
	)
	s.mutate(func() bool {
		id = s.nextID
		s.nextID++
		s.pages = append(s.pages, scene.NewPage(id, width, height, fill))
		index = len(s.pages) - 1
		s.bump()
		return true
	})
	return index, id
}

// Put appends a draw call to the page at index.
func (s *Store) Put(index int, dc scene.DrawCall) bool {
	return s.put(index, dc, true)
}

// PutQuiet appends a draw call without bumping upid. Redraw replays use
// it so a resize produces a single version change.
func (s *Store) PutQuiet(index int, dc scene.DrawCall) bool {
	return s.put(index, dc, false)
}

func (s *Store) put(index int, dc scene.DrawCall, bump bool) bool {
	return s.mutate(func() bool { return s.putLocked(index, dc, bump) })
}

func (s *Store) putLocked(index int, dc scene.DrawCall, bump bool) bool {
	if !s.valid(index) {
		return false
	}
	s.pages[index].Put(dc)
	if bump {
		s.bump()
	}
	return true
}

// Clip starts a new clip region on the page at index. It returns false
// for an invalid index. A rectangle equal to the current clip is not
// added again, which is still a success.
func (s *Store) Clip(index int, r geom.Rect) bool {
	return s.mutate(func() bool { return s.clipLocked(index, r) })
}

func (s *Store) clipLocked(index int, r geom.Rect) bool {
	if !s.valid(index) {
		return false
	}
	s.pages[index].Clip(r)
	return true
}

// Fill sets the background color of the page at index.
func (s *Store) Fill(index int, fill geom.Color) bool {
	return s.mutate(func() bool {
		if !s.valid(index) {
			return false
		}
		s.pages[index].Fill = fill
		return true
	})
}

// Clear drops every draw call and clip on the page at index.
func (s *Store) Clear(index int) bool {
	return s.mutate(func() bool {
		if !s.valid(index) {
			return false
		}
		s.pages[index].Clear()
		s.bump()
		return true
	})
}

// Resize changes the page size and clears it.
func (s *Store) Resize(index int, width, height float64) bool {
	return s.mutate(func() bool { return s.resizeLocked(index, width, height) })
}

func (s *Store) resizeLocked(index int, width, height float64) bool {
	if !s.valid(index) {
		return false
	}
	s.pages[index].Resize(width, height)
	s.bump()
	return true
}

// Remove deletes the page at index. A negative index removes the last page.
func (s *Store) Remove(index int) bool {
	return s.mutate(func() bool {
		return s.removeLocked(s.resolve(index)) != nil
	})
}

// removeLocked deletes the page at index and returns it, or nil for an
// invalid index. Callers hold mu.
func (s *Store) removeLocked(index int) *scene.Page {
	if !s.valid(index) {
		return nil
	}
	p := s.pages[index]
	s.pages = append(s.pages[:index], s.pages[index+1:]...)
	s.bump()
	return p
}

// RemoveAll deletes every page. It returns false if there were none.
func (s *Store) RemoveAll() bool {
	return len(s.Drain()) > 0
}

// Drain deletes every page and returns them in order. The returned pages
// are no longer reachable from the store.
func (s *Store) Drain() []*scene.Page {
	var pages []*scene.Page
	s.mutate(func() bool {
		if len(s.pages) == 0 {
			return false
		}
		pages = s.pages
		s.pages = nil
		s.bump()
		return true
	})
	return pages
}

// SetActive sets the device-active flag.
func (s *Store) SetActive(active bool) {
	s.mutate(func() bool {
		s.active = active
		return true
	})
}

// Size returns the number of pages.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// FindIndex maps a stable page id to its current index.
func (s *Store) FindIndex(id scene.PageID) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	return i, i >= 0
}

// PageSize returns the stored size of the page at index.
func (s *Store) PageSize(index int) (width, height float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index = s.resolve(index)
	if !s.valid(index) {
		return 0, 0, false
	}
	p := s.pages[index]
	return p.Width, p.Height, true
}

// Diff reports whether the page at index must be redrawn to match the
// requested size. A requested dimension below the tolerance keeps the
// stored value for that axis. An invalid index never needs a redraw.
func (s *Store) Diff(index int, width, height float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid(index) {
		return false
	}
	return diffPage(s.pages[index], width, height)
}

func diffPage(p *scene.Page, width, height float64) bool {
	if width < diffTolerance {
		width = p.Width
	}
	if height < diffTolerance {
		height = p.Height
	}
	return math.Abs(p.Width-width) >= diffTolerance || math.Abs(p.Height-height) >= diffTolerance
}

// Snapshot returns an immutable copy of the page at index. A negative
// index addresses the last page.
func (s *Store) Snapshot(index int) (*scene.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index = s.resolve(index)
	if !s.valid(index) {
		return nil, false
	}
	return s.pages[index].Snapshot(), true
}

// Render renders the page at index with the given renderer. The page is
// copied under the lock and rendered after it is released, so a page
// removed meanwhile still renders from the copy.
func (s *Store) Render(index int, info render.Info, scale float64) ([]byte, error) {
	page, ok := s.Snapshot(index)
	if !ok {
		return nil, fmt.Errorf("render page %d: %w", index, ErrNotFound)
	}
	return info.Render(page, scale)
}
