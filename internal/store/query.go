package store

import "github.com/roach88/plotstore/internal/scene"

// QueryResult pairs the store state with a list of page ids.
type QueryResult struct {
	State State          `json:"state"`
	IDs   []scene.PageID `json:"plots"`
}

// QueryAll returns every page id in index order.
func (s *Store) QueryAll() QueryResult {
	return s.QueryRange(0, -1)
}

// QueryIndex returns the id of the page at index. A negative index
// addresses the last page. An invalid index yields no ids.
func (s *Store) QueryIndex(index int) QueryResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := QueryResult{State: s.stateLocked(), IDs: []scene.PageID{}}
	index = s.resolve(index)
	if s.valid(index) {
		res.IDs = append(res.IDs, s.pages[index].ID)
	}
	return res
}

// QueryRange returns up to limit ids starting at offset. A negative limit
// means to the end. An out-of-range offset yields no ids.
func (s *Store) QueryRange(offset, limit int) QueryResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := QueryResult{State: s.stateLocked(), IDs: []scene.PageID{}}
	if offset < 0 || offset >= len(s.pages) {
		return res
	}
	end := len(s.pages)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	for _, p := range s.pages[offset:end] {
		res.IDs = append(res.IDs, p.ID)
	}
	return res
}
