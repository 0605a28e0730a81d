package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/roach88/plotstore/internal/history"
	"github.com/roach88/plotstore/internal/render"
	"github.com/roach88/plotstore/internal/scene"
	"github.com/roach88/plotstore/internal/store"
)

// unspecified is the value of a missing or malformed numeric parameter.
const unspecified = -1

type plotEntry struct {
	ID string `json:"id"`
}

type plotsResponse struct {
	State store.State `json:"state"`
	Plots []plotEntry `json:"plots"`
}

type infoResponse struct {
	ID        string `json:"id"`
	Version   string `json:"version"`
	Renderers int    `json:"renderers"`
	store.State
}

type renderersResponse struct {
	Renderers []render.Info `json:"renderers"`
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return unspecified
	}
	return v
}

func queryFloat(r *http.Request, name string) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil {
		return unspecified
	}
	return v
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.opts.Store.State())
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, infoResponse{
		ID:        s.id,
		Version:   s.opts.Version,
		Renderers: s.opts.Renderers.Size(),
		State:     s.opts.Store.State(),
	})
}

func (s *Server) handleRenderers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, renderersResponse{Renderers: s.opts.Renderers.List()})
}

// handlePlots lists page ids. index is the offset of the first page
// (negative means the last page) and limit caps the count; a missing or
// non-positive limit lists every page from the offset.
func (s *Server) handlePlots(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if r.URL.Query().Has("index") {
		offset = queryInt(r, "index")
		if offset < 0 {
			offset = s.opts.Store.Size() - 1
		}
	}
	limit := queryInt(r, "limit")
	if limit <= 0 {
		limit = unspecified
	}
	res := s.opts.Store.QueryRange(offset, limit)

	out := plotsResponse{State: res.State, Plots: make([]plotEntry, len(res.IDs))}
	for i, id := range res.IDs {
		out.Plots[i] = plotEntry{ID: strconv.Itoa(int(id))}
	}
	writeJSON(w, out)
}

// resolvePage maps the id or index parameter to a page id. A missing,
// negative or out-of-range index means the last page. The id is checked
// here only to report a clean 404; later steps address the page by id.
func (s *Server) resolvePage(r *http.Request) (scene.PageID, error) {
	if r.URL.Query().Has("id") {
		raw := r.URL.Query().Get("id")
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return 0, notFound("id "+raw, "no page with this id")
		}
		if _, ok := s.opts.Store.FindIndex(scene.PageID(id)); !ok {
			return 0, notFound("id "+raw, "no page with this id")
		}
		return scene.PageID(id), nil
	}

	res := s.opts.Store.QueryIndex(queryInt(r, "index"))
	if len(res.IDs) == 0 {
		// Out-of-range indexes fall back to the newest page.
		res = s.opts.Store.QueryIndex(-1)
	}
	if len(res.IDs) == 0 {
		return 0, notFound("index", "there are no pages")
	}
	return res.IDs[0], nil
}

// handleSVG serves the standard SVG of a page at the requested size.
func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.serveRender(w, r, "svg")
}

// handlePlot serves any renderer's output, optionally as a download.
func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("renderer")
	if id == "" {
		id = "svg"
	}
	s.serveRender(w, r, id)
}

func (s *Server) serveRender(w http.ResponseWriter, r *http.Request, rendererID string) {
	info, ok := s.opts.Renderers.Find(rendererID)
	if !ok {
		writeError(w, notFound("renderer "+rendererID, "no such renderer"))
		return
	}

	id, err := s.resolvePage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	width := queryFloat(r, "width")
	height := queryFloat(r, "height")
	scale := 1.0
	if zoom := queryFloat(r, "zoom"); zoom > 0 {
		scale = zoom
		if width > 0 {
			width /= zoom
		}
		if height > 0 {
			height /= zoom
		}
	}

	if err := s.prepare(r.Context(), id, width, height); err != nil {
		writeError(w, err)
		return
	}

	body, err := s.opts.Store.RenderID(id, info, scale)
	if err != nil {
		// The page was removed after it was resolved.
		writeError(w, notFound(fmt.Sprintf("id %d", id), err.Error()))
		return
	}

	w.Header().Set("Content-Type", info.Mime)
	if name := r.URL.Query().Get("download"); name != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	if _, err := w.Write(body); err != nil {
		slog.Debug("write render body", "error", err)
	}
}

// handleClear removes every page and returns the new state. Pages are
// taken out of the store first and archived afterwards.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	pages := s.opts.Store.Drain()
	ids := make([]scene.PageID, len(pages))
	for i, page := range pages {
		ids[i] = page.ID
		s.archive(r.Context(), page, history.ReasonClear)
	}
	if len(pages) > 0 {
		s.forget(ids...)
		slog.Info("pages cleared", "count", len(pages))
	}
	writeJSON(w, s.opts.Store.State())
}

// handleRemove removes one page and returns the new state.
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := s.resolvePage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, ok := s.opts.Store.RemoveID(id)
	if !ok {
		writeError(w, notFound(fmt.Sprintf("id %d", id), "no such page"))
		return
	}
	s.archive(r.Context(), page, history.ReasonRemove)
	s.forget(page.ID)
	slog.Info("page removed", "id", page.ID)
	writeJSON(w, s.opts.Store.State())
}

// forget tells the producer it will not be asked to redraw ids again.
func (s *Server) forget(ids ...scene.PageID) {
	f, ok := s.opts.Redrawer.(Forgetter)
	if !ok {
		return
	}
	for _, id := range ids {
		f.Forget(id)
	}
}

// archive saves a JSON rendering of a removed page. Failures are logged
// and never undo the removal.
func (s *Server) archive(ctx context.Context, page *scene.Page, reason history.Reason) {
	if s.opts.Archiver == nil {
		return
	}
	info, ok := s.opts.Renderers.Find("json")
	if !ok {
		return
	}
	body, err := info.Render(page, 1)
	if err != nil {
		slog.Warn("archive render failed", "id", page.ID, "error", err)
		return
	}

	seq, err := s.opts.Archiver.Save(ctx, history.Snapshot{
		PageID:   page.ID,
		Reason:   reason,
		Upid:     s.opts.Store.State().Upid,
		Width:    page.Width,
		Height:   page.Height,
		Renderer: info.ID,
		Mime:     info.Mime,
		Body:     body,
	})
	if err != nil {
		slog.Warn("archive save failed", "id", page.ID, "error", err)
		return
	}
	slog.Debug("page archived", "id", page.ID, "seq", seq, "reason", reason)
}
