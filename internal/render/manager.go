package render

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/roach88/plotstore/internal/scene"
)

// Category groups renderers for clients.
const (
	TypePlot = "plot"
	TypeData = "data"
)

// Info describes one registered renderer. Exactly one of NewText and
// NewBinary is set; Text reports which.
type Info struct {
	ID          string `json:"id"`
	Mime        string `json:"mime"`
	FileExt     string `json:"ext"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Text        bool   `json:"text"`
	Description string `json:"descr"`

	NewText   func() TextRenderer   `json:"-"`
	NewBinary func() BinaryRenderer `json:"-"`
}

// Render builds a fresh renderer and encodes p.
func (i Info) Render(p *scene.Page, scale float64) ([]byte, error) {
	if i.Text {
		return []byte(i.NewText().RenderText(p, scale)), nil
	}
	return i.NewBinary().RenderBinary(p, scale)
}

// Manager is a registry of renderers keyed by id.
//
// Thread-safety: safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	renderers map[string]Info
}

// NewManager creates an empty registry.
func NewManager() *Manager {
	return &Manager{renderers: make(map[string]Info)}
}

// Add registers info, replacing any renderer with the same id.
func (m *Manager) Add(info Info) error {
	if info.ID == "" {
		return errors.New("renderer id is empty")
	}
	switch {
	case info.NewText != nil && info.NewBinary != nil:
		return fmt.Errorf("renderer %q: both text and binary factories set", info.ID)
	case info.NewText != nil:
		info.Text = true
	case info.NewBinary != nil:
		info.Text = false
	default:
		return fmt.Errorf("renderer %q: no factory", info.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.renderers[info.ID] = info
	return nil
}

// Find returns the renderer registered under id.
func (m *Manager) Find(id string) (Info, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.renderers[id]
	return info, ok
}

// List returns every renderer sorted by id.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Info, 0, len(m.renderers))
	for _, info := range m.renderers {
		out = append(out, info)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// Size returns the number of registered renderers.
func (m *Manager) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.renderers)
}

// Options tune the default registry.
type Options struct {
	// ExtraCSS is appended to the style block of the standard SVG output.
	ExtraCSS string
	// Tokens generates portable clip id suffixes. Nil uses random UUIDs.
	Tokens TokenGenerator
}

// Default returns a registry with every built-in renderer.
func Default(opts Options) *Manager {
	m := NewManager()
	for _, info := range builtins(opts) {
		// Built-ins always carry exactly one factory.
		_ = m.Add(info)
	}
	return m
}

func builtins(opts Options) []Info {
	return []Info{
		{
			ID: "svg", Mime: "image/svg+xml", FileExt: ".svg", Name: "SVG", Type: TypePlot,
			Description: "Scalable vector graphics with a shared style block.",
			NewText:     func() TextRenderer { return NewSVG(opts.ExtraCSS) },
		},
		{
			ID: "svgp", Mime: "image/svg+xml", FileExt: ".svg", Name: "Portable SVG", Type: TypePlot,
			Description: "SVG with presentation attributes and unique clip ids, safe to embed next to other plots.",
			NewText:     func() TextRenderer { return NewSVGPortable(opts.Tokens) },
		},
		{
			ID: "svgz", Mime: "image/svg+xml", FileExt: ".svgz", Name: "Compressed SVG", Type: TypePlot,
			Description: "Gzip compressed SVG.",
			NewBinary:   func() BinaryRenderer { return NewGzip(NewSVG(opts.ExtraCSS)) },
		},
		{
			ID: "svgzp", Mime: "image/svg+xml", FileExt: ".svgz", Name: "Compressed Portable SVG", Type: TypePlot,
			Description: "Gzip compressed portable SVG.",
			NewBinary:   func() BinaryRenderer { return NewGzip(NewSVGPortable(opts.Tokens)) },
		},
		{
			ID: "png", Mime: "image/png", FileExt: ".png", Name: "PNG", Type: TypePlot,
			Description: "Portable network graphics. Text is not drawn.",
			NewBinary:   func() BinaryRenderer { return NewRaster(FormatPNG) },
		},
		{
			ID: "tiff", Mime: "image/tiff", FileExt: ".tiff", Name: "TIFF", Type: TypePlot,
			Description: "Deflate compressed TIFF. Text is not drawn.",
			NewBinary:   func() BinaryRenderer { return NewRaster(FormatTIFF) },
		},
		{
			ID: "bmp", Mime: "image/bmp", FileExt: ".bmp", Name: "BMP", Type: TypePlot,
			Description: "Windows bitmap. Text is not drawn.",
			NewBinary:   func() BinaryRenderer { return NewRaster(FormatBMP) },
		},
		{
			ID: "json", Mime: "application/json", FileExt: ".json", Name: "JSON", Type: TypeData,
			Description: "Draw calls and clips as structured data.",
			NewText:     func() TextRenderer { return NewJSON() },
		},
		{
			ID: "tikz", Mime: "text/plain", FileExt: ".tex", Name: "TikZ", Type: TypePlot,
			Description: "LaTeX TikZ picture.",
			NewText:     func() TextRenderer { return NewTikZ() },
		},
		{
			ID: "strings", Mime: "text/plain", FileExt: ".txt", Name: "Strings", Type: TypeData,
			Description: "Text content of the plot, one string per line.",
			NewText:     func() TextRenderer { return NewStrings() },
		},
		{
			ID: "meta", Mime: "application/json", FileExt: ".json", Name: "Meta", Type: TypeData,
			Description: "Page size, clip count and draw call count.",
			NewText:     func() TextRenderer { return NewMeta() },
		},
	}
}
