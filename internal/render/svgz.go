package render

import (
	"bytes"
	"compress/gzip"
	"fmt"

	"github.com/roach88/plotstore/internal/scene"
)

// Gzip wraps a text renderer and compresses its output. The wrapped
// renderer runs on every call; nothing is cached between calls.
type Gzip struct {
	inner TextRenderer
}

// NewGzip wraps inner.
func NewGzip(inner TextRenderer) *Gzip {
	return &Gzip{inner: inner}
}

// RenderBinary implements BinaryRenderer.
func (r *Gzip) RenderBinary(p *scene.Page, scale float64) ([]byte, error) {
	return compressString(r.inner.RenderText(p, scale))
}

func compressString(s string) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}
