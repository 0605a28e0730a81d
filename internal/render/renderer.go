package render

import (
	"fmt"
	"strings"

	"github.com/roach88/plotstore/internal/scene"
)

// TextRenderer encodes a page as text.
type TextRenderer interface {
	RenderText(p *scene.Page, scale float64) string
}

// BinaryRenderer encodes a page as bytes.
type BinaryRenderer interface {
	RenderBinary(p *scene.Page, scale float64) ([]byte, error)
}

// buffer is the string builder shared by the text encoders.
type buffer struct {
	b strings.Builder
}

func (w *buffer) printf(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
}

func (w *buffer) write(s string) {
	w.b.WriteString(s)
}

func (w *buffer) reset(sizeHint int) {
	w.b.Reset()
	w.b.Grow(sizeHint)
}

func (w *buffer) String() string {
	return w.b.String()
}

// sizeHint estimates the output size of a page.
func sizeHint(p *scene.Page) int {
	return (len(p.DrawCalls)+len(p.Clips))*128 + 512
}
