package render

import (
	"sync"

	"github.com/google/uuid"
)

// TokenGenerator produces the per-render suffix of portable clip ids.
type TokenGenerator interface {
	Generate() string
}

// UUIDGenerator returns a fresh random UUID on every call.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate returns a hyphenated UUIDv4.
func (UUIDGenerator) Generate() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// SequenceGenerator returns predetermined tokens in order, then repeats the
// last one. Used to make portable output deterministic.
type SequenceGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewSequenceGenerator creates a generator over tokens. With no tokens it
// always returns "0".
func NewSequenceGenerator(tokens ...string) *SequenceGenerator {
	if len(tokens) == 0 {
		tokens = []string{"0"}
	}
	return &SequenceGenerator{tokens: tokens}
}

// Generate returns the next token.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	token := g.tokens[g.idx]
	if g.idx < len(g.tokens)-1 {
		g.idx++
	}
	return token
}
