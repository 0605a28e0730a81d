// Package testutil holds deterministic id sources for tests.
package testutil

import (
	"strconv"
	"sync"
)

// ConstantGenerator returns the same token every time.
//
// It satisfies both render.TokenGenerator and dispatch.IDGenerator, so
// portable SVG clip ids and task ids can be pinned in golden output.
type ConstantGenerator struct {
	token string
}

// NewConstantGenerator creates a generator for token. An empty token
// becomes "test".
func NewConstantGenerator(token string) *ConstantGenerator {
	if token == "" {
		token = "test"
	}
	return &ConstantGenerator{token: token}
}

// Generate returns the fixed token.
func (g *ConstantGenerator) Generate() string {
	return g.token
}

// CountingGenerator returns prefix1, prefix2, ... and can be reset so the
// same test can run twice with identical ids.
//
// Thread-safety: safe for concurrent use.
type CountingGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewCountingGenerator creates a generator starting at prefix1.
func NewCountingGenerator(prefix string) *CountingGenerator {
	return &CountingGenerator{prefix: prefix}
}

// Generate returns the next id.
func (g *CountingGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.prefix + strconv.Itoa(g.n)
}

// Count returns how many ids have been generated since the last Reset.
func (g *CountingGenerator) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

// Reset restarts the sequence at prefix1.
func (g *CountingGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
