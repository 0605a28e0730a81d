package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantGenerator(t *testing.T) {
	g := NewConstantGenerator("abc")
	assert.Equal(t, "abc", g.Generate())
	assert.Equal(t, "abc", g.Generate())

	assert.Equal(t, "test", NewConstantGenerator("").Generate())
}

func TestCountingGenerator(t *testing.T) {
	g := NewCountingGenerator("task-")
	assert.Equal(t, "task-1", g.Generate())
	assert.Equal(t, "task-2", g.Generate())
	assert.Equal(t, 2, g.Count())

	g.Reset()
	assert.Equal(t, 0, g.Count())
	assert.Equal(t, "task-1", g.Generate())
}

func TestCountingGenerator_Concurrent(t *testing.T) {
	g := NewCountingGenerator("id")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]bool)
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := g.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 400)
	assert.Equal(t, 400, g.Count())
}
