package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDGenerator mints IDs "prefix-1", "prefix-2", ... in call order.
//
// Deterministic IDs make golden snapshots stable: the same scenario always
// produces the same entity IDs.
//
// Thread-safety: guarded by an internal mutex.
type SequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequenceIDGenerator creates a generator with the given prefix.
// An empty prefix defaults to "id".
func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &SequenceIDGenerator{prefix: prefix, next: 1}
}

// NewID implements the game service's IDGenerator.
func (g *SequenceIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s-%d", g.prefix, g.next)
	g.next++
	return id
}
