package utils

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CounterSource hands out the next sequence number for a given year.
// Sequences are strictly increasing per year; the production source keeps
// the counter in the data store so multiple processes cannot collide.
type CounterSource interface {
	Next(ctx context.Context, year int) (int64, error)
}

// ReferenceNumberGenerator produces case reference numbers in the form
// LDA-<year>-<6 digit sequence>.
type ReferenceNumberGenerator struct {
	source CounterSource
}

func NewReferenceNumberGenerator(source CounterSource) *ReferenceNumberGenerator {
	return &ReferenceNumberGenerator{source: source}
}

func (g *ReferenceNumberGenerator) Generate(ctx context.Context) (string, error) {
	year := time.Now().UTC().Year()
	seq, err := g.source.Next(ctx, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LDA-%d-%06d", year, seq), nil
}

// MemoryCounterSource is a process-local source. It is only safe for a
// single instance; production uses the store-backed source instead.
type MemoryCounterSource struct {
	mu   sync.Mutex
	next map[int]int64
}

func NewMemoryCounterSource() *MemoryCounterSource {
	return &MemoryCounterSource{next: make(map[int]int64)}
}

func (m *MemoryCounterSource) Next(_ context.Context, year int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next[year]++
	return m.next[year], nil
}
