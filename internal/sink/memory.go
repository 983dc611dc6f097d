package sink

import (
	"context"
	"slices"
	"sync"
)

// Memory collects lines in memory.
type Memory struct {
	mu    sync.Mutex
	lines []string
}

// WriteLine records line.
func (m *Memory) WriteLine(_ context.Context, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, line)
	return nil
}

// Lines returns the recorded lines.
func (m *Memory) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.lines)
}
