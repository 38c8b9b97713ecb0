package workspace

import (
	"errors"
	"slices"
	"sync"
)

// memoryPersister keeps saved records in memory
type memoryPersister[T any] struct {
	mu      sync.Mutex
	records []T
	saves   int
	failing bool
}

func (m *memoryPersister[T]) Load() ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.records), nil
}

func (m *memoryPersister[T]) Save(records []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("disk full")
	}
	m.records = slices.Clone(records)
	m.saves++
	return nil
}

type brokenLoader[T any] struct{}

func (brokenLoader[T]) Load() ([]T, error) { return nil, errors.New("corrupt document") }
func (brokenLoader[T]) Save([]T) error     { return nil }
