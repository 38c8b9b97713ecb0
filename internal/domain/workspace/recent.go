package workspace

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
)

// DefaultRecentCapacity bounds the recent list when no capacity is configured
const DefaultRecentCapacity = 10

// Session tracks the open workspace and the recent-workspace history
type Session struct {
	resolver  *paths.Resolver
	persister Persister[WorkspaceRecord]
	capacity  int
	logger    *logging.Logger
	now       func() time.Time

	mu      sync.RWMutex
	recent  []WorkspaceRecord
	current *paths.Path
}

// NewSession loads the stored recent list. Duplicates and entries beyond
// capacity are dropped on load, keeping the most recent.
func NewSession(resolver *paths.Resolver, persister Persister[WorkspaceRecord], capacity int, logger *logging.Logger) (*Session, error) {
	if capacity <= 0 {
		capacity = DefaultRecentCapacity
	}

	s := &Session{
		resolver:  resolver,
		persister: persister,
		capacity:  capacity,
		logger:    logger.Component("session"),
		now:       time.Now,
	}

	stored, err := persister.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load recent workspaces: %w", err)
	}
	for _, r := range stored {
		if len(s.recent) == capacity {
			break
		}
		if s.indexOf(r.Path) < 0 {
			s.recent = append(s.recent, r)
		}
	}

	s.logger.Debug("session loaded", zap.Int("recent", len(s.recent)))
	return s, nil
}

// Capacity returns the recent-list bound
func (s *Session) Capacity() int { return s.capacity }

// RecordOpened moves p to the front of the recent list, inserting it if
// needed and evicting the oldest entries beyond capacity.
func (s *Session) RecordOpened(p paths.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record(p)
	return s.save()
}

// ClearRecent empties the recent list
func (s *Session) ClearRecent() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = nil
	return s.save()
}

// ListRecent returns the recent list, most recent first
func (s *Session) ListRecent() []WorkspaceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot()
}

// Open makes p the current workspace and records it as opened
func (s *Session) Open(p paths.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &p
	s.record(p)
	s.logger.Info("workspace opened", zap.String("path", p.String()))
	return s.save()
}

// Close clears the current workspace. The recent list is unaffected.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.logger.Info("workspace closed", zap.String("path", s.current.String()))
	}
	s.current = nil
}

// Root returns the current workspace, if one is open
func (s *Session) Root() (paths.Path, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return paths.Path{}, false
	}
	return *s.current, true
}

// OpenedCache returns the current workspace and the recent list
func (s *Session) OpenedCache() OpenedCache {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cache := OpenedCache{Recent: s.snapshot()}
	if s.current != nil {
		current := *s.current
		cache.Current = &current
	}
	return cache
}

// record must be called with mu held
func (s *Session) record(p paths.Path) {
	next := make([]WorkspaceRecord, 0, len(s.recent)+1)
	next = append(next, WorkspaceRecord{Path: p, LastOpened: s.now()})
	for _, r := range s.recent {
		if !s.resolver.Equal(r.Path, p) {
			next = append(next, r)
		}
	}
	if len(next) > s.capacity {
		next = next[:s.capacity]
	}
	s.recent = next
}

func (s *Session) indexOf(p paths.Path) int {
	return slices.IndexFunc(s.recent, func(r WorkspaceRecord) bool {
		return s.resolver.Equal(r.Path, p)
	})
}

func (s *Session) snapshot() []WorkspaceRecord {
	out := make([]WorkspaceRecord, len(s.recent))
	copy(out, s.recent)
	return out
}

// save must be called with mu held
func (s *Session) save() error {
	if err := s.persister.Save(s.snapshot()); err != nil {
		s.logger.Warn("failed to save recent workspaces", zap.Error(err))
		return fmt.Errorf("failed to save recent workspaces: %w", err)
	}
	return nil
}
