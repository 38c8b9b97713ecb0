package workspace

import (
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/kvstore"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/id"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
)

// Store keys
const (
	RecentKey    = "recent"
	BookmarksKey = "bookmarks"
)

// Persister loads and saves one list of records
type Persister[T any] interface {
	Load() ([]T, error)
	Save(records []T) error
}

// On-disk rows keep paths as plain strings so every codec can carry them.

type recentRow struct {
	Path       string    `json:"path" toml:"path" yaml:"path"`
	LastOpened time.Time `json:"last_opened" toml:"last_opened" yaml:"last_opened"`
}

type recentDocument struct {
	Workspaces []recentRow `json:"workspaces" toml:"workspaces" yaml:"workspaces"`
}

type bookmarkRow struct {
	ID    string `json:"id" toml:"id" yaml:"id"`
	Path  string `json:"path" toml:"path" yaml:"path"`
	Label string `json:"label" toml:"label" yaml:"label"`
}

type bookmarkDocument struct {
	Bookmarks []bookmarkRow `json:"bookmarks" toml:"bookmarks" yaml:"bookmarks"`
}

// RecentStore persists the recent list as the "recent" document
type RecentStore struct {
	store    *kvstore.FileStore
	resolver *paths.Resolver
	logger   *logging.Logger
}

// NewRecentStore creates a recent-list persister
func NewRecentStore(store *kvstore.FileStore, resolver *paths.Resolver, logger *logging.Logger) *RecentStore {
	return &RecentStore{store: store, resolver: resolver, logger: logger.Component("recent-store")}
}

// Load implements Persister. Rows whose path no longer normalizes are dropped.
func (s *RecentStore) Load() ([]WorkspaceRecord, error) {
	var doc recentDocument
	if _, err := s.store.Load(RecentKey, &doc); err != nil {
		return nil, err
	}

	records := make([]WorkspaceRecord, 0, len(doc.Workspaces))
	for _, row := range doc.Workspaces {
		p, err := s.resolver.Normalize(row.Path)
		if err != nil {
			s.logger.Warn("dropping stored workspace", zap.String("path", row.Path), zap.Error(err))
			continue
		}
		records = append(records, WorkspaceRecord{Path: p, LastOpened: row.LastOpened})
	}
	return records, nil
}

// Save implements Persister
func (s *RecentStore) Save(records []WorkspaceRecord) error {
	doc := recentDocument{Workspaces: make([]recentRow, len(records))}
	for i, r := range records {
		doc.Workspaces[i] = recentRow{Path: r.Path.String(), LastOpened: r.LastOpened.UTC()}
	}
	return s.store.Save(RecentKey, doc)
}

// BookmarkStore persists bookmarks as the "bookmarks" document
type BookmarkStore struct {
	store    *kvstore.FileStore
	resolver *paths.Resolver
	logger   *logging.Logger
}

// NewBookmarkStore creates a bookmark persister
func NewBookmarkStore(store *kvstore.FileStore, resolver *paths.Resolver, logger *logging.Logger) *BookmarkStore {
	return &BookmarkStore{store: store, resolver: resolver, logger: logger.Component("bookmark-store")}
}

// Load implements Persister. Rows without an id or with an unusable path
// are dropped.
func (s *BookmarkStore) Load() ([]BookmarkRecord, error) {
	var doc bookmarkDocument
	if _, err := s.store.Load(BookmarksKey, &doc); err != nil {
		return nil, err
	}

	records := make([]BookmarkRecord, 0, len(doc.Bookmarks))
	for _, row := range doc.Bookmarks {
		if row.ID == "" {
			s.logger.Warn("dropping stored bookmark without id", zap.String("path", row.Path))
			continue
		}
		p, err := s.resolver.Normalize(row.Path)
		if err != nil {
			s.logger.Warn("dropping stored bookmark", zap.String("id", row.ID), zap.Error(err))
			continue
		}
		records = append(records, BookmarkRecord{ID: id.BookmarkID(row.ID), Path: p, Label: row.Label})
	}
	return records, nil
}

// Save implements Persister
func (s *BookmarkStore) Save(records []BookmarkRecord) error {
	doc := bookmarkDocument{Bookmarks: make([]bookmarkRow, len(records))}
	for i, r := range records {
		doc.Bookmarks[i] = bookmarkRow{ID: r.ID.String(), Path: r.Path.String(), Label: r.Label}
	}
	return s.store.Save(BookmarksKey, doc)
}
