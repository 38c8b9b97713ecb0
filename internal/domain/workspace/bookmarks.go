package workspace

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/id"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/utils"
)

// Bookmarks is the user's bookmark list, kept in insertion order
type Bookmarks struct {
	persister Persister[BookmarkRecord]
	logger    *logging.Logger
	newID     func() id.BookmarkID

	mu      sync.RWMutex
	records []BookmarkRecord
}

// NewBookmarks loads the stored bookmarks. A repeated id keeps its first
// occurrence.
func NewBookmarks(persister Persister[BookmarkRecord], logger *logging.Logger) (*Bookmarks, error) {
	b := &Bookmarks{
		persister: persister,
		logger:    logger.Component("bookmarks"),
		newID:     id.NewBookmarkID,
	}

	stored, err := persister.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}
	for _, r := range stored {
		if b.indexOf(r.ID) < 0 {
			b.records = append(b.records, r)
		}
	}
	return b, nil
}

// Add creates a bookmark with a fresh id
func (b *Bookmarks) Add(p paths.Path, label string) (BookmarkRecord, error) {
	if err := validate(p, label); err != nil {
		return BookmarkRecord{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	rec := BookmarkRecord{ID: b.newID(), Path: p, Label: label}
	for b.indexOf(rec.ID) >= 0 {
		rec.ID = b.newID()
	}
	b.records = append(b.records, rec)

	b.logger.Debug("bookmark added", zap.String("id", rec.ID.String()), zap.String("path", p.String()))
	return rec, b.save()
}

// Edit replaces the path and label of an existing bookmark
func (b *Bookmarks) Edit(bookmarkID id.BookmarkID, p paths.Path, label string) (BookmarkRecord, error) {
	if err := validate(p, label); err != nil {
		return BookmarkRecord{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(bookmarkID)
	if i < 0 {
		return BookmarkRecord{}, notFound(bookmarkID)
	}
	b.records[i].Path = p
	b.records[i].Label = label
	return b.records[i], b.save()
}

// Remove deletes a bookmark
func (b *Bookmarks) Remove(bookmarkID id.BookmarkID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(bookmarkID)
	if i < 0 {
		return notFound(bookmarkID)
	}
	b.records = slices.Delete(b.records, i, i+1)
	return b.save()
}

// Get returns one bookmark
func (b *Bookmarks) Get(bookmarkID id.BookmarkID) (BookmarkRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := b.indexOf(bookmarkID)
	if i < 0 {
		return BookmarkRecord{}, notFound(bookmarkID)
	}
	return b.records[i], nil
}

// List returns all bookmarks in insertion order
func (b *Bookmarks) List() []BookmarkRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]BookmarkRecord, len(b.records))
	copy(out, b.records)
	return out
}

func (b *Bookmarks) indexOf(bookmarkID id.BookmarkID) int {
	return slices.IndexFunc(b.records, func(r BookmarkRecord) bool { return r.ID == bookmarkID })
}

// save must be called with mu held
func (b *Bookmarks) save() error {
	if err := b.persister.Save(slices.Clone(b.records)); err != nil {
		b.logger.Warn("failed to save bookmarks", zap.Error(err))
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	return nil
}

func validate(p paths.Path, label string) error {
	if p.IsZero() {
		return fserr.Newf(fserr.InvalidPath, "bookmark", "", "bookmark path is empty")
	}
	if err := utils.ValidateLabel(label); err != nil {
		return fmt.Errorf("invalid bookmark label: %w", err)
	}
	return nil
}

func notFound(bookmarkID id.BookmarkID) error {
	return fserr.Newf(fserr.NotFound, "bookmark", "", "no bookmark with id %s", bookmarkID)
}
