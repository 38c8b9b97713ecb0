package filesystem

import (
	"io/fs"
	"os"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
)

// Store performs filesystem mutations and reads on behalf of the UI.
// Operations never retry; each failure is returned as *fserr.Error.
type Store struct {
	resolver *paths.Resolver
	trash    Trash
	decoder  *TextDecoder
	logger   *logging.Logger
}

// NewStore creates a store. A nil trash disables TrashDelete.
func NewStore(resolver *paths.Resolver, trash Trash, logger *logging.Logger) *Store {
	if trash == nil {
		trash = unsupportedTrash{}
	}
	return &Store{
		resolver: resolver,
		trash:    trash,
		decoder:  NewTextDecoder(0),
		logger:   logger.Component("filestore"),
	}
}

// Resolver returns the path resolver the store was built with
func (s *Store) Resolver() *paths.Resolver { return s.resolver }

// FilesystemOps holds what every tool group needs
type FilesystemOps struct {
	Store    *Store
	Engine   *Engine
	Resolver *paths.Resolver
	Scope    Scope
	// WalkMaxEntries bounds buffered walk responses
	WalkMaxEntries int
}

// pathParam normalizes a required path parameter
func (ops *FilesystemOps) pathParam(params map[string]interface{}, key string) (paths.Path, error) {
	raw, ok := GetString(params, key)
	if !ok || raw == "" {
		return paths.Path{}, fserr.Newf(fserr.InvalidPath, "params", "", "%s parameter required", key)
	}
	return ops.Resolver.Normalize(raw)
}

func entryFromInfo(p paths.Path, info fs.FileInfo, depth int) FileEntry {
	entry := FileEntry{
		Path:  p,
		Name:  p.Base(),
		Kind:  kindOf(info.Mode()),
		Depth: depth,
	}
	modified := info.ModTime()
	entry.Modified = &modified
	if entry.Kind == KindFile {
		size := uint64(info.Size())
		entry.Size = &size
	}
	return entry
}

func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDirectory
	default:
		return KindFile
	}
}

// lstat classifies the error of os.Lstat
func lstat(op string, p paths.Path) (fs.FileInfo, error) {
	info, err := os.Lstat(p.String())
	if err != nil {
		return nil, fserr.Classify(op, p.String(), err)
	}
	return info, nil
}
