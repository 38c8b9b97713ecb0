package filesystem

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

// CreateFolder creates the directory p. An existing directory is success;
// any other entry at p fails with AlreadyExists. Missing parents are created
// only when recursive is set.
func (s *Store) CreateFolder(ctx context.Context, p paths.Path, recursive bool) error {
	if info, err := os.Stat(p.String()); err == nil {
		if info.IsDir() {
			return nil
		}
		return fserr.Newf(fserr.AlreadyExists, "create_folder", p.String(), "a file occupies the path")
	}

	var err error
	if recursive {
		err = os.MkdirAll(p.String(), 0o755)
	} else {
		err = os.Mkdir(p.String(), 0o755)
	}
	if err == nil {
		return nil
	}

	// lost a race with another creator
	if errors.Is(err, fs.ErrExist) {
		if info, statErr := os.Stat(p.String()); statErr == nil && info.IsDir() {
			return nil
		}
	}
	return fserr.Classify("create_folder", p.String(), err)
}

// DeleteFolder removes the directory p. Without recursive a non-empty
// directory fails with NotEmpty and is left untouched.
func (s *Store) DeleteFolder(ctx context.Context, p paths.Path, recursive bool) error {
	info, err := lstat("delete_folder", p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fserr.Newf(fserr.InvalidPath, "delete_folder", p.String(), "not a directory")
	}

	if recursive {
		if err := os.RemoveAll(p.String()); err != nil {
			return fserr.Classify("delete_folder", p.String(), err)
		}
		s.logger.Info("folder deleted", zap.String("path", p.String()), zap.Bool("recursive", true))
		return nil
	}

	empty, err := isEmptyDir(p.String())
	if err != nil {
		return fserr.Classify("delete_folder", p.String(), err)
	}
	if !empty {
		return fserr.New(fserr.NotEmpty, "delete_folder", p.String(), nil)
	}

	if err := os.Remove(p.String()); err != nil {
		return fserr.Classify("delete_folder", p.String(), err)
	}
	return nil
}

func isEmptyDir(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

// ListFolder returns the direct children of p sorted by name
func (s *Store) ListFolder(ctx context.Context, p paths.Path) ([]FileEntry, error) {
	info, err := os.Stat(p.String())
	if err != nil {
		return nil, fserr.Classify("list", p.String(), err)
	}
	if !info.IsDir() {
		return nil, fserr.Newf(fserr.InvalidPath, "list", p.String(), "not a directory")
	}

	dirents, err := os.ReadDir(p.String())
	if err != nil {
		return nil, fserr.Classify("list", p.String(), err)
	}

	entries := make([]FileEntry, 0, len(dirents))
	for _, d := range dirents {
		child, err := s.resolver.Join(p, d.Name())
		if err != nil {
			continue
		}
		info, err := d.Info()
		if err != nil {
			// removed between readdir and stat
			s.logger.Debug("skipping vanished entry", zap.String("path", child.String()), zap.Error(err))
			continue
		}
		entries = append(entries, entryFromInfo(child, info, 1))
	}
	return entries, nil
}

// DirectoryOps handles directory operations
type DirectoryOps struct {
	*FilesystemOps
}

// GetTools returns directory operation tool definitions
func (d *DirectoryOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.open_folder",
			Name:        "List Directory",
			Description: "List the direct children of a directory",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Directory path", Required: true},
			},
			Returns: "array",
		},
		{
			ID:          "filesystem.create_folder",
			Name:        "Create Directory",
			Description: "Create a directory; parents only when recursive",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Directory path", Required: true},
				{Name: "recursive", Type: "boolean", Description: "Create missing parents", Required: false},
			},
			Returns:  "boolean",
			Mutating: true,
		},
		{
			ID:          "filesystem.delete_folder",
			Name:        "Delete Directory",
			Description: "Delete a directory; non-empty directories need recursive",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Directory path", Required: true},
				{Name: "recursive", Type: "boolean", Description: "Delete contents too", Required: false},
			},
			Returns:  "boolean",
			Mutating: true,
		},
		{
			ID:          "filesystem.walk",
			Name:        "Walk Directory",
			Description: "Recursively list a tree with depth, symlink and ignore options",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Root directory", Required: true},
				{Name: "max_depth", Type: "number", Description: "Maximum depth (unbounded if omitted)", Required: false},
				{Name: "follow_symlinks", Type: "boolean", Description: "Descend into symlinked directories", Required: false},
				{Name: "ignore", Type: "array", Description: "Glob patterns to prune", Required: false},
				{Name: "breadth_first", Type: "boolean", Description: "Breadth-first order", Required: false},
			},
			Returns: "array",
		},
	}
}

// List lists a directory
func (d *DirectoryOps) List(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := d.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	entries, err := d.Store.ListFolder(ctx, p)
	if err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{
		"path":    p,
		"entries": entries,
		"count":   len(entries),
	})
}

// Create creates a directory
func (d *DirectoryOps) Create(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := d.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	if err := d.Store.CreateFolder(ctx, p, GetBool(params, "recursive", false)); err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{"created": true, "path": p})
}

// Delete deletes a directory
func (d *DirectoryOps) Delete(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := d.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	if err := d.Store.DeleteFolder(ctx, p, GetBool(params, "recursive", false)); err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{"deleted": true, "path": p})
}

// Walk walks a tree and buffers the entries
func (d *DirectoryOps) Walk(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	raw, _ := GetString(params, "path")
	root, err := ScopedRoot(d.Resolver, d.Scope, raw)
	if err != nil {
		return FailureErr(err)
	}

	maxDepth, err := optionalUint32(params, "max_depth")
	if err != nil {
		return Failure(err.Error())
	}

	opts := WalkOptions{
		MaxDepth:       maxDepth,
		FollowSymlinks: GetBool(params, "follow_symlinks", false),
	}
	if ignore, ok := GetStringSlice(params, "ignore"); ok {
		opts.Ignore = ignore
	} else {
		opts.Ignore = d.Engine.defaults.Ignore
	}
	if GetBool(params, "breadth_first", false) {
		opts.Order = BreadthFirst
	}

	walker, err := d.Engine.Walk(ctx, root, opts)
	if err != nil {
		return FailureErr(err)
	}
	defer walker.Close()

	limit := d.WalkMaxEntries
	entries := make([]FileEntry, 0, 64)
	truncated := false
	for walker.Next() {
		if limit > 0 && len(entries) >= limit {
			truncated = true
			break
		}
		entries = append(entries, walker.Entry())
	}
	if err := walker.Err(); err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{
		"path":      root,
		"entries":   entries,
		"count":     len(entries),
		"truncated": truncated,
	})
}
