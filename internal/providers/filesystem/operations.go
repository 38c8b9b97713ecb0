package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/utils"
)

// DeleteFile permanently removes a file or symlink
func (s *Store) DeleteFile(ctx context.Context, p paths.Path) error {
	info, err := lstat("delete_file", p)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fserr.New(fserr.IsADirectory, "delete_file", p.String(), nil)
	}

	if err := os.Remove(p.String()); err != nil {
		return fserr.Classify("delete_file", p.String(), err)
	}
	return nil
}

// CopyFile copies the bytes of a regular file. The destination keeps the
// source permission bits. With overwrite the destination is replaced
// atomically; without it an existing destination fails with AlreadyExists.
func (s *Store) CopyFile(ctx context.Context, from, to paths.Path, overwrite bool) error {
	src, err := os.Stat(from.String())
	if err != nil {
		return fserr.Classify("copy", from.String(), err)
	}
	if src.IsDir() {
		return fserr.New(fserr.IsADirectory, "copy", from.String(), nil)
	}

	if dst, err := os.Stat(to.String()); err == nil {
		if dst.IsDir() {
			return fserr.New(fserr.IsADirectory, "copy", to.String(), nil)
		}
		if !overwrite {
			return fserr.New(fserr.AlreadyExists, "copy", to.String(), nil)
		}
		if os.SameFile(src, dst) {
			return fserr.Newf(fserr.InvalidPath, "copy", to.String(), "source and destination are the same file")
		}
	}

	in, err := os.Open(from.String())
	if err != nil {
		return fserr.Classify("copy", from.String(), err)
	}
	defer in.Close()

	perm := src.Mode().Perm()
	if overwrite {
		if err := utils.WriteAtomicFrom(to.String(), in, perm); err != nil {
			return fserr.Classify("copy", to.String(), err)
		}
		return nil
	}

	out, err := os.OpenFile(to.String(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fserr.Classify("copy", to.String(), err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(to.String())
		return fserr.Classify("copy", to.String(), err)
	}
	if err := out.Close(); err != nil {
		os.Remove(to.String())
		return fserr.Classify("copy", to.String(), err)
	}
	return nil
}

// MoveFilesToFolder moves each source into target, keeping its name. Every
// element is attempted independently and never overwrites an existing entry.
func (s *Store) MoveFilesToFolder(ctx context.Context, sources []paths.Path, target paths.Path) []MoveOutcome {
	outcomes := make([]MoveOutcome, len(sources))

	var targetErr error
	if info, err := os.Stat(target.String()); err != nil {
		targetErr = fserr.Classify("move", target.String(), err)
	} else if !info.IsDir() {
		targetErr = fserr.Newf(fserr.InvalidPath, "move", target.String(), "target is not a directory")
	}

	for i, src := range sources {
		outcomes[i].Source = src
		if targetErr != nil {
			outcomes[i].Err = targetErr
			continue
		}

		dest, err := s.resolver.Join(target, src.Base())
		if err != nil {
			outcomes[i].Err = err
			continue
		}
		outcomes[i].Destination = dest
		outcomes[i].Err = s.moveOne(ctx, src, dest)
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	s.logger.Info("batch move finished",
		zap.String("target", target.String()),
		zap.Int("moved", len(sources)-failed),
		zap.Int("failed", failed))

	return outcomes
}

func (s *Store) moveOne(ctx context.Context, src, dest paths.Path) error {
	info, err := lstat("move", src)
	if err != nil {
		return err
	}
	if src.String() == dest.String() {
		return nil
	}
	if info.IsDir() && s.resolver.Within(src, dest) {
		return fserr.Newf(fserr.InvalidPath, "move", src.String(), "cannot move a folder into itself")
	}
	if _, err := os.Lstat(dest.String()); err == nil {
		return fserr.New(fserr.AlreadyExists, "move", dest.String(), nil)
	}

	err = renameNoReplace(src.String(), dest.String())
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		// created between the check and the rename
		return fserr.New(fserr.AlreadyExists, "move", dest.String(), err)
	}
	if !errors.Is(err, syscall.EXDEV) || !info.Mode().IsRegular() {
		return fserr.Classify("move", src.String(), err)
	}

	s.logger.Debug("cross-device move, copying", zap.String("source", src.String()), zap.String("destination", dest.String()))
	if err := s.CopyFile(ctx, src, dest, false); err != nil {
		return err
	}
	if err := os.Remove(src.String()); err != nil {
		return fserr.Classify("move", src.String(), err)
	}
	return nil
}

// RenameFs renames p within its folder and returns the new path. newName
// must be a single path segment. An occupied destination fails with
// AlreadyExists; a case-only rename is allowed under a case-insensitive
// policy.
func (s *Store) RenameFs(ctx context.Context, p paths.Path, newName string) (paths.Path, error) {
	if err := s.resolver.ValidName(newName); err != nil {
		return paths.Path{}, err
	}

	srcInfo, err := lstat("rename", p)
	if err != nil {
		return paths.Path{}, err
	}

	dest, err := s.resolver.Join(p.Dir(), newName)
	if err != nil {
		return paths.Path{}, err
	}
	if dest.String() == p.String() {
		return p, nil
	}

	caseOnly := false
	if destInfo, err := os.Lstat(dest.String()); err == nil {
		caseOnly = s.resolver.Policy() == paths.CaseInsensitive &&
			s.resolver.Equal(p, dest) &&
			os.SameFile(srcInfo, destInfo)
		if !caseOnly {
			return paths.Path{}, fserr.New(fserr.AlreadyExists, "rename", dest.String(), nil)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return paths.Path{}, fserr.Classify("rename", dest.String(), err)
	}

	if caseOnly {
		// some case-insensitive filesystems ignore a direct case-only rename
		tmp := filepath.Join(p.Dir().String(), fmt.Sprintf(".%s.renaming-%d", newName, os.Getpid()))
		if err := os.Rename(p.String(), tmp); err != nil {
			return paths.Path{}, fserr.Classify("rename", p.String(), err)
		}
		if err := os.Rename(tmp, dest.String()); err != nil {
			os.Rename(tmp, p.String())
			return paths.Path{}, fserr.Classify("rename", dest.String(), err)
		}
		return dest, nil
	}

	if err := renameNoReplace(p.String(), dest.String()); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return paths.Path{}, fserr.New(fserr.AlreadyExists, "rename", dest.String(), err)
		}
		return paths.Path{}, fserr.Classify("rename", p.String(), err)
	}
	return dest, nil
}

// OperationsOps handles copy, move, rename and delete
type OperationsOps struct {
	*FilesystemOps
}

// GetTools returns file operation tool definitions
func (o *OperationsOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.delete_file",
			Name:        "Delete File",
			Description: "Permanently delete a file",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File path", Required: true},
			},
			Returns:  "boolean",
			Mutating: true,
		},
		{
			ID:          "filesystem.copy_file",
			Name:        "Copy File",
			Description: "Copy a file byte for byte",
			Parameters: []types.Parameter{
				{Name: "from", Type: "string", Description: "Source path", Required: true},
				{Name: "to", Type: "string", Description: "Destination path", Required: true},
				{Name: "overwrite", Type: "boolean", Description: "Replace an existing destination", Required: false},
			},
			Returns:  "boolean",
			Mutating: true,
		},
		{
			ID:          "filesystem.move_files_to_folder",
			Name:        "Move Files",
			Description: "Move files into a folder; each file succeeds or fails on its own",
			Parameters: []types.Parameter{
				{Name: "paths", Type: "array", Description: "Source paths", Required: true},
				{Name: "target", Type: "string", Description: "Destination folder", Required: true},
			},
			Returns:  "array",
			Mutating: true,
		},
		{
			ID:          "filesystem.rename_fs",
			Name:        "Rename",
			Description: "Rename a file or folder in place",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Current path", Required: true},
				{Name: "new_name", Type: "string", Description: "New name (single segment)", Required: true},
			},
			Returns:  "string",
			Mutating: true,
		},
	}
}

// Delete deletes a file
func (o *OperationsOps) Delete(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := o.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	if err := o.Store.DeleteFile(ctx, p); err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{"deleted": true, "path": p})
}

// Copy copies a file
func (o *OperationsOps) Copy(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	from, err := o.pathParam(params, "from")
	if err != nil {
		return FailureErr(err)
	}
	to, err := o.pathParam(params, "to")
	if err != nil {
		return FailureErr(err)
	}

	if err := o.Store.CopyFile(ctx, from, to, GetBool(params, "overwrite", false)); err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{"copied": true, "from": from, "to": to})
}

// Move moves a batch of files
func (o *OperationsOps) Move(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	rawPaths, ok := GetStringSlice(params, "paths")
	if !ok {
		return Failure("paths parameter required")
	}
	target, err := o.pathParam(params, "target")
	if err != nil {
		return FailureErr(err)
	}

	results := make([]map[string]interface{}, len(rawPaths))
	sources := make([]paths.Path, 0, len(rawPaths))
	index := make([]int, 0, len(rawPaths))
	for i, raw := range rawPaths {
		p, err := o.Resolver.Normalize(raw)
		if err != nil {
			results[i] = outcomeView(raw, paths.Path{}, err)
			continue
		}
		sources = append(sources, p)
		index = append(index, i)
	}

	moved := 0
	for j, outcome := range o.Store.MoveFilesToFolder(ctx, sources, target) {
		results[index[j]] = outcomeView(outcome.Source.String(), outcome.Destination, outcome.Err)
		if outcome.OK() {
			moved++
		}
	}

	return Success(map[string]interface{}{
		"target":  target,
		"results": results,
		"moved":   moved,
		"failed":  len(rawPaths) - moved,
	})
}

func outcomeView(source string, dest paths.Path, err error) map[string]interface{} {
	view := map[string]interface{}{
		"source":  source,
		"success": err == nil,
	}
	if !dest.IsZero() {
		view["destination"] = dest
	}
	if err != nil {
		view["error"] = err.Error()
		view["error_kind"] = string(fserr.KindOf(err))
	}
	return view
}

// Rename renames an entry
func (o *OperationsOps) Rename(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := o.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}
	newName, ok := GetString(params, "new_name")
	if !ok {
		return Failure("new_name parameter required")
	}

	dest, err := o.Store.RenameFs(ctx, p, newName)
	if err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{"path": dest, "old_path": p})
}
