package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/utils"
)

const defaultFilePerm fs.FileMode = 0o644

// ReadContent returns the bytes of a regular file
func (s *Store) ReadContent(ctx context.Context, p paths.Path) ([]byte, error) {
	info, err := os.Stat(p.String())
	if err != nil {
		return nil, fserr.Classify("read", p.String(), err)
	}
	if info.IsDir() {
		return nil, fserr.New(fserr.IsADirectory, "read", p.String(), nil)
	}

	data, err := os.ReadFile(p.String())
	if err != nil {
		return nil, fserr.Classify("read", p.String(), err)
	}
	return data, nil
}

// ReadText returns file content decoded to UTF-8. Bytes that cannot be
// decoded are replaced rather than failing the read.
func (s *Store) ReadText(ctx context.Context, p paths.Path) (string, error) {
	data, err := s.ReadContent(ctx, p)
	if err != nil {
		return "", err
	}
	return s.decoder.DecodeLossy(data), nil
}

// WriteContent writes data to p.
//
// CreateNew fails with AlreadyExists when anything occupies p. Overwrite
// replaces the file through a synced sibling temp file and a rename, keeping
// the target's permission bits, and falls back to an in-place truncating
// write only when the temp file cannot be created or renamed. A failure
// while filling the temp file leaves the target untouched.
func (s *Store) WriteContent(ctx context.Context, p paths.Path, data []byte, mode WriteMode) error {
	if mode == CreateNew {
		return s.createNew(p, data)
	}

	target := p.String()
	perm := defaultFilePerm
	if info, err := os.Lstat(target); err == nil {
		if info.Mode()&fs.ModeSymlink != 0 {
			// replace the link target, not the link
			resolved, err := filepath.EvalSymlinks(target)
			if err != nil {
				return fserr.Classify("write", target, err)
			}
			target = resolved
			if info, err = os.Stat(target); err != nil {
				return fserr.Classify("write", target, err)
			}
		}
		if info.IsDir() {
			return fserr.New(fserr.IsADirectory, "write", p.String(), nil)
		}
		perm = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fserr.Classify("write", target, err)
	}

	err := utils.WriteFileAtomic(target, data, perm)
	if err == nil {
		return nil
	}
	if !inPlaceFallback(err) {
		return fserr.Classify("write", p.String(), err)
	}

	s.logger.Debug("atomic write unavailable, writing in place",
		zap.String("path", target), zap.Error(err))
	if err := os.WriteFile(target, data, perm); err != nil {
		return fserr.Classify("write", p.String(), err)
	}
	return nil
}

// inPlaceFallback reports whether a failed atomic write may be retried as a
// truncating write. Only a temp file that could not be created (read-only or
// unwritable folder) or renamed qualifies; once the temp file was being
// written, the same failure would hit the target after truncation.
func inPlaceFallback(err error) bool {
	switch utils.AtomicStageOf(err) {
	case utils.StageCreate:
		// a missing parent folder defeats a direct write too
		return !errors.Is(err, fs.ErrNotExist)
	case utils.StageRename:
		return true
	}
	return false
}

func (s *Store) createNew(p paths.Path, data []byte) error {
	f, err := os.OpenFile(p.String(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, defaultFilePerm)
	if err != nil {
		return fserr.Classify("create", p.String(), err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(p.String())
		return fserr.Classify("create", p.String(), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(p.String())
		return fserr.Classify("create", p.String(), err)
	}
	return nil
}

// WriteText overwrites p with UTF-8 text
func (s *Store) WriteText(ctx context.Context, p paths.Path, text string) error {
	return s.WriteContent(ctx, p, []byte(text), Overwrite)
}

// WriteBinary overwrites p with raw bytes
func (s *Store) WriteBinary(ctx context.Context, p paths.Path, data []byte) error {
	return s.WriteContent(ctx, p, data, Overwrite)
}

// FileExists reports presence only; any stat failure reads as absent
func (s *Store) FileExists(ctx context.Context, p paths.Path) bool {
	_, err := os.Stat(p.String())
	return err == nil
}

// Stat returns a snapshot of p without following a final symlink
func (s *Store) Stat(ctx context.Context, p paths.Path) (FileEntry, error) {
	info, err := lstat("stat", p)
	if err != nil {
		return FileEntry{}, err
	}
	return entryFromInfo(p, info, 0), nil
}

// BasicOps handles content reads and writes
type BasicOps struct {
	*FilesystemOps
}

// GetTools returns basic file operation tool definitions
func (b *BasicOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.get_file_content",
			Name:        "Read Text File",
			Description: "Read file contents decoded as UTF-8 text",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File path", Required: true},
			},
			Returns: "string",
		},
		{
			ID:          "filesystem.read_binary",
			Name:        "Read Binary File",
			Description: "Read file as binary data",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File path", Required: true},
			},
			Returns: "bytes",
		},
		{
			ID:          "filesystem.write_file",
			Name:        "Write File",
			Description: "Write text to a file (atomic overwrite unless mode is create_new)",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File path", Required: true},
				{Name: "content", Type: "string", Description: "Text to write", Required: true},
				{Name: "mode", Type: "string", Description: "overwrite (default) or create_new", Required: false},
			},
			Returns:  "boolean",
			Mutating: true,
		},
		{
			ID:          "filesystem.write_u8_array_to_file",
			Name:        "Write Binary File",
			Description: "Write a byte array to a file",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File path", Required: true},
				{Name: "data", Type: "bytes", Description: "Byte array or base64 string", Required: true},
				{Name: "mode", Type: "string", Description: "overwrite (default) or create_new", Required: false},
			},
			Returns:  "boolean",
			Mutating: true,
		},
		{
			ID:          "filesystem.file_exists",
			Name:        "Check Existence",
			Description: "Check if a file or directory exists",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File or directory path", Required: true},
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.stat",
			Name:        "File Info",
			Description: "Get file or directory metadata",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File or directory path", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.path_join",
			Name:        "Join Path",
			Description: "Join path segments lexically without touching the filesystem",
			Parameters: []types.Parameter{
				{Name: "base", Type: "string", Description: "Base path", Required: true},
				{Name: "segments", Type: "array", Description: "Segments to append", Required: true},
			},
			Returns: "string",
		},
	}
}

// ReadText reads a file as text
func (b *BasicOps) ReadText(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := b.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	text, err := b.Store.ReadText(ctx, p)
	if err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{
		"path":    p,
		"content": text,
		"size":    len(text),
	})
}

// ReadBinary reads raw file bytes
func (b *BasicOps) ReadBinary(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := b.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	data, err := b.Store.ReadContent(ctx, p)
	if err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{
		"path": p,
		"data": data,
		"size": len(data),
	})
}

// WriteText writes text content
func (b *BasicOps) WriteText(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := b.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	content, ok := GetString(params, "content")
	if !ok {
		return Failure("content parameter required")
	}

	return b.write(ctx, p, []byte(content), params)
}

// WriteBinary writes a byte array
func (b *BasicOps) WriteBinary(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := b.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	data, err := GetBytes(params, "data")
	if err != nil {
		return Failure(err.Error())
	}

	return b.write(ctx, p, data, params)
}

func (b *BasicOps) write(ctx context.Context, p paths.Path, data []byte, params map[string]interface{}) (*types.Result, error) {
	modeName, _ := GetString(params, "mode")
	mode, err := ParseWriteMode(modeName)
	if err != nil {
		return Failure(err.Error())
	}

	if err := b.Store.WriteContent(ctx, p, data, mode); err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{
		"written": true,
		"path":    p,
		"size":    len(data),
	})
}

// Exists checks presence
func (b *BasicOps) Exists(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := b.pathParam(params, "path")
	if err != nil {
		// an unusable path cannot exist
		return Success(map[string]interface{}{"exists": false})
	}

	return Success(map[string]interface{}{
		"path":   p,
		"exists": b.Store.FileExists(ctx, p),
	})
}

// Stat returns entry metadata
func (b *BasicOps) Stat(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := b.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	entry, err := b.Store.Stat(ctx, p)
	if err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{"entry": entry})
}

// Join joins path segments
func (b *BasicOps) Join(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	base, err := b.pathParam(params, "base")
	if err != nil {
		return FailureErr(err)
	}

	segments, ok := GetStringSlice(params, "segments")
	if !ok {
		return Failure("segments parameter required")
	}

	joined, err := b.Resolver.Join(base, segments...)
	if err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{"path": joined})
}
