package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

const maxTrashNameAttempts = 10000

// Trash moves entries into a recoverable holding area
type Trash interface {
	// Put trashes the entry at the absolute path and returns where it went
	Put(path string) (string, error)
}

// NewTrash selects the trash facility for goos. Platforms without one get
// a Trash that always fails with UnsupportedPlatform.
func NewTrash(home, goos string) Trash {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return NewFreedesktopTrash(filepath.Join(home, ".local", "share"))
	case "darwin":
		return &macTrash{dir: filepath.Join(home, ".Trash")}
	default:
		return unsupportedTrash{goos: goos}
	}
}

// FreedesktopTrash implements the home trash of the freedesktop.org
// trash layout: files/ holds the entries and info/ a .trashinfo
// record of each original location.
type FreedesktopTrash struct {
	dir string
	now func() time.Time
}

// NewFreedesktopTrash creates the trash under dataHome (usually ~/.local/share)
func NewFreedesktopTrash(dataHome string) *FreedesktopTrash {
	return &FreedesktopTrash{dir: filepath.Join(dataHome, "Trash"), now: time.Now}
}

// Dir returns the trash directory
func (t *FreedesktopTrash) Dir() string { return t.dir }

// Put implements Trash
func (t *FreedesktopTrash) Put(path string) (string, error) {
	filesDir := filepath.Join(t.dir, "files")
	infoDir := filepath.Join(t.dir, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fserr.Classify("trash", dir, err)
		}
	}

	name, infoPath, err := t.reserve(path, filesDir, infoDir)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(filesDir, name)
	if err := os.Rename(path, dest); err != nil {
		os.Remove(infoPath)
		if errors.Is(err, syscall.EXDEV) {
			return "", fserr.Newf(fserr.UnsupportedPlatform, "trash", path, "no trash on the volume holding this entry")
		}
		return "", fserr.Classify("trash", path, err)
	}
	return dest, nil
}

// reserve claims a free name by creating its .trashinfo exclusively
func (t *FreedesktopTrash) reserve(path, filesDir, infoDir string) (string, string, error) {
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: filepath.ToSlash(path)}).EscapedPath(),
		t.now().Format("2006-01-02T15:04:05"))

	base := filepath.Base(path)
	for i := 1; i <= maxTrashNameAttempts; i++ {
		name := numberedName(base, i, ".")
		if _, err := os.Lstat(filepath.Join(filesDir, name)); err == nil {
			continue
		}

		infoPath := filepath.Join(infoDir, name+".trashinfo")
		f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fserr.Classify("trash", infoPath, err)
		}

		_, werr := f.WriteString(info)
		cerr := f.Close()
		if werr != nil || cerr != nil {
			os.Remove(infoPath)
			return "", "", fserr.Classify("trash", infoPath, errors.Join(werr, cerr))
		}
		return name, infoPath, nil
	}
	return "", "", fserr.Newf(fserr.AlreadyExists, "trash", path, "no free name in trash")
}

type macTrash struct {
	dir string
}

func (t *macTrash) Put(path string) (string, error) {
	if err := os.MkdirAll(t.dir, 0o700); err != nil {
		return "", fserr.Classify("trash", t.dir, err)
	}

	base := filepath.Base(path)
	for i := 1; i <= maxTrashNameAttempts; i++ {
		dest := filepath.Join(t.dir, numberedName(base, i, " "))
		if _, err := os.Lstat(dest); err == nil {
			continue
		}
		if err := os.Rename(path, dest); err != nil {
			if errors.Is(err, syscall.EXDEV) {
				return "", fserr.Newf(fserr.UnsupportedPlatform, "trash", path, "no trash on the volume holding this entry")
			}
			return "", fserr.Classify("trash", path, err)
		}
		return dest, nil
	}
	return "", fserr.Newf(fserr.AlreadyExists, "trash", path, "no free name in trash")
}

type unsupportedTrash struct {
	goos string
}

func (t unsupportedTrash) Put(path string) (string, error) {
	return "", fserr.Newf(fserr.UnsupportedPlatform, "trash", path, "no trash facility on %q", t.goos)
}

// numberedName returns base for n == 1 and "stem<sep>n.ext" afterwards
func numberedName(base string, n int, sep string) string {
	if n == 1 {
		return base
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem, ext = base, ""
	}
	return fmt.Sprintf("%s%s%d%s", stem, sep, n, ext)
}

// TrashDelete moves p to the platform trash. UnsupportedPlatform tells the
// caller to fall back to a confirmed permanent delete.
func (s *Store) TrashDelete(ctx context.Context, p paths.Path) error {
	if _, err := lstat("trash", p); err != nil {
		return err
	}

	abs, err := filepath.Abs(p.String())
	if err != nil {
		return fserr.New(fserr.InvalidPath, "trash", p.String(), err)
	}

	dest, err := s.trash.Put(abs)
	if err != nil {
		return err
	}
	s.logger.Info("moved to trash", zap.String("path", abs), zap.String("trash_path", dest))
	return nil
}

// TrashOps handles trash operations
type TrashOps struct {
	*FilesystemOps
}

// GetTools returns trash tool definitions
func (t *TrashOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.trash_delete",
			Name:        "Move to Trash",
			Description: "Move a file or folder to the platform trash",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File or folder path", Required: true},
			},
			Returns:  "boolean",
			Mutating: true,
		},
	}
}

// Delete trashes an entry
func (t *TrashOps) Delete(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := t.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	if err := t.Store.TrashDelete(ctx, p); err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{"trashed": true, "path": p})
}
