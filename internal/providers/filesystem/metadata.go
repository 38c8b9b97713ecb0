package filesystem

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

// FolderSummary aggregates a whole tree
type FolderSummary struct {
	Path       paths.Path `json:"path"`
	Files      int64      `json:"files"`
	Folders    int64      `json:"folders"`
	TotalBytes int64      `json:"total_bytes"`
}

// TypeInfo describes detected file content
type TypeInfo struct {
	Path      paths.Path `json:"path"`
	MIMEType  string     `json:"mime_type"`
	Extension string     `json:"extension"`
	IsText    bool       `json:"is_text"`
}

// FolderSummary counts files, folders and bytes below p using a parallel
// walk. Symlinks are not followed and unreadable entries are skipped.
func (s *Store) FolderSummary(ctx context.Context, p paths.Path) (FolderSummary, error) {
	info, err := os.Stat(p.String())
	if err != nil {
		return FolderSummary{}, fserr.Classify("summary", p.String(), err)
	}
	if !info.IsDir() {
		return FolderSummary{}, fserr.Newf(fserr.InvalidPath, "summary", p.String(), "not a directory")
	}

	var files, folders, bytes atomic.Int64
	conf := fastwalk.Config{Follow: false}

	err = fastwalk.Walk(&conf, p.String(), func(path string, d os.DirEntry, err error) error {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || path == p.String() {
			return nil
		}
		if d.IsDir() {
			folders.Add(1)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Mode().IsRegular() {
			files.Add(1)
			bytes.Add(info.Size())
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return FolderSummary{}, ctxErr
		}
		return FolderSummary{}, fserr.Classify("summary", p.String(), err)
	}

	return FolderSummary{
		Path:       p,
		Files:      files.Load(),
		Folders:    folders.Load(),
		TotalBytes: bytes.Load(),
	}, nil
}

// DetectType sniffs the content type of a file
func (s *Store) DetectType(ctx context.Context, p paths.Path) (TypeInfo, error) {
	info, err := os.Stat(p.String())
	if err != nil {
		return TypeInfo{}, fserr.Classify("detect", p.String(), err)
	}
	if info.IsDir() {
		return TypeInfo{}, fserr.New(fserr.IsADirectory, "detect", p.String(), nil)
	}

	mtype, err := mimetype.DetectFile(p.String())
	if err != nil {
		return TypeInfo{}, fserr.Classify("detect", p.String(), err)
	}

	return TypeInfo{
		Path:      p,
		MIMEType:  mtype.String(),
		Extension: mtype.Extension(),
		IsText:    IsText(mtype),
	}, nil
}

// MetadataOps handles metadata queries
type MetadataOps struct {
	*FilesystemOps
}

// GetTools returns metadata tool definitions
func (m *MetadataOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.folder_summary",
			Name:        "Folder Summary",
			Description: "Count files and folders and total their size (fast parallel)",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Directory path", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.detect_type",
			Name:        "Detect Type",
			Description: "Detect file MIME type from content",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File path", Required: true},
			},
			Returns: "object",
		},
	}
}

// Summary summarizes a folder
func (m *MetadataOps) Summary(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := m.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	summary, err := m.Store.FolderSummary(ctx, p)
	if err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{
		"path":        summary.Path,
		"files":       summary.Files,
		"folders":     summary.Folders,
		"total_bytes": summary.TotalBytes,
	})
}

// DetectType detects a MIME type
func (m *MetadataOps) DetectType(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	p, err := m.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	info, err := m.Store.DetectType(ctx, p)
	if err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{
		"path":      info.Path,
		"mime_type": info.MIMEType,
		"extension": info.Extension,
		"is_text":   info.IsText,
	})
}
