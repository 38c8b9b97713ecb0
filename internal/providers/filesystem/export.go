package filesystem

import (
	"context"
	"os"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

const (
	defaultExportName = "export"
	maxExportNameLen  = 100
)

// ExportHTML writes rendered HTML to target unchanged. Unless overwrite is
// set an existing file fails with AlreadyExists. When target is a folder the
// file name comes from the document title.
func (s *Store) ExportHTML(ctx context.Context, content string, target paths.Path, overwrite bool) (paths.Path, error) {
	if info, err := os.Stat(target.String()); err == nil && info.IsDir() {
		joined, err := s.resolver.Join(target, exportFileName(content))
		if err != nil {
			return paths.Path{}, err
		}
		target = joined
	}

	mode := CreateNew
	if overwrite {
		mode = Overwrite
	}
	if err := s.WriteContent(ctx, target, []byte(content), mode); err != nil {
		return paths.Path{}, err
	}
	return target, nil
}

// exportFileName derives "<title>.html" from the document, sanitized to a
// single portable path segment
func exportFileName(content string) string {
	title := ""
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		title = doc.Find("title").First().Text()
	}
	return sanitizeName(title) + ".html"
}

func sanitizeName(name string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		case unicode.IsControl(r), strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
		lastSpace = false
	}

	out := strings.Trim(b.String(), " .")
	if runes := []rune(out); len(runes) > maxExportNameLen {
		out = strings.TrimRight(string(runes[:maxExportNameLen]), " .")
	}
	if out == "" {
		return defaultExportName
	}
	return out
}

// ExportOps handles document export
type ExportOps struct {
	*FilesystemOps
}

// GetTools returns export tool definitions
func (e *ExportOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.export_html",
			Name:        "Export HTML",
			Description: "Write rendered HTML to a file or into a folder named after its title",
			Parameters: []types.Parameter{
				{Name: "content", Type: "string", Description: "Rendered HTML", Required: true},
				{Name: "path", Type: "string", Description: "Target file or folder", Required: true},
				{Name: "overwrite", Type: "boolean", Description: "Replace an existing file", Required: false},
			},
			Returns:  "string",
			Mutating: true,
		},
	}
}

// Export exports HTML
func (e *ExportOps) Export(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	content, ok := GetString(params, "content")
	if !ok {
		return Failure("content parameter required")
	}
	target, err := e.pathParam(params, "path")
	if err != nil {
		return FailureErr(err)
	}

	written, err := e.Store.ExportHTML(ctx, content, target, GetBool(params, "overwrite", false))
	if err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{"path": written, "size": len(content)})
}
