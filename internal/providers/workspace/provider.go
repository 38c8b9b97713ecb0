package workspace

import (
	"context"
	"fmt"
	"os"

	session "github.com/GriffinCanCode/Workspace/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/id"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

// Provider exposes the workspace session and bookmarks on the command surface
type Provider struct {
	session   *session.Session
	bookmarks *session.Bookmarks
	resolver  *paths.Resolver
}

// NewProvider creates a workspace provider
func NewProvider(s *session.Session, b *session.Bookmarks, resolver *paths.Resolver) *Provider {
	return &Provider{
		session:   s,
		bookmarks: b,
		resolver:  resolver,
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "workspace",
		Name:        "Workspace Service",
		Description: "Open workspace, recent workspaces and bookmarks",
		Category:    types.CategoryWorkspace,
		Capabilities: []string{
			"open",
			"close",
			"recent",
			"bookmarks",
		},
		Tools: []types.Tool{
			{
				ID:          "workspace.get_opened_cache",
				Name:        "Get Opened Cache",
				Description: "Get the open workspace and the recent-workspace list",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "workspace.add_recent_workspace",
				Name:        "Add Recent Workspace",
				Description: "Record a workspace as most recently opened",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Workspace folder", Required: true},
				},
				Returns:  "array",
				Mutating: true,
			},
			{
				ID:          "workspace.clear_recent_workspaces",
				Name:        "Clear Recent Workspaces",
				Description: "Empty the recent-workspace list",
				Parameters:  []types.Parameter{},
				Returns:     "boolean",
				Mutating:    true,
			},
			{
				ID:          "workspace.open_workspace",
				Name:        "Open Workspace",
				Description: "Make a folder the current workspace; relative search roots resolve against it",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Workspace folder", Required: true},
				},
				Returns:  "object",
				Mutating: true,
			},
			{
				ID:          "workspace.close_workspace",
				Name:        "Close Workspace",
				Description: "Close the current workspace",
				Parameters:  []types.Parameter{},
				Returns:     "boolean",
				Mutating:    true,
			},
			{
				ID:          "workspace.get_bookmarks",
				Name:        "Get Bookmarks",
				Description: "List bookmarks",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
			{
				ID:          "workspace.add_bookmark",
				Name:        "Add Bookmark",
				Description: "Bookmark a path",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Bookmarked path", Required: true},
					{Name: "label", Type: "string", Description: "Display label (defaults to the file name)", Required: false},
				},
				Returns:  "Bookmark",
				Mutating: true,
			},
			{
				ID:          "workspace.edit_bookmark",
				Name:        "Edit Bookmark",
				Description: "Change the path or label of a bookmark",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Bookmark ID", Required: true},
					{Name: "path", Type: "string", Description: "New path (unchanged if omitted)", Required: false},
					{Name: "label", Type: "string", Description: "New label (unchanged if omitted)", Required: false},
				},
				Returns:  "Bookmark",
				Mutating: true,
			},
			{
				ID:          "workspace.remove_bookmark",
				Name:        "Remove Bookmark",
				Description: "Delete a bookmark",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Bookmark ID", Required: true},
				},
				Returns:  "boolean",
				Mutating: true,
			},
		},
	}
}

// Execute runs a workspace operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "workspace.get_opened_cache":
		return p.openedCache()
	case "workspace.add_recent_workspace":
		return p.addRecent(params)
	case "workspace.clear_recent_workspaces":
		return p.clearRecent()
	case "workspace.open_workspace":
		return p.open(params)
	case "workspace.close_workspace":
		return p.close()
	case "workspace.get_bookmarks":
		return success(map[string]interface{}{"bookmarks": p.bookmarks.List()})
	case "workspace.add_bookmark":
		return p.addBookmark(params)
	case "workspace.edit_bookmark":
		return p.editBookmark(params)
	case "workspace.remove_bookmark":
		return p.removeBookmark(params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) openedCache() (*types.Result, error) {
	cache := p.session.OpenedCache()
	data := map[string]interface{}{"recent": cache.Recent}
	if cache.Current != nil {
		data["current"] = *cache.Current
	}
	return success(data)
}

func (p *Provider) addRecent(params map[string]interface{}) (*types.Result, error) {
	path, err := p.path(params)
	if err != nil {
		return failureErr(err)
	}

	if err := p.session.RecordOpened(path); err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"recent": p.session.ListRecent()})
}

func (p *Provider) clearRecent() (*types.Result, error) {
	if err := p.session.ClearRecent(); err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"cleared": true})
}

func (p *Provider) open(params map[string]interface{}) (*types.Result, error) {
	path, err := p.path(params)
	if err != nil {
		return failureErr(err)
	}

	info, err := os.Stat(path.String())
	if err != nil {
		return failureErr(fserr.Classify("open workspace", path.String(), err))
	}
	if !info.IsDir() {
		return failureErr(fserr.Newf(fserr.InvalidPath, "open workspace", path.String(), "not a directory"))
	}

	if err := p.session.Open(path); err != nil {
		return failureErr(err)
	}
	return p.openedCache()
}

func (p *Provider) close() (*types.Result, error) {
	p.session.Close()
	return success(map[string]interface{}{"closed": true})
}

func (p *Provider) addBookmark(params map[string]interface{}) (*types.Result, error) {
	path, err := p.path(params)
	if err != nil {
		return failureErr(err)
	}

	label, ok := params["label"].(string)
	if !ok || label == "" {
		label = path.Base()
	}

	rec, err := p.bookmarks.Add(path, label)
	if err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"bookmark": rec})
}

func (p *Provider) editBookmark(params map[string]interface{}) (*types.Result, error) {
	bookmarkID, ok := params["id"].(string)
	if !ok || bookmarkID == "" {
		return failure("id parameter required")
	}

	current, err := p.bookmarks.Get(id.BookmarkID(bookmarkID))
	if err != nil {
		return failureErr(err)
	}

	path := current.Path
	if raw, ok := params["path"].(string); ok && raw != "" {
		if path, err = p.path(params); err != nil {
			return failureErr(err)
		}
	}
	label := current.Label
	if l, ok := params["label"].(string); ok {
		label = l
	}

	rec, err := p.bookmarks.Edit(current.ID, path, label)
	if err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"bookmark": rec})
}

func (p *Provider) removeBookmark(params map[string]interface{}) (*types.Result, error) {
	bookmarkID, ok := params["id"].(string)
	if !ok || bookmarkID == "" {
		return failure("id parameter required")
	}

	if err := p.bookmarks.Remove(id.BookmarkID(bookmarkID)); err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"removed": true, "id": bookmarkID})
}

func (p *Provider) path(params map[string]interface{}) (paths.Path, error) {
	raw, ok := params["path"].(string)
	if !ok || raw == "" {
		return paths.Path{}, fserr.Newf(fserr.InvalidPath, "params", "", "path parameter required")
	}
	path, err := p.resolver.Normalize(raw)
	if err != nil {
		return paths.Path{}, err
	}
	// relative paths would depend on the backend's working directory
	if !path.IsAbs() {
		return paths.Path{}, fserr.Newf(fserr.InvalidPath, "params", raw, "path must be absolute or start with ~")
	}
	return path, nil
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}

func failureErr(err error) (*types.Result, error) {
	msg := err.Error()
	return &types.Result{Success: false, Error: &msg, ErrorKind: string(fserr.KindOf(err))}, nil
}
