package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/GriffinCanCode/Workspace/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/kvstore"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

func newProvider(t *testing.T) (*Provider, *session.Session) {
	t.Helper()
	logger := logging.NewNop()
	resolver := paths.NewResolver(paths.Context{Home: t.TempDir()}, paths.CaseSensitive)

	codec, err := kvstore.CodecFor("json")
	require.NoError(t, err)
	store, err := kvstore.NewFileStore(t.TempDir(), codec, logger)
	require.NoError(t, err)

	s, err := session.NewSession(resolver, session.NewRecentStore(store, resolver, logger), 3, logger)
	require.NoError(t, err)
	b, err := session.NewBookmarks(session.NewBookmarkStore(store, resolver, logger), logger)
	require.NoError(t, err)

	return NewProvider(s, b, resolver), s
}

func exec(t *testing.T, p *Provider, tool string, params map[string]interface{}) *types.Result {
	t.Helper()
	result, err := p.Execute(context.Background(), tool, params, &types.Context{})
	require.NoError(t, err)
	return result
}

func TestDefinitionToolsAreHandled(t *testing.T) {
	p, _ := newProvider(t)
	for _, tool := range p.Definition().Tools {
		result := exec(t, p, tool.ID, map[string]interface{}{})
		if !result.Success {
			require.NotNil(t, result.Error)
			assert.NotContains(t, *result.Error, "unknown tool", tool.ID)
		}
	}

	result := exec(t, p, "workspace.nope", nil)
	assert.False(t, result.Success)
}

func TestOpenWorkspace(t *testing.T) {
	p, s := newProvider(t)
	dir := t.TempDir()

	result := exec(t, p, "workspace.open_workspace", map[string]interface{}{"path": dir})
	require.True(t, result.Success)
	assert.Equal(t, dir, result.Data["current"].(paths.Path).String())

	root, open := s.Root()
	require.True(t, open)
	assert.Equal(t, dir, root.String())

	result = exec(t, p, "workspace.close_workspace", nil)
	require.True(t, result.Success)
	_, open = s.Root()
	assert.False(t, open)

	result = exec(t, p, "workspace.get_opened_cache", nil)
	require.True(t, result.Success)
	assert.NotContains(t, result.Data, "current")
	assert.Len(t, result.Data["recent"], 1)
}

func TestOpenWorkspaceRejectsFiles(t *testing.T) {
	p, _ := newProvider(t)
	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	result := exec(t, p, "workspace.open_workspace", map[string]interface{}{"path": file})
	assert.False(t, result.Success)
	assert.Equal(t, string(fserr.InvalidPath), result.ErrorKind)

	result = exec(t, p, "workspace.open_workspace", map[string]interface{}{"path": file + ".missing"})
	assert.Equal(t, string(fserr.NotFound), result.ErrorKind)
}

func TestRecentWorkspaces(t *testing.T) {
	p, _ := newProvider(t)

	for _, raw := range []string{"/ws", "/a", "/ws", "/b", "/ws"} {
		result := exec(t, p, "workspace.add_recent_workspace", map[string]interface{}{"path": raw})
		require.True(t, result.Success)
	}

	result := exec(t, p, "workspace.get_opened_cache", nil)
	recent := result.Data["recent"].([]session.WorkspaceRecord)
	require.Len(t, recent, 3)
	assert.Equal(t, "/ws", recent[0].Path.String())

	result = exec(t, p, "workspace.clear_recent_workspaces", nil)
	require.True(t, result.Success)
	result = exec(t, p, "workspace.get_opened_cache", nil)
	assert.Empty(t, result.Data["recent"])
}

func TestBookmarkTools(t *testing.T) {
	p, _ := newProvider(t)

	result := exec(t, p, "workspace.add_bookmark", map[string]interface{}{"path": "/notes/todo.md"})
	require.True(t, result.Success)
	added := result.Data["bookmark"].(session.BookmarkRecord)
	assert.Equal(t, "todo.md", added.Label)

	result = exec(t, p, "workspace.edit_bookmark", map[string]interface{}{
		"id": added.ID.String(), "label": "Todo",
	})
	require.True(t, result.Success)
	edited := result.Data["bookmark"].(session.BookmarkRecord)
	assert.Equal(t, "Todo", edited.Label)
	assert.Equal(t, added.Path, edited.Path)

	result = exec(t, p, "workspace.get_bookmarks", nil)
	assert.Equal(t, []session.BookmarkRecord{edited}, result.Data["bookmarks"])

	result = exec(t, p, "workspace.remove_bookmark", map[string]interface{}{"id": added.ID.String()})
	require.True(t, result.Success)

	result = exec(t, p, "workspace.remove_bookmark", map[string]interface{}{"id": added.ID.String()})
	assert.False(t, result.Success)
	assert.Equal(t, string(fserr.NotFound), result.ErrorKind)
}

func TestRelativePathsRejected(t *testing.T) {
	p, s := newProvider(t)
	ws := t.TempDir()

	for _, tool := range []string{
		"workspace.open_workspace",
		"workspace.add_recent_workspace",
		"workspace.add_bookmark",
	} {
		for _, raw := range []string{"ws", "./ws", "../ws"} {
			result := exec(t, p, tool, map[string]interface{}{"path": raw})
			assert.False(t, result.Success, "%s %q", tool, raw)
			assert.Equal(t, string(fserr.InvalidPath), result.ErrorKind, "%s %q", tool, raw)
		}
	}
	assert.Empty(t, s.ListRecent())
	_, open := s.Root()
	assert.False(t, open)

	result := exec(t, p, "workspace.add_bookmark", map[string]interface{}{"path": ws})
	require.True(t, result.Success)
	added := result.Data["bookmark"].(session.BookmarkRecord)

	result = exec(t, p, "workspace.edit_bookmark", map[string]interface{}{"id": added.ID.String(), "path": "elsewhere"})
	assert.Equal(t, string(fserr.InvalidPath), result.ErrorKind)

	result = exec(t, p, "workspace.add_recent_workspace", map[string]interface{}{"path": "~"})
	assert.True(t, result.Success, "home-relative paths expand to absolute ones")
}
