package filesystem

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

type fixedScope struct {
	root paths.Path
	open bool
}

func (s fixedScope) Root() (paths.Path, bool) { return s.root, s.open }

func newTestProvider(f *fixture, scope Scope) *Provider {
	return NewProvider(&FilesystemOps{
		Store:          f.store,
		Engine:         f.engine,
		Resolver:       f.resolver,
		Scope:          scope,
		WalkMaxEntries: 100,
	})
}

func TestProviderDefinition(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	p := newTestProvider(f, nil)

	def := p.Definition()
	assert.Equal(t, "filesystem", def.ID)
	assert.Equal(t, types.CategoryFilesystem, def.Category)
	assert.Len(t, def.Tools, len(p.handlers))

	seen := map[string]bool{}
	for _, tool := range def.Tools {
		assert.False(t, seen[tool.ID], "duplicate tool %s", tool.ID)
		seen[tool.ID] = true
		assert.Contains(t, p.handlers, tool.ID)
		assert.True(t, strings.HasPrefix(tool.ID, "filesystem."))
	}
}

func TestProviderUnknownTool(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	result, err := newTestProvider(f, nil).Execute(context.Background(), "filesystem.nope", nil, &types.Context{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "unknown tool")
}

func TestProviderWriteThenRead(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	p := newTestProvider(f, nil)
	ctx := context.Background()
	target := f.path(t, "note.md").String()

	result, err := p.Execute(ctx, "filesystem.write_file", map[string]interface{}{
		"path": target, "content": "# hello", "mode": "create_new",
	}, &types.Context{})
	require.NoError(t, err)
	require.True(t, result.Success)

	result, err = p.Execute(ctx, "filesystem.write_file", map[string]interface{}{
		"path": target, "content": "again", "mode": "create_new",
	}, &types.Context{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, string(fserr.AlreadyExists), result.ErrorKind)

	result, err = p.Execute(ctx, "filesystem.get_file_content", map[string]interface{}{"path": target}, &types.Context{})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "# hello", result.Data["content"])

	result, err = p.Execute(ctx, "filesystem.get_file_content", map[string]interface{}{}, &types.Context{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, string(fserr.InvalidPath), result.ErrorKind)
}

func TestProviderWriteBinary(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	p := newTestProvider(f, nil)
	target := f.path(t, "data.bin").String()

	result, err := p.Execute(context.Background(), "filesystem.write_u8_array_to_file", map[string]interface{}{
		"path": target,
		"data": []interface{}{float64(104), float64(105)},
	}, &types.Context{})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "hi", f.readFile(t, "data.bin"))

	result, err = p.Execute(context.Background(), "filesystem.write_u8_array_to_file", map[string]interface{}{
		"path": target,
		"data": []interface{}{float64(300)},
	}, &types.Context{})
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestProviderSearchUsesScope(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	f.writeFile(t, "docs/plan.md", "roadmap")
	f.writeFile(t, "other.md", "roadmap")
	p := newTestProvider(f, fixedScope{root: f.path(t, "docs"), open: true})

	result, err := p.Execute(context.Background(), "filesystem.search_files", map[string]interface{}{
		"content_pattern": "roadmap",
	}, &types.Context{})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Data["count"])

	matches := result.Data["matches"].([]SearchMatch)
	assert.Equal(t, "plan.md", matches[0].Entry.Name)

	result, err = p.Execute(context.Background(), "filesystem.search_files", map[string]interface{}{}, &types.Context{})
	require.NoError(t, err)
	assert.Equal(t, string(fserr.EmptyQuery), result.ErrorKind)
}

func TestScopedRoot(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	ws := f.mkdir(t, "ws")
	f.mkdir(t, "ws/sub")
	open := fixedScope{root: ws, open: true}

	root, err := ScopedRoot(f.resolver, open, "")
	require.NoError(t, err)
	assert.Equal(t, ws, root)

	root, err = ScopedRoot(f.resolver, open, "sub")
	require.NoError(t, err)
	assert.Equal(t, "ws/sub", f.rel(t, root))

	root, err = ScopedRoot(f.resolver, open, "sub/..")
	require.NoError(t, err)
	assert.Equal(t, ws, root)

	_, err = ScopedRoot(f.resolver, open, "../..")
	assert.True(t, fserr.Is(err, fserr.InvalidPath))

	root, err = ScopedRoot(f.resolver, open, f.root.String())
	require.NoError(t, err, "absolute roots are taken as given")
	assert.Equal(t, f.root, root)

	_, err = ScopedRoot(f.resolver, nil, "")
	assert.True(t, fserr.Is(err, fserr.InvalidPath))

	_, err = ScopedRoot(f.resolver, fixedScope{}, "")
	assert.True(t, fserr.Is(err, fserr.InvalidPath))
}

func TestScopedRootWithoutWorkspace(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)

	for _, scope := range []Scope{nil, fixedScope{}} {
		for _, raw := range []string{"sub", "../..", "./ws", "sub/../.."} {
			_, err := ScopedRoot(f.resolver, scope, raw)
			assert.True(t, fserr.Is(err, fserr.InvalidPath), "scope %v root %q: got %v", scope, raw, err)
		}

		root, err := ScopedRoot(f.resolver, scope, f.root.String())
		require.NoError(t, err)
		assert.Equal(t, f.root, root)

		root, err = ScopedRoot(f.resolver, scope, "~")
		require.NoError(t, err)
		assert.Equal(t, f.home, root.String())
	}
}

func TestProviderMoveReportsPerItem(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	p := newTestProvider(f, nil)
	a := f.writeFile(t, "a.txt", "a")
	dest := f.mkdir(t, "dest")

	result, err := p.Execute(context.Background(), "filesystem.move_files_to_folder", map[string]interface{}{
		"paths":  []interface{}{a.String(), f.path(t, "missing.txt").String()},
		"target": dest.String(),
	}, &types.Context{})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Data["moved"])
	assert.Equal(t, 1, result.Data["failed"])

	views := result.Data["results"].([]map[string]interface{})
	require.Len(t, views, 2)
	assert.Equal(t, true, views[0]["success"])
	assert.Equal(t, false, views[1]["success"])
	assert.Equal(t, string(fserr.NotFound), views[1]["error_kind"])
	assert.Equal(t, "a", f.readFile(t, "dest/a.txt"))
}
