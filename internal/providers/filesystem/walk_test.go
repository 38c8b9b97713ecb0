package filesystem

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
)

func collect(t *testing.T, f *fixture, w *Walker) []string {
	t.Helper()
	var rels []string
	for w.Next() {
		rels = append(rels, f.rel(t, w.Entry().Path))
	}
	require.NoError(t, w.Err())
	return rels
}

// workspaceTree builds the a.txt / sub/b.txt / sub/.git layout
func workspaceTree(t *testing.T, f *fixture) {
	f.writeFile(t, "a.txt", "hello")
	f.writeFile(t, "sub/b.txt", "hello world")
	f.writeFile(t, "sub/.git/ignored.txt", "hello from git")
}

func TestWalkIgnoresGit(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	workspaceTree(t, f)

	w, err := f.engine.Walk(context.Background(), f.root, WalkOptions{Ignore: []string{".git"}})
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, []string{"a.txt", "sub", "sub/b.txt"}, collect(t, f, w))
}

func TestWalkOrders(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	f.writeFile(t, "b/deep/x.txt", "x")
	f.writeFile(t, "b/y.txt", "y")
	f.writeFile(t, "a/z.txt", "z")
	f.writeFile(t, "c.txt", "c")

	w, err := f.engine.Walk(context.Background(), f.root, WalkOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"a", "a/z.txt",
		"b", "b/deep", "b/deep/x.txt", "b/y.txt",
		"c.txt",
	}, collect(t, f, w))

	w, err = f.engine.Walk(context.Background(), f.root, WalkOptions{Order: BreadthFirst})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"a", "b", "c.txt",
		"a/z.txt", "b/deep", "b/y.txt",
		"b/deep/x.txt",
	}, collect(t, f, w))
}

func TestWalkMaxDepth(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	f.writeFile(t, "one/two/three.txt", "3")

	w, err := f.engine.Walk(context.Background(), f.root, WalkOptions{MaxDepth: u32Ptr(2)})
	require.NoError(t, err)
	entries := collect(t, f, w)
	assert.Equal(t, []string{"one", "one/two"}, entries)

	w, err = f.engine.Walk(context.Background(), f.root, WalkOptions{MaxDepth: u32Ptr(0)})
	require.NoError(t, err)
	assert.Empty(t, collect(t, f, w))
}

func TestWalkIgnoreByRelativePath(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	f.writeFile(t, "docs/build/out.html", "x")
	f.writeFile(t, "build/keep.txt", "x")

	w, err := f.engine.Walk(context.Background(), f.root, WalkOptions{Ignore: []string{"docs/build", "**/*.html"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"build", "build/keep.txt", "docs"}, collect(t, f, w))
}

func TestWalkEntryMetadata(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	f.writeFile(t, "dir/file.txt", "12345")

	w, err := f.engine.Walk(context.Background(), f.root, WalkOptions{})
	require.NoError(t, err)
	defer w.Close()

	require.True(t, w.Next())
	dir := w.Entry()
	assert.Equal(t, KindDirectory, dir.Kind)
	assert.Equal(t, 1, dir.Depth)

	require.True(t, w.Next())
	file := w.Entry()
	assert.Equal(t, KindFile, file.Kind)
	assert.Equal(t, 2, file.Depth)
	require.NotNil(t, file.Size)
	assert.Equal(t, uint64(5), *file.Size)
	assert.Equal(t, "file.txt", file.Name)

	assert.False(t, w.Next())
	assert.NoError(t, w.Err())
}

func TestWalkSymlinkCycle(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	f := newFixture(t, paths.CaseSensitive)
	f.writeFile(t, "a.txt", "a")
	f.mkdir(t, "dir")
	require.NoError(t, os.Symlink(f.root.String(), f.path(t, "dir/loop").String()))

	w, err := f.engine.Walk(context.Background(), f.root, WalkOptions{FollowSymlinks: true})
	require.NoError(t, err)

	kinds := map[string]Kind{}
	for w.Next() {
		kinds[f.rel(t, w.Entry().Path)] = w.Entry().Kind
	}
	require.NoError(t, w.Err())

	assert.Equal(t, map[string]Kind{
		"a.txt":    KindFile,
		"dir":      KindDirectory,
		"dir/loop": KindCycle,
	}, kinds)

	w, err = f.engine.Walk(context.Background(), f.root, WalkOptions{})
	require.NoError(t, err)
	kinds = map[string]Kind{}
	for w.Next() {
		kinds[f.rel(t, w.Entry().Path)] = w.Entry().Kind
	}
	assert.Equal(t, KindSymlink, kinds["dir/loop"], "links are not followed by default")
}

func TestWalkCancellation(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	workspaceTree(t, f)
	before := f.snapshot(t)

	ctx, cancel := context.WithCancel(context.Background())
	w, err := f.engine.Walk(ctx, f.root, WalkOptions{})
	require.NoError(t, err)

	require.True(t, w.Next())
	cancel()
	assert.False(t, w.Next())
	assert.ErrorIs(t, w.Err(), context.Canceled)
	assert.False(t, w.Next(), "walk is not restartable")

	assert.Equal(t, before, f.snapshot(t))
}

func TestWalkAllEarlyStop(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	workspaceTree(t, f)

	w, err := f.engine.Walk(context.Background(), f.root, WalkOptions{})
	require.NoError(t, err)

	var seen []string
	for entry, err := range w.All() {
		require.NoError(t, err)
		seen = append(seen, entry.Name)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a.txt", "sub"}, seen)
	assert.False(t, w.Next(), "All closes the walker")
}

func TestWalkRootErrors(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	ctx := context.Background()

	_, err := f.engine.Walk(ctx, f.path(t, "missing"), WalkOptions{})
	assert.True(t, fserr.Is(err, fserr.NotFound), "got %v", err)

	_, err = f.engine.Walk(ctx, f.writeFile(t, "file.txt", "x"), WalkOptions{})
	assert.True(t, fserr.Is(err, fserr.InvalidPath))

	_, err = f.engine.Walk(ctx, f.root, WalkOptions{Ignore: []string{"[unclosed"}})
	assert.True(t, fserr.Is(err, fserr.InvalidPath))
}
