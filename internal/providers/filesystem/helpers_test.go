package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
)

type fixture struct {
	root     paths.Path
	home     string
	resolver *paths.Resolver
	store    *Store
	engine   *Engine
}

func newFixture(t *testing.T, policy paths.CasePolicy) *fixture {
	t.Helper()
	home := t.TempDir()
	resolver := paths.NewResolver(paths.Context{Home: home}, policy)
	logger := logging.NewNop()

	return &fixture{
		root:     resolver.MustNormalize(t.TempDir()),
		home:     home,
		resolver: resolver,
		store:    NewStore(resolver, NewFreedesktopTrash(filepath.Join(home, ".local", "share")), logger),
		engine:   NewEngine(resolver, DefaultSearchDefaults(), monitoring.NewMetrics(), logger),
	}
}

// path joins slash-separated rel onto the fixture root
func (f *fixture) path(t *testing.T, rel string) paths.Path {
	t.Helper()
	p, err := f.resolver.Join(f.root, rel)
	require.NoError(t, err)
	return p
}

func (f *fixture) writeFile(t *testing.T, rel, content string) paths.Path {
	t.Helper()
	p := f.path(t, rel)
	require.NoError(t, os.MkdirAll(p.Dir().String(), 0o755))
	require.NoError(t, os.WriteFile(p.String(), []byte(content), 0o644))
	return p
}

func (f *fixture) mkdir(t *testing.T, rel string) paths.Path {
	t.Helper()
	p := f.path(t, rel)
	require.NoError(t, os.MkdirAll(p.String(), 0o755))
	return p
}

func (f *fixture) rel(t *testing.T, p paths.Path) string {
	t.Helper()
	rel, err := f.resolver.Rel(f.root, p)
	require.NoError(t, err)
	return rel
}

func (f *fixture) readFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(f.path(t, rel).String())
	require.NoError(t, err)
	return string(data)
}

// snapshot lists every path below the root with its content, for checking
// that read-only operations left the tree alone
func (f *fixture) snapshot(t *testing.T) []string {
	t.Helper()
	var out []string
	err := filepath.Walk(f.root.String(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		line := path
		if info.Mode().IsRegular() {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			line += "=" + string(data)
		}
		out = append(out, line)
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

func strPtr(s string) *string { return &s }

func u32Ptr(n uint32) *uint32 { return &n }
