package kvstore

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
)

type record struct {
	Path       string    `json:"path" toml:"path" yaml:"path"`
	LastOpened time.Time `json:"last_opened" toml:"last_opened" yaml:"last_opened"`
}

type document struct {
	Records []record `json:"records" toml:"records" yaml:"records"`
}

func newStore(t *testing.T, format string) *FileStore {
	t.Helper()
	codec, err := CodecFor(format)
	require.NoError(t, err)
	store, err := NewFileStore(t.TempDir(), codec, logging.NewNop())
	require.NoError(t, err)
	return store
}

func TestSaveLoadEachFormat(t *testing.T) {
	opened := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	want := document{Records: []record{
		{Path: "/home/ada/notes", LastOpened: opened},
		{Path: "/home/ada/work", LastOpened: opened.Add(-time.Hour)},
	}}

	for _, format := range []string{"json", "toml", "yaml"} {
		t.Run(format, func(t *testing.T) {
			store := newStore(t, format)
			require.NoError(t, store.Save("recent", want))

			var got document
			found, err := store.Load("recent", &got)
			require.NoError(t, err)
			assert.True(t, found)
			require.Len(t, got.Records, 2)
			assert.Equal(t, want.Records[0].Path, got.Records[0].Path)
			assert.True(t, want.Records[1].LastOpened.Equal(got.Records[1].LastOpened))
		})
	}
}

func TestLoadMissing(t *testing.T) {
	store := newStore(t, "json")

	var got document
	found, err := store.Load("bookmarks", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, got.Records)
}

func TestLoadCorrupt(t *testing.T) {
	store := newStore(t, "json")
	require.NoError(t, os.WriteFile(store.Path("recent"), []byte("{not json"), 0o644))

	var got document
	_, err := store.Load("recent", &got)
	assert.Error(t, err)
}

func TestInvalidKeys(t *testing.T) {
	store := newStore(t, "yaml")
	for _, key := range []string{"", "..", "a/b"} {
		assert.Error(t, store.Save(key, document{}), key)
	}
}

func TestDelete(t *testing.T) {
	store := newStore(t, "toml")
	require.NoError(t, store.Save("recent", document{}))
	require.NoError(t, store.Delete("recent"))
	require.NoError(t, store.Delete("recent"))

	_, err := os.Stat(store.Path("recent"))
	assert.True(t, os.IsNotExist(err))
}

func TestCodecFor(t *testing.T) {
	c, err := CodecFor("yml")
	require.NoError(t, err)
	assert.Equal(t, ".yaml", c.Ext())

	_, err = CodecFor("xml")
	assert.Error(t, err)
}
