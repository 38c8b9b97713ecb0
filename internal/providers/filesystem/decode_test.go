package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	d := NewTextDecoder(0)

	text, ok := d.Decode([]byte("plain ascii"))
	assert.True(t, ok)
	assert.Equal(t, "plain ascii", text)

	text, ok = d.Decode([]byte("\xEF\xBB\xBFwith bom"))
	assert.True(t, ok)
	assert.Equal(t, "with bom", text)

	text, ok = d.Decode(nil)
	assert.True(t, ok)
	assert.Empty(t, text)

	_, ok = d.Decode([]byte{0x00, 0x01, 0x02, 0x03, 0xff, 0x00, 0x10})
	assert.False(t, ok, "binary content is not text")
}

func TestDecodeUTF16(t *testing.T) {
	d := NewTextDecoder(0)
	utf16le := []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00}

	text, ok := d.Decode(utf16le)
	require.True(t, ok)
	assert.Equal(t, "hi", text)
}

func TestDecodeLossy(t *testing.T) {
	d := NewTextDecoder(0)
	text := d.DecodeLossy([]byte{0x00, 'o', 'k', 0xff})
	assert.True(t, strings.Contains(text, "ok"))
	assert.True(t, strings.Contains(text, "\uFFFD"))
}

func TestReadFileSizeCap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	_, ok, err := NewTextDecoder(4).ReadFile(path)
	require.NoError(t, err)
	assert.False(t, ok)

	text, ok, err := NewTextDecoder(10).ReadFile(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0123456789", text)

	_, _, err = NewTextDecoder(0).ReadFile(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
