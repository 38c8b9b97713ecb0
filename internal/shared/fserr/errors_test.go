package fserr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not exist", fs.ErrNotExist, NotFound},
		{"exist", fs.ErrExist, AlreadyExists},
		{"permission", fs.ErrPermission, PermissionDenied},
		{"not empty errno", syscall.ENOTEMPTY, NotEmpty},
		{"is dir errno", syscall.EISDIR, IsADirectory},
		{"not dir errno", syscall.ENOTDIR, NotFound},
		{"wrapped", fmt.Errorf("open: %w", fs.ErrNotExist), NotFound},
		{"unknown", errors.New("boom"), Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("op", "/p", tt.err)
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
			assert.True(t, Is(err, tt.want))
		})
	}
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, Classify("op", "/p", nil))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.False(t, Is(nil, NotFound))
}

func TestClassifyKeepsTypedErrors(t *testing.T) {
	orig := New(NotEmpty, "delete_folder", "/a", nil)
	err := Classify("other", "/b", fmt.Errorf("wrapped: %w", orig))

	var typed *Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, "delete_folder", typed.Op)
	assert.Equal(t, NotEmpty, typed.Kind)
}

func TestErrorsIsByKind(t *testing.T) {
	err := Newf(AlreadyExists, "rename", "/x", "destination %s exists", "/y")
	assert.True(t, errors.Is(err, &Error{Kind: AlreadyExists}))
	assert.False(t, errors.Is(err, &Error{Kind: NotFound}))
	assert.Contains(t, err.Error(), "rename /x")
}

func TestClassifyRealOSErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := os.ReadFile(filepath.Join(dir, "missing"))
	assert.Equal(t, NotFound, KindOf(Classify("read", "missing", err)))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	err = os.Mkdir(filepath.Join(dir, "sub"), 0o755)
	assert.Equal(t, AlreadyExists, KindOf(Classify("mkdir", "sub", err)))
}
