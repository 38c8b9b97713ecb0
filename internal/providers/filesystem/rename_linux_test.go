package filesystem

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
)

func TestRenameNoReplaceKeepsExistingTarget(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	src := f.writeFile(t, "src.txt", "source")
	dst := f.writeFile(t, "dst.txt", "arrived first")

	err := renameNoReplace(src.String(), dst.String())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrExist), "got %v", err)
	assert.True(t, fserr.Is(fserr.Classify("move", src.String(), err), fserr.AlreadyExists))

	assert.Equal(t, "source", f.readFile(t, "src.txt"))
	assert.Equal(t, "arrived first", f.readFile(t, "dst.txt"))
}

func TestRenameNoReplaceMovesIntoFreeName(t *testing.T) {
	f := newFixture(t, paths.CaseSensitive)
	src := f.writeFile(t, "src.txt", "source")
	dir := f.mkdir(t, "dest")

	require.NoError(t, renameNoReplace(src.String(), dir.String()+"/src.txt"))
	assert.Equal(t, "source", f.readFile(t, "dest/src.txt"))
	assert.NoFileExists(t, src.String())
}
