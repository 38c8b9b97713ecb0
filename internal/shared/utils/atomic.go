package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtomicStage names the step of an atomic write that failed
type AtomicStage string

const (
	StageCreate AtomicStage = "create"
	StageWrite  AtomicStage = "write"
	StageSync   AtomicStage = "sync"
	StageChmod  AtomicStage = "chmod"
	StageClose  AtomicStage = "close"
	StageRename AtomicStage = "rename"
)

// AtomicError reports the stage at which an atomic write failed. The target
// is untouched whatever the stage.
type AtomicError struct {
	Stage AtomicStage
	Err   error
}

func (e *AtomicError) Error() string {
	return fmt.Sprintf("%s temp file: %v", e.Stage, e.Err)
}

func (e *AtomicError) Unwrap() error {
	return e.Err
}

// AtomicStageOf returns the failed stage of err, or "" when err did not come
// from an atomic write.
func AtomicStageOf(err error) AtomicStage {
	var atomicErr *AtomicError
	if errors.As(err, &atomicErr) {
		return atomicErr.Stage
	}
	return ""
}

// WriteFileAtomic replaces path with data by writing a sibling temp file,
// syncing it and renaming it over the target. The temp file is removed on
// any failure, leaving the target untouched.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return WriteAtomicFrom(path, bytes.NewReader(data), perm)
}

// WriteAtomicFrom is WriteFileAtomic for streamed content. Failures are
// *AtomicError values.
func WriteAtomicFrom(path string, r io.Reader, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &AtomicError{Stage: StageCreate, Err: err}
	}
	tmpName := tmp.Name()

	fail := func(stage AtomicStage, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &AtomicError{Stage: stage, Err: err}
	}

	if _, err := io.Copy(tmp, r); err != nil {
		return fail(StageWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(StageSync, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fail(StageChmod, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &AtomicError{Stage: StageClose, Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &AtomicError{Stage: StageRename, Err: err}
	}
	return nil
}
