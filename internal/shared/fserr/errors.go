// Package fserr defines the typed failures surfaced by the workspace file engine.
//
// Every filesystem, walker and search operation reports failures as *Error,
// carrying a Kind from a closed taxonomy so callers (and the UI behind the
// command surface) can branch on the cause without parsing messages.
//
// Kinds:
//   - NotFound, AlreadyExists, PermissionDenied, IsADirectory, NotEmpty
//   - InvalidPath: rejected before touching the filesystem
//   - UnsupportedPlatform: missing OS capability (trash)
//   - EmptyQuery: search without name or content pattern
//   - Internal: any I/O failure outside the taxonomy
package fserr

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Kind classifies a failure
type Kind string

const (
	NotFound            Kind = "not_found"
	AlreadyExists       Kind = "already_exists"
	PermissionDenied    Kind = "permission_denied"
	IsADirectory        Kind = "is_a_directory"
	NotEmpty            Kind = "not_empty"
	InvalidPath         Kind = "invalid_path"
	UnsupportedPlatform Kind = "unsupported_platform"
	EmptyQuery          Kind = "empty_query"
	Internal            Kind = "internal"
)

// Error is a classified failure of a single operation
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so errors.Is(err, &Error{Kind: NotFound}) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Path == "" && t.Err == nil && t.Kind == e.Kind
}

// New creates a failure of the given kind
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Newf creates a failure with a formatted cause
func Newf(kind Kind, op, path, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}

// Classify maps an OS error into the taxonomy. Already classified errors
// pass through unchanged.
func Classify(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return err
	}

	return &Error{Kind: kindOf(err), Op: op, Path: path, Err: err}
}

func kindOf(err error) Kind {
	switch {
	// ENOTEMPTY also satisfies fs.ErrExist, so it has to be checked first.
	case errors.Is(err, syscall.ENOTEMPTY):
		return NotEmpty
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, fs.ErrExist):
		return AlreadyExists
	case errors.Is(err, fs.ErrPermission):
		return PermissionDenied
	case errors.Is(err, syscall.EISDIR):
		return IsADirectory
	case errors.Is(err, syscall.ENOTDIR):
		// a path component is a file, so the addressed entry cannot exist
		return NotFound
	case errors.Is(err, syscall.ENAMETOOLONG), errors.Is(err, fs.ErrInvalid):
		return InvalidPath
	}
	return Internal
}

// KindOf returns the kind of err, Internal for unclassified errors and ""
// for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return kindOf(err)
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
