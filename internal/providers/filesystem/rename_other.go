//go:build !linux

package filesystem

import "os"

// renameNoReplace relies on the caller's existence check; the window between
// that check and the rename is not closed on this platform.
func renameNoReplace(from, to string) error {
	return os.Rename(from, to)
}
