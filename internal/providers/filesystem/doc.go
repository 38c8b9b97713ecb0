// Package filesystem is the workspace file engine.
//
// This package is organized into specialized modules:
//   - basic: content reads and writes (atomic overwrite, create-new)
//   - directory: folder create/delete/list and the walk command
//   - operations: copy, batch move, rename, delete
//   - trash: platform trash (freedesktop on Linux/BSD, ~/.Trash on macOS)
//   - walk: lazy depth- or breadth-first traversal with ignore rules
//     and symlink cycle detection
//   - search: name and content search with deterministic ranking
//   - decode: binary detection and charset decoding
//   - metadata: folder summaries and MIME detection
//   - export: HTML export
//
// All operations:
//   - Take paths already normalized by paths.Resolver
//   - Report failures as *fserr.Error
//   - Never retry
//
// Example Usage:
//
//	store := filesystem.NewStore(resolver, filesystem.NewTrash(home, runtime.GOOS), logger)
//	data, err := store.ReadContent(ctx, p)
package filesystem
