// Package paths normalizes and joins workspace paths.
//
// All path handling in the engine goes through a Resolver. Resolution is purely
// lexical: separators are collapsed, "." and ".." are resolved against the
// preceding segments, and symlinks are never followed. Existence is checked only
// by the operations that need it.
//
// # Case policy
//
// Whether two paths are equal is a configured property of the Resolver
// (CaseSensitive or CaseInsensitive). It is never inferred from the host OS, so
// behaviour stays the same across test machines and user filesystems.
//
// # Home directory
//
// The user's home directory is resolved once at startup and handed to the
// Resolver inside an immutable Context. A leading "~" expands against it.
//
//	r := paths.NewResolver(paths.Context{Home: "/home/ann"}, paths.CaseSensitive)
//	p, err := r.Normalize("~/notes/../docs//a.md") // /home/ann/docs/a.md
//	q, err := r.Join(p.Dir(), "b.md")               // /home/ann/docs/b.md
package paths
