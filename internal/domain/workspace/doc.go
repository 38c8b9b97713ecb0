// Package workspace keeps the recent-workspace history, the currently open
// workspace and the user's bookmarks.
//
// The package owns only in-memory state and its ordering rules. Persistence
// is delegated to a Persister; every committed mutation is saved, and a
// failed save is reported after the in-memory change has taken effect.
//
// Concurrency: Session and Bookmarks each guard their state with a
// sync.RWMutex. Mutations are serialized; readers receive copies of the
// last committed snapshot.
package workspace
