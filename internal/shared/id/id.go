// Package id generates identifiers for user-created records.
//
// Identifiers are prefixed ULIDs ("bm_01J..."): sortable by creation time,
// safe to show in logs, and unique without coordination. Bookmarks receive
// their IDs from the store on add; dispatched commands carry a task ID so log
// lines of one command can be correlated.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// BookmarkID identifies a bookmark record
type BookmarkID string

// TaskID identifies a dispatched command
type TaskID string

const (
	BookmarkPrefix = "bm"
	TaskPrefix     = "task"
)

// Generator produces ULIDs from a monotonic entropy source
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return NewGeneratorWithEntropy(rand.Reader)
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Monotonic ordering keeps IDs created in the same millisecond sorted.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: ulid.Monotonic(entropy, 0)}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewBookmarkID generates a bookmark ID
func NewBookmarkID() BookmarkID {
	return BookmarkID(Default().GenerateWithPrefix(BookmarkPrefix))
}

// NewTaskID generates a task ID
func NewTaskID() TaskID {
	return TaskID(Default().GenerateWithPrefix(TaskPrefix))
}

func (id BookmarkID) String() string { return string(id) }
func (id TaskID) String() string     { return string(id) }

// IsValid checks whether s is a prefixed ULID with the given prefix
func IsValid(s, prefix string) bool {
	rest, ok := strings.CutPrefix(s, prefix+"_")
	if !ok {
		return false
	}
	_, err := ulid.Parse(rest)
	return err == nil
}

// Timestamp extracts the creation time of a prefixed ULID
func Timestamp(s string) (time.Time, error) {
	_, rest, ok := strings.Cut(s, "_")
	if !ok {
		rest = s
	}
	parsed, err := ulid.Parse(rest)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
