package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnique(t *testing.T) {
	gen := NewGenerator()

	a := gen.Generate()
	b := gen.Generate()

	assert.NotEqual(t, a, b)
	assert.True(t, a.Compare(b) < 0, "monotonic IDs should sort by creation")
}

func TestTypedIDs(t *testing.T) {
	bm := NewBookmarkID()
	task := NewTaskID()

	assert.True(t, strings.HasPrefix(bm.String(), "bm_"))
	assert.True(t, strings.HasPrefix(task.String(), "task_"))
	assert.True(t, IsValid(bm.String(), BookmarkPrefix))
	assert.False(t, IsValid(bm.String(), TaskPrefix))
	assert.False(t, IsValid("bm_nope", BookmarkPrefix))
	assert.False(t, IsValid("", BookmarkPrefix))
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Millisecond)
	bm := NewBookmarkID()
	after := time.Now().Add(time.Millisecond)

	ts, err := Timestamp(bm.String())
	require.NoError(t, err)
	assert.False(t, ts.Before(before.Truncate(time.Millisecond)))
	assert.False(t, ts.After(after))

	_, err = Timestamp("bm_invalid")
	assert.Error(t, err)
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 50
	const perGoroutine = 50

	var wg sync.WaitGroup
	ids := make(chan string, goroutines*perGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				ids <- gen.GenerateWithPrefix(BookmarkPrefix)
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for s := range ids {
		assert.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}
