package filesystem

import (
	"context"
	"fmt"
	"time"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

// Kind is the type of a filesystem entry
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
	KindSymlink   Kind = "symlink"
	// KindCycle marks a followed symlink whose target directory was already visited
	KindCycle Kind = "cycle"
)

// FileEntry is a point-in-time snapshot of one entry
type FileEntry struct {
	Path     paths.Path `json:"path"`
	Name     string     `json:"name"`
	Kind     Kind       `json:"kind"`
	Size     *uint64    `json:"size,omitempty"`
	Modified *time.Time `json:"modified,omitempty"`
	// Depth below the walk root; direct children have depth 1
	Depth int `json:"depth"`
}

// IsDir reports whether the entry is a directory
func (e FileEntry) IsDir() bool { return e.Kind == KindDirectory }

// WriteMode selects how WriteContent treats an existing target
type WriteMode int

const (
	Overwrite WriteMode = iota
	CreateNew
)

func (m WriteMode) String() string {
	if m == CreateNew {
		return "create_new"
	}
	return "overwrite"
}

// ParseWriteMode parses the command surface spelling of a mode
func ParseWriteMode(s string) (WriteMode, error) {
	switch s {
	case "", "overwrite":
		return Overwrite, nil
	case "create_new":
		return CreateNew, nil
	}
	return Overwrite, fmt.Errorf("unknown write mode %q", s)
}

// MoveOutcome reports one element of a batch move
type MoveOutcome struct {
	Source      paths.Path
	Destination paths.Path
	Err         error
}

// OK reports whether the move succeeded
func (o MoveOutcome) OK() bool { return o.Err == nil }

// MatchGroup orders search results
type MatchGroup int

const (
	GroupExact MatchGroup = iota
	GroupSubstring
	GroupContent
)

func (g MatchGroup) String() string {
	switch g {
	case GroupExact:
		return "exact"
	case GroupSubstring:
		return "substring"
	default:
		return "content"
	}
}

// MarshalText encodes the group name
func (g MatchGroup) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// Range is a half-open byte span [Start, End) in decoded UTF-8 text
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SearchQuery describes one search invocation
type SearchQuery struct {
	Root           paths.Path
	NamePattern    *string
	ContentPattern *string
	CaseSensitive  bool
	// MaxResults of 0 selects the configured default
	MaxResults     uint32
	Ignore         []string
	FollowSymlinks bool
	MaxDepth       *uint32
}

// SearchMatch is one search result
type SearchMatch struct {
	Entry         FileEntry  `json:"entry"`
	MatchedRanges []Range    `json:"matched_ranges"`
	Group         MatchGroup `json:"group"`
}

// Scope exposes the currently opened workspace root
type Scope interface {
	Root() (paths.Path, bool)
}

// handler executes one tool
type handler func(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)

// Success helper
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure helper
func Failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}

// FailureErr reports a typed failure with its kind
func FailureErr(err error) (*types.Result, error) {
	msg := err.Error()
	return &types.Result{Success: false, Error: &msg, ErrorKind: string(fserr.KindOf(err))}, nil
}
