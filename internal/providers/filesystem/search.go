package filesystem

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

// maxRangesPerFile caps reported occurrences in one file
const maxRangesPerFile = 100

// Search walks q.Root breadth-first and returns at most MaxResults matches.
//
// An entry matches by name (exact, then substring or glob) or by content.
// An entry matching both is filed under its name group with its content
// ranges attached. Directories only match by name. Files that are too large,
// binary or undecodable are skipped for content matching.
//
// Results are ordered by group, then depth, then path. The walk stops as
// soon as MaxResults matches are held, so a deeper better-grouped match may
// be missed in favour of a shallower one.
func (e *Engine) Search(ctx context.Context, q SearchQuery) ([]SearchMatch, error) {
	namePattern := deref(q.NamePattern)
	contentPattern := deref(q.ContentPattern)
	if namePattern == "" && contentPattern == "" {
		return nil, fserr.New(fserr.EmptyQuery, "search", q.Root.String(), nil)
	}

	limit := q.MaxResults
	if limit == 0 {
		limit = e.defaults.MaxResults
	}
	ignore := q.Ignore
	if ignore == nil {
		ignore = e.defaults.Ignore
	}

	var content *regexp.Regexp
	if contentPattern != "" {
		expr := regexp.QuoteMeta(contentPattern)
		if !q.CaseSensitive {
			expr = "(?i)" + expr
		}
		content = regexp.MustCompile(expr)
	}
	names := newNameMatcher(namePattern, q.CaseSensitive)

	walker, err := e.Walk(ctx, q.Root, WalkOptions{
		MaxDepth:       q.MaxDepth,
		FollowSymlinks: q.FollowSymlinks,
		Ignore:         ignore,
		Order:          BreadthFirst,
	})
	if err != nil {
		return nil, err
	}
	defer walker.Close()

	matches := make([]SearchMatch, 0)
	for uint32(len(matches)) < limit && walker.Next() {
		entry := walker.Entry()
		if entry.Kind == KindCycle {
			continue
		}

		group, nameHit := names.match(entry.Name, e.relPath(q.Root, entry.Path))

		ranges := []Range{}
		if content != nil && entry.Kind == KindFile {
			ranges = e.scan(entry.Path, content)
		}

		switch {
		case nameHit:
			matches = append(matches, SearchMatch{Entry: entry, MatchedRanges: ranges, Group: group})
		case len(ranges) > 0:
			matches = append(matches, SearchMatch{Entry: entry, MatchedRanges: ranges, Group: GroupContent})
		}
	}
	if err := walker.Err(); err != nil {
		return nil, err
	}

	e.sortMatches(matches)
	if e.metrics != nil {
		e.metrics.RecordSearch(len(matches))
	}
	return matches, nil
}

func (e *Engine) relPath(root, p paths.Path) string {
	rel, err := e.resolver.Rel(root, p)
	if err != nil {
		return p.Base()
	}
	return rel
}

func (e *Engine) scan(p paths.Path, re *regexp.Regexp) []Range {
	text, ok, err := e.decoder.ReadFile(p.String())
	if err != nil {
		e.logger.Debug("skipping unreadable file", zap.String("path", p.String()), zap.Error(err))
		return []Range{}
	}
	if !ok {
		return []Range{}
	}

	spans := re.FindAllStringIndex(text, maxRangesPerFile)
	ranges := make([]Range, 0, len(spans))
	for _, span := range spans {
		ranges = append(ranges, Range{Start: span[0], End: span[1]})
	}
	return ranges
}

func (e *Engine) sortMatches(matches []SearchMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		if a.Entry.Depth != b.Entry.Depth {
			return a.Entry.Depth < b.Entry.Depth
		}
		ka, kb := e.resolver.Key(a.Entry.Path), e.resolver.Key(b.Entry.Path)
		if ka != kb {
			return ka < kb
		}
		return a.Entry.Path.String() < b.Entry.Path.String()
	})
}

type nameMatcher struct {
	pattern       string
	glob          bool
	caseSensitive bool
	fold          cases.Caser
}

func newNameMatcher(pattern string, caseSensitive bool) *nameMatcher {
	m := &nameMatcher{caseSensitive: caseSensitive}
	if pattern == "" {
		return m
	}
	if !caseSensitive {
		m.fold = cases.Fold()
		pattern = m.fold.String(pattern)
	}
	m.pattern = pattern
	m.glob = strings.ContainsAny(pattern, "*?[{") && doublestar.ValidatePattern(pattern)
	return m
}

func (m *nameMatcher) match(name, rel string) (MatchGroup, bool) {
	if m.pattern == "" {
		return 0, false
	}
	if !m.caseSensitive {
		name = m.fold.String(name)
		rel = m.fold.String(rel)
	}

	if name == m.pattern {
		return GroupExact, true
	}
	if m.glob {
		target := name
		if strings.Contains(m.pattern, "/") {
			target = rel
		}
		if ok, _ := doublestar.Match(m.pattern, target); ok {
			return GroupSubstring, true
		}
		return 0, false
	}
	if strings.Contains(name, m.pattern) {
		return GroupSubstring, true
	}
	return 0, false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SearchOps handles search queries
type SearchOps struct {
	*FilesystemOps
}

// GetTools returns search tool definitions
func (s *SearchOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.search_files",
			Name:        "Search Files",
			Description: "Find files by name and/or content under a root, best matches first",
			Parameters: []types.Parameter{
				{Name: "root", Type: "string", Description: "Root directory (defaults to the open workspace)", Required: false},
				{Name: "name_pattern", Type: "string", Description: "Name substring or glob", Required: false},
				{Name: "content_pattern", Type: "string", Description: "Literal text to find in files", Required: false},
				{Name: "case_sensitive", Type: "boolean", Description: "Match case exactly", Required: false},
				{Name: "max_results", Type: "number", Description: "Result cap (default 200)", Required: false},
				{Name: "ignore", Type: "array", Description: "Glob patterns to prune", Required: false},
				{Name: "follow_symlinks", Type: "boolean", Description: "Descend into symlinked directories", Required: false},
				{Name: "max_depth", Type: "number", Description: "Maximum depth", Required: false},
			},
			Returns: "array",
		},
	}
}

// Search runs a search query
func (s *SearchOps) Search(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	raw, _ := GetString(params, "root")
	root, err := ScopedRoot(s.Resolver, s.Scope, raw)
	if err != nil {
		return FailureErr(err)
	}

	maxResults, err := optionalUint32(params, "max_results")
	if err != nil {
		return Failure(err.Error())
	}
	maxDepth, err := optionalUint32(params, "max_depth")
	if err != nil {
		return Failure(err.Error())
	}

	query := SearchQuery{
		Root:           root,
		NamePattern:    optionalString(params, "name_pattern"),
		ContentPattern: optionalString(params, "content_pattern"),
		CaseSensitive:  GetBool(params, "case_sensitive", false),
		FollowSymlinks: GetBool(params, "follow_symlinks", false),
		MaxDepth:       maxDepth,
	}
	if maxResults != nil {
		query.MaxResults = *maxResults
	}
	if ignore, ok := GetStringSlice(params, "ignore"); ok {
		query.Ignore = ignore
	}

	matches, err := s.Engine.Search(ctx, query)
	if err != nil {
		return FailureErr(err)
	}

	return Success(map[string]interface{}{
		"root":    root,
		"matches": matches,
		"count":   len(matches),
	})
}
