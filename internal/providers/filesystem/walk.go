package filesystem

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
)

// Order selects traversal order
type Order int

const (
	DepthFirst Order = iota
	BreadthFirst
)

// WalkOptions controls a traversal
type WalkOptions struct {
	// MaxDepth limits entry depth; direct children of the root have depth 1
	MaxDepth       *uint32
	FollowSymlinks bool
	// Ignore holds doublestar patterns matched against the entry name and its
	// root-relative slash path
	Ignore []string
	Order  Order
}

type walkNode struct {
	entry   FileEntry
	descend bool
}

// Walker is a lazy, single-use traversal of a directory tree. Entries of
// each directory are produced in name order; the root itself is not
// produced. A directory is read only when the caller asks for the entry
// after it, so abandoning a walk costs nothing further.
type Walker struct {
	ctx      context.Context
	root     paths.Path
	opts     WalkOptions
	resolver *paths.Resolver
	metrics  *monitoring.Metrics
	logger   *logging.Logger

	pending []walkNode
	head    int
	expand  *FileEntry
	visited map[string]struct{}

	cur   FileEntry
	err   error
	done  bool
	count int
}

// Walk starts a traversal of root. The root must be a readable directory.
func (e *Engine) Walk(ctx context.Context, root paths.Path, opts WalkOptions) (*Walker, error) {
	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fserr.Newf(fserr.InvalidPath, "walk", root.String(), "invalid ignore pattern %q", pattern)
		}
	}

	info, err := os.Stat(root.String())
	if err != nil {
		return nil, fserr.Classify("walk", root.String(), err)
	}
	if !info.IsDir() {
		return nil, fserr.Newf(fserr.InvalidPath, "walk", root.String(), "not a directory")
	}

	w := &Walker{
		ctx:      ctx,
		root:     root,
		opts:     opts,
		resolver: e.resolver,
		metrics:  e.metrics,
		logger:   e.logger,
	}

	if opts.FollowSymlinks {
		w.visited = make(map[string]struct{})
		if canonical, err := filepath.EvalSymlinks(root.String()); err == nil {
			w.visited[canonical] = struct{}{}
		}
	}

	if w.depthAllowed(1) {
		children, err := w.readChildren(root, 1)
		if err != nil {
			return nil, fserr.Classify("walk", root.String(), err)
		}
		w.push(children)
	}
	return w, nil
}

// Next advances to the next entry. It returns false at the end of the tree,
// after Close, or once the context is done.
func (w *Walker) Next() bool {
	if w.done {
		return false
	}
	if err := w.ctx.Err(); err != nil {
		w.err = err
		w.finish()
		return false
	}

	if w.expand != nil {
		dir := *w.expand
		w.expand = nil
		w.expandDir(dir)
	}

	n, ok := w.pop()
	if !ok {
		w.finish()
		return false
	}

	if n.descend && w.visited != nil {
		canonical, err := filepath.EvalSymlinks(n.entry.Path.String())
		switch {
		case err != nil:
			w.logger.Debug("cannot resolve directory", zap.String("path", n.entry.Path.String()), zap.Error(err))
			n.descend = false
		case w.seen(canonical):
			n.entry.Kind = KindCycle
			n.descend = false
		default:
			w.visited[canonical] = struct{}{}
		}
	}

	w.cur = n.entry
	if n.descend && w.depthAllowed(n.entry.Depth+1) {
		dir := n.entry
		w.expand = &dir
	}
	w.count++
	return true
}

// Entry returns the current entry
func (w *Walker) Entry() FileEntry { return w.cur }

// Err returns the error that stopped the walk, if any
func (w *Walker) Err() error { return w.err }

// Close abandons the walk
func (w *Walker) Close() {
	if !w.done {
		w.finish()
	}
	w.pending = nil
	w.expand = nil
}

// All adapts the walker to a range-over-func sequence. A terminal error is
// yielded once with a zero entry. The walker is closed when the loop ends.
func (w *Walker) All() iter.Seq2[FileEntry, error] {
	return func(yield func(FileEntry, error) bool) {
		defer w.Close()
		for w.Next() {
			if !yield(w.Entry(), nil) {
				return
			}
		}
		if err := w.Err(); err != nil {
			yield(FileEntry{}, err)
		}
	}
}

func (w *Walker) finish() {
	w.done = true
	if w.metrics != nil {
		w.metrics.RecordWalk(w.count)
	}
}

func (w *Walker) seen(canonical string) bool {
	_, ok := w.visited[canonical]
	return ok
}

func (w *Walker) depthAllowed(depth int) bool {
	return w.opts.MaxDepth == nil || uint64(depth) <= uint64(*w.opts.MaxDepth)
}

func (w *Walker) expandDir(dir FileEntry) {
	children, err := w.readChildren(dir.Path, dir.Depth+1)
	if err != nil {
		w.logger.Debug("skipping unreadable directory", zap.String("path", dir.Path.String()), zap.Error(err))
		return
	}
	w.push(children)
}

func (w *Walker) readChildren(dir paths.Path, depth int) ([]walkNode, error) {
	dirents, err := os.ReadDir(dir.String())
	if err != nil {
		return nil, err
	}

	nodes := make([]walkNode, 0, len(dirents))
	for _, d := range dirents {
		name := d.Name()
		child, err := w.resolver.Join(dir, name)
		if err != nil {
			w.logger.Debug("skipping unaddressable entry", zap.String("dir", dir.String()), zap.String("name", name))
			continue
		}

		rel, err := w.resolver.Rel(w.root, child)
		if err != nil {
			continue
		}
		if w.ignored(name, rel) {
			continue
		}

		info, err := d.Info()
		if err != nil {
			w.logger.Debug("skipping vanished entry", zap.String("path", child.String()), zap.Error(err))
			continue
		}

		node := walkNode{entry: entryFromInfo(child, info, depth)}
		switch node.entry.Kind {
		case KindDirectory:
			node.descend = true
		case KindSymlink:
			if !w.opts.FollowSymlinks {
				break
			}
			target, err := os.Stat(child.String())
			if err != nil {
				w.logger.Debug("dangling symlink", zap.String("path", child.String()), zap.Error(err))
				break
			}
			node.entry = entryFromInfo(child, target, depth)
			node.descend = target.IsDir()
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (w *Walker) ignored(name, rel string) bool {
	if len(w.opts.Ignore) == 0 {
		return false
	}
	if w.resolver.Policy() == paths.CaseInsensitive {
		name, rel = strings.ToLower(name), strings.ToLower(rel)
	}
	for _, pattern := range w.opts.Ignore {
		pattern = filepath.ToSlash(pattern)
		if w.resolver.Policy() == paths.CaseInsensitive {
			pattern = strings.ToLower(pattern)
		}
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Walker) push(nodes []walkNode) {
	if w.opts.Order == BreadthFirst {
		w.pending = append(w.pending, nodes...)
		return
	}
	// stack: last element is next, so push in reverse name order
	for i := len(nodes) - 1; i >= 0; i-- {
		w.pending = append(w.pending, nodes[i])
	}
}

func (w *Walker) pop() (walkNode, bool) {
	if w.opts.Order == BreadthFirst {
		if w.head >= len(w.pending) {
			return walkNode{}, false
		}
		n := w.pending[w.head]
		w.pending[w.head] = walkNode{}
		w.head++
		if w.head > 1024 && w.head*2 > len(w.pending) {
			w.pending = append(w.pending[:0], w.pending[w.head:]...)
			w.head = 0
		}
		return n, true
	}

	if len(w.pending) == 0 {
		return walkNode{}, false
	}
	last := len(w.pending) - 1
	n := w.pending[last]
	w.pending = w.pending[:last]
	return n, true
}
