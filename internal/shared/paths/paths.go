package paths

import (
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/text/cases"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
)

// CasePolicy controls path equality
type CasePolicy int

const (
	CaseSensitive CasePolicy = iota
	CaseInsensitive
)

// String returns the policy name
func (c CasePolicy) String() string {
	if c == CaseInsensitive {
		return "insensitive"
	}
	return "sensitive"
}

// Path is an immutable, lexically normalized filesystem path
type Path struct {
	raw string
}

// String returns the platform form of the path
func (p Path) String() string { return p.raw }

// MarshalText encodes the path as its platform form
func (p Path) MarshalText() ([]byte, error) { return []byte(p.raw), nil }

// IsZero reports whether p was never set
func (p Path) IsZero() bool { return p.raw == "" }

// IsAbs reports whether the path is absolute
func (p Path) IsAbs() bool { return filepath.IsAbs(p.raw) }

// Base returns the last segment
func (p Path) Base() string { return filepath.Base(p.raw) }

// Dir returns the parent path
func (p Path) Dir() Path { return Path{raw: filepath.Dir(p.raw)} }

// Ext returns the file name extension
func (p Path) Ext() string { return filepath.Ext(p.raw) }

// Segments splits the path into its components, without the volume or root
func (p Path) Segments() []string {
	rest := strings.TrimPrefix(p.raw, filepath.VolumeName(p.raw))
	rest = strings.Trim(rest, string(filepath.Separator))
	if rest == "" || rest == "." {
		return nil
	}
	return strings.Split(rest, string(filepath.Separator))
}

// Context is process-wide immutable state captured at startup
type Context struct {
	Home string
}

// Resolver normalizes and compares paths under a case policy
type Resolver struct {
	home   string
	policy CasePolicy
	goos   string
}

// NewResolver creates a resolver bound to the startup context
func NewResolver(ctx Context, policy CasePolicy) *Resolver {
	home := ctx.Home
	if home != "" {
		home = filepath.Clean(home)
	}
	return &Resolver{
		home:   home,
		policy: policy,
		goos:   runtime.GOOS,
	}
}

// Policy returns the configured case policy
func (r *Resolver) Policy() CasePolicy { return r.policy }

// Home returns the home directory captured at startup
func (r *Resolver) Home() Path { return Path{raw: r.home} }

// Normalize converts raw user input into a Path
func (r *Resolver) Normalize(raw string) (Path, error) {
	if strings.TrimSpace(raw) == "" {
		return Path{}, fserr.Newf(fserr.InvalidPath, "normalize", raw, "path is empty")
	}

	expanded, err := r.expandHome(raw)
	if err != nil {
		return Path{}, err
	}

	if err := r.validate(expanded); err != nil {
		return Path{}, err
	}

	return Path{raw: filepath.Clean(filepath.FromSlash(expanded))}, nil
}

// MustNormalize is Normalize for trusted literals; it panics on invalid input
func (r *Resolver) MustNormalize(raw string) Path {
	p, err := r.Normalize(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Join appends segments to base lexically. Empty segments are skipped.
func (r *Resolver) Join(base Path, segments ...string) (Path, error) {
	parts := make([]string, 0, len(segments)+1)
	if !base.IsZero() {
		parts = append(parts, base.raw)
	}
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if err := r.validate(seg); err != nil {
			return Path{}, err
		}
		parts = append(parts, filepath.FromSlash(seg))
	}

	if len(parts) == 0 {
		return Path{}, fserr.Newf(fserr.InvalidPath, "join", "", "nothing to join")
	}

	joined := filepath.Join(parts...)
	if joined == "" {
		return Path{}, fserr.Newf(fserr.InvalidPath, "join", "", "join produced an empty path")
	}
	return Path{raw: joined}, nil
}

// JoinRaw normalizes base and joins segments onto it
func (r *Resolver) JoinRaw(base string, segments ...string) (Path, error) {
	p, err := r.Normalize(base)
	if err != nil {
		return Path{}, err
	}
	return r.Join(p, segments...)
}

// Key returns the canonical comparison key of p under the case policy
func (r *Resolver) Key(p Path) string {
	if r.policy == CaseInsensitive {
		// Casers carry state, so each call builds its own
		return cases.Fold().String(p.raw)
	}
	return p.raw
}

// Equal compares two paths under the case policy
func (r *Resolver) Equal(a, b Path) bool {
	return r.Key(a) == r.Key(b)
}

// Within reports whether p is root or lies lexically below it
func (r *Resolver) Within(root, p Path) bool {
	rel, err := filepath.Rel(r.Key(root), r.Key(p))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Rel returns p relative to root in slash form
func (r *Resolver) Rel(root, p Path) (string, error) {
	rel, err := filepath.Rel(root.raw, p.raw)
	if err != nil {
		return "", fserr.New(fserr.InvalidPath, "rel", p.raw, err)
	}
	return filepath.ToSlash(rel), nil
}

// Depth counts the segments of p below root; root itself has depth 0
func (r *Resolver) Depth(root, p Path) int {
	rel, err := filepath.Rel(root.raw, p.raw)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// ValidName checks that name is usable as a single path segment
func (r *Resolver) ValidName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fserr.Newf(fserr.InvalidPath, "validate", name, "invalid name %q", name)
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return fserr.Newf(fserr.InvalidPath, "validate", name, "name must not contain a separator")
	}
	return r.validate(name)
}

func (r *Resolver) expandHome(raw string) (string, error) {
	if raw != "~" && !strings.HasPrefix(raw, "~/") && !strings.HasPrefix(raw, "~"+string(filepath.Separator)) {
		return raw, nil
	}
	if r.home == "" {
		return "", fserr.Newf(fserr.InvalidPath, "normalize", raw, "home directory is not known")
	}
	return r.home + raw[1:], nil
}

// validate rejects characters that are illegal on the host platform
func (r *Resolver) validate(raw string) error {
	if strings.ContainsRune(raw, 0) {
		return fserr.Newf(fserr.InvalidPath, "validate", raw, "path contains NUL")
	}
	if r.goos != "windows" {
		return nil
	}

	rest := strings.TrimPrefix(raw, filepath.VolumeName(raw))
	for _, c := range rest {
		if c < 32 || strings.ContainsRune(`<>:"|?*`, c) {
			return fserr.Newf(fserr.InvalidPath, "validate", raw, "path contains illegal character %q", c)
		}
	}
	return nil
}

// AppDataDir returns the per-user application data directory for app,
// derived from the home directory rather than the process environment.
func (r *Resolver) AppDataDir(app string) Path {
	var dir string
	switch r.goos {
	case "darwin":
		dir = filepath.Join(r.home, "Library", "Application Support", app)
	case "windows":
		dir = filepath.Join(r.home, "AppData", "Roaming", app)
	default:
		dir = filepath.Join(r.home, ".config", app)
	}
	return Path{raw: dir}
}
