package actor

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Path is an immutable, hierarchical actor name such as "/user/a/b". The
// zero value is the root path "/", which has no segments.
//
// A Path is not comparable with ==: it carries a slice internally. Use Equal
// to compare two paths.
type Path struct {
	segments []string
}

// rootPath is the path with zero segments, i.e. "/".
var rootPath = Path{}

// userRootPath is the path of a System's synthetic root actor, "/user". Every
// top-level actor a caller spawns lives directly beneath it, matching the
// "/user/<name>/..." address format; "system" and "deadLetter" are reserved
// sibling roots that this module does not implement.
var userRootPath = Path{segments: []string{"user"}}

// PathOf parses an absolute path string of the form "/seg/seg/...". It
// rejects empty segments (e.g. "/a//b") except for the bare root "/" itself.
func PathOf(s string) (Path, error) {
	if s == "" || s[0] != '/' {
		return Path{}, fmt.Errorf("actor: path %q is not absolute", s)
	}

	if s == "/" {
		return rootPath, nil
	}

	parts := strings.Split(s[1:], "/")
	for _, p := range parts {
		if p == "" {
			return Path{}, fmt.Errorf(
				"actor: path %q contains an empty segment", s,
			)
		}
	}

	segs := make([]string, len(parts))
	copy(segs, parts)

	return Path{segments: segs}, nil
}

// Segments returns a copy of the path's segments, in order from the root.
// The root path returns an empty (non-nil) slice.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// LastSegment returns the final segment of the path, i.e. the actor's short
// name. It panics if called on the root path, which has no segments; callers
// that might hold a root path should check Segments() first. This is a
// programming-precondition violation per the design's error taxonomy, never
// expected at runtime for a cell's own path.
func (p Path) LastSegment() string {
	if len(p.segments) == 0 {
		panic("actor: LastSegment called on the root path")
	}
	return p.segments[len(p.segments)-1]
}

// Append returns a new Path with segment appended as the final component.
func (p Path) Append(segment string) Path {
	segs := make([]string, len(p.segments)+1)
	copy(segs, p.segments)
	segs[len(p.segments)] = segment

	return Path{segments: segs}
}

// Equal reports whether two paths denote the same segment sequence.
func (p Path) Equal(o Path) bool {
	if len(p.segments) != len(o.segments) {
		return false
	}
	for i, s := range p.segments {
		if s != o.segments[i] {
			return false
		}
	}
	return true
}

// Hash returns an order- and content-sensitive hash of the path, suitable for
// use as a map key surrogate or in hash-based sets of paths.
func (p Path) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(p.String()))
	return h.Sum64()
}

// String renders the path in its canonical absolute form, e.g. "/user/a/b".
// The root path renders as "/". PathOf(s).String() == s for any s that
// parses successfully.
func (p Path) String() string {
	if len(p.segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.segments, "/")
}
