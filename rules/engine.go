package rules

import (
	"path/filepath"
	"strings"

	"github.com/danwakefield/fnmatch"
)

// Engine is the compiled form of a RuleSet. Decisions are pure functions of
// the root-relative path; the engine never touches the filesystem after
// construction (the optional gitignore stage is parsed up front).
type Engine struct {
	include   []string // plain include patterns
	reinclude []string // !! marker stripped
	exclude   []string // ! marker stripped
	rescue    []string // include + reinclude bodies, for directory reinstatement
	ignore    ignoreMatcher
}

// NewEngine compiles rs. Marker prefixes are stripped here so matching works
// on the bare pattern bodies.
func NewEngine(rs RuleSet) *Engine {
	e := &Engine{}
	for _, p := range rs.Include {
		p = strings.ReplaceAll(p, `\`, "/")
		if strings.HasPrefix(p, "!!") {
			e.reinclude = append(e.reinclude, p[2:])
		} else {
			e.include = append(e.include, p)
		}
	}
	for _, p := range rs.Exclude {
		p = strings.ReplaceAll(p, `\`, "/")
		e.exclude = append(e.exclude, strings.TrimLeft(p, "!"))
	}
	e.rescue = append(append([]string{}, e.include...), e.reinclude...)
	return e
}

// IncludeFile decides whether the file at the root-relative path rel is
// tracked. Exclusions win over inclusions, reinclusions win over exclusions,
// and a file matching no include pattern is not tracked.
func (e *Engine) IncludeFile(rel string) bool {
	rel = filepath.ToSlash(rel)
	if e.ignored(rel, false) {
		return false
	}
	excluded := false
	for _, p := range e.exclude {
		if matchPattern(rel, p) {
			excluded = true
			break
		}
	}
	if excluded {
		for _, p := range e.reinclude {
			if matchPattern(rel, p) {
				return true
			}
		}
		return false
	}
	for _, p := range e.include {
		if matchPattern(rel, p) {
			return true
		}
	}
	return false
}

// IncludeDir decides whether the directory at the root-relative path rel is
// tracked. Directories default to included: an exclude pattern must match
// the path (for unanchored patterns, any of its leading prefixes), and no
// include pattern may reinstate it. Directories are never pruned
// speculatively; files beneath an excluded directory are still evaluated on
// their own.
func (e *Engine) IncludeDir(rel string) bool {
	rel = filepath.ToSlash(rel)
	if rel == "" || rel == "." {
		return true
	}
	if e.ignored(rel, true) {
		return false
	}
	for _, p := range e.exclude {
		if anchored, body := splitAnchor(p); anchored {
			if fnmatch.Match(strings.TrimRight(body, "/*"), rel, 0) {
				return e.reinstated(rel)
			}
			continue
		}
		base := strings.TrimRight(p, "/*")
		prefix := ""
		for _, part := range strings.Split(rel, "/") {
			if prefix != "" {
				prefix += "/"
			}
			prefix += part
			if fnmatch.Match(base, prefix, 0) {
				return e.reinstated(rel)
			}
		}
	}
	return true
}

// reinstated reports whether an include or reinclude pattern names the
// excluded directory, either directly or through its directory/* form.
func (e *Engine) reinstated(rel string) bool {
	for _, p := range e.rescue {
		body := strings.TrimPrefix(p, "/")
		if fnmatch.Match(strings.TrimRight(body, "/*"), rel, 0) {
			return true
		}
		if fnmatch.Match(body, rel+"/*", 0) {
			return true
		}
	}
	return false
}

func (e *Engine) ignored(rel string, isDir bool) bool {
	if e.ignore == nil {
		return false
	}
	if match := e.ignore.Relative(rel, isDir); match != nil {
		return match.Ignore()
	}
	return false
}

// matchPattern applies one pattern body to a relative path. Anchored patterns
// (leading /) are tried against the whole path once; unanchored patterns are
// tried against every path-segment suffix so they match at any depth.
func matchPattern(rel, pattern string) bool {
	if anchored, body := splitAnchor(pattern); anchored {
		return fnmatch.Match(body, rel, 0)
	}
	parts := strings.Split(rel, "/")
	for i := range parts {
		if fnmatch.Match(pattern, strings.Join(parts[i:], "/"), 0) {
			return true
		}
	}
	return false
}

func splitAnchor(pattern string) (bool, string) {
	if strings.HasPrefix(pattern, "/") {
		return true, strings.TrimPrefix(pattern, "/")
	}
	return false, pattern
}
