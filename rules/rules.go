// Package rules implements the include/exclude/reinclude pattern language
// that decides which paths belong to the inventory.
//
// Pattern forms:
//   - *.py, docs/*   include
//   - !tmp/*         exclude
//   - !!tmp/keep/*   reinclude, overriding an exclusion
//   - /src/*.py      anchored to the root
//   - py or .py      bare extension, normalized to *.py
//   - docs/          trailing separator, normalized to docs/*
//
// Matching follows fnmatch semantics: * and ? also cross path separators, so
// tmp/* excludes everything below tmp at any depth. Unanchored patterns are
// tried against every path-segment suffix of the candidate path.
package rules

import "strings"

// RuleSet holds the stored form of the configured patterns: include entries
// (reinclude entries embedded with their !! marker) and exclude entries (each
// carrying its ! marker). This is also the form persisted in the snapshot.
type RuleSet struct {
	Include []string
	Exclude []string
}

// Default is the rule set used when no patterns are configured: every file
// under the root is tracked.
func Default() RuleSet {
	return RuleSet{Include: []string{"*"}}
}

// IncludeIsDefault reports whether the include list is the catch-all default.
func (rs RuleSet) IncludeIsDefault() bool {
	return len(rs.Include) == 0 || (len(rs.Include) == 1 && rs.Include[0] == "*")
}

// Tokens returns the user-facing pattern list, includes before excludes,
// markers intact.
func (rs RuleSet) Tokens() []string {
	out := make([]string, 0, len(rs.Include)+len(rs.Exclude))
	out = append(out, rs.Include...)
	out = append(out, rs.Exclude...)
	return out
}

// Clone returns a copy sharing no slices with rs.
func (rs RuleSet) Clone() RuleSet {
	return RuleSet{
		Include: append([]string(nil), rs.Include...),
		Exclude: append([]string(nil), rs.Exclude...),
	}
}

// Normalize rewrites one pattern token into its stored form. A bare extension
// token (no separator, wildcard, or marker) becomes an any-depth *.ext
// pattern; a token ending in a path separator gains a trailing *. Other
// tokens pass through with separators normalized to forward slashes.
func Normalize(token string) string {
	token = strings.TrimSpace(strings.ReplaceAll(token, `\`, "/"))
	if token == "" {
		return token
	}
	if !strings.ContainsAny(token, "/*?[!") {
		return "*." + strings.TrimLeft(token, ".")
	}
	if strings.HasSuffix(token, "/") {
		return token + "*"
	}
	return token
}

// Parse classifies and normalizes raw pattern tokens into a RuleSet. When no
// include pattern survives, the catch-all default is used so exclude-only
// configurations still track everything else.
func Parse(tokens []string) RuleSet {
	var rs RuleSet
	for _, tok := range tokens {
		tok = Normalize(tok)
		if tok == "" {
			continue
		}
		if isExclude(tok) {
			rs.Exclude = append(rs.Exclude, tok)
		} else {
			rs.Include = append(rs.Include, tok)
		}
	}
	if len(rs.Include) == 0 {
		rs.Include = []string{"*"}
	}
	return rs
}

// Add normalizes token and appends it to the matching list. It returns the
// stored form and reports false when that pattern is already present.
func (rs *RuleSet) Add(token string) (string, bool) {
	tok := Normalize(token)
	if tok == "" {
		return "", false
	}
	if isExclude(tok) {
		if containsString(rs.Exclude, tok) {
			return tok, false
		}
		rs.Exclude = append(rs.Exclude, tok)
		return tok, true
	}
	if containsString(rs.Include, tok) {
		return tok, false
	}
	rs.Include = append(rs.Include, tok)
	return tok, true
}

// Remove deletes the pattern named by token and returns the stored form it
// removed. For an include extension pattern the *.ext, .ext and ext
// spellings are all tried.
func (rs *RuleSet) Remove(token string) (string, bool) {
	tok := Normalize(token)
	if tok == "" {
		return "", false
	}
	if isExclude(tok) {
		if removeString(&rs.Exclude, tok) {
			return tok, true
		}
		return "", false
	}
	candidates := []string{tok}
	if strings.HasPrefix(tok, "*.") {
		ext := strings.TrimPrefix(tok, "*.")
		candidates = append(candidates, "."+ext, ext)
	}
	for _, c := range candidates {
		if removeString(&rs.Include, c) {
			return c, true
		}
	}
	return "", false
}

func isExclude(tok string) bool {
	return strings.HasPrefix(tok, "!") && !strings.HasPrefix(tok, "!!")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list *[]string, s string) bool {
	for i, v := range *list {
		if v == s {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}
