// Package tagstore manages hierarchical tags and their file associations,
// persisted as JSON alongside the inventory snapshot and searchable through
// an in-memory full-text index.
package tagstore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/mzalewski/filetag/storage"
)

var (
	// ErrTagNotFound reports an operation against an id with no tag behind it.
	ErrTagNotFound = errors.New("tag not found")
	// ErrTagCycle reports a parent loop discovered while walking descendants.
	ErrTagCycle = errors.New("tag hierarchy contains a cycle")
)

// Tag is one named label. Parent holds the id of the parent tag, or empty
// for a root tag.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parent      string `json:"parent,omitempty"`
}

type record struct {
	Tags     map[string]*Tag     `json:"tags"`
	FileTags map[string][]string `json:"file_tags"`
}

// Store holds the tag hierarchy and file associations for one config dir.
// All exported methods are safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	path   string
	tags   map[string]*Tag
	files  map[string][]string
	index  bleve.Index
	logger *slog.Logger
}

// Open loads the tag store at path, creating an empty one when the file does
// not exist, and rebuilds the search index from the loaded tags.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		path:   path,
		tags:   make(map[string]*Tag),
		files:  make(map[string][]string),
		logger: logger,
	}

	var rec record
	found, err := storage.ReadJSON(path, &rec)
	if err != nil {
		return nil, fmt.Errorf("loading tag store: %w", err)
	}
	if found {
		if rec.Tags != nil {
			s.tags = rec.Tags
		}
		if rec.FileTags != nil {
			s.files = rec.FileTags
		}
	}

	index, err := bleve.NewMemOnly(buildTagIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}
	s.index = index
	for id, tag := range s.tags {
		if err := s.indexTag(id, tag); err != nil {
			logger.Warn("indexing tag failed", "id", id, "error", err)
		}
	}
	return s, nil
}

// Close releases the search index.
func (s *Store) Close() error {
	return s.index.Close()
}

// CreateTag registers a new tag and returns its id. The id derives from the
// lowercased name with spaces turned into hyphens; a taken id gets a numeric
// suffix. A non-empty parent must name an existing tag.
func (s *Store) CreateTag(name, description, parent string) (string, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return "", errors.New("tag name is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if parent != "" {
		if _, ok := s.tags[parent]; !ok {
			return "", fmt.Errorf("parent %s: %w", parent, ErrTagNotFound)
		}
	}

	base := tagID(name)
	id := base
	for i := 1; ; i++ {
		if _, taken := s.tags[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}

	s.tags[id] = &Tag{Name: name, Description: description, Parent: parent}
	if err := s.persistLocked(); err != nil {
		delete(s.tags, id)
		return "", err
	}
	if err := s.indexTag(id, s.tags[id]); err != nil {
		s.logger.Warn("indexing tag failed", "id", id, "error", err)
	}
	return id, nil
}

func tagID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// RemoveTag deletes id and every descendant, then detaches the removed ids
// from all file associations. The descendant walk runs before any mutation
// and refuses to proceed when it re-encounters an id, which in a
// single-parent hierarchy means a parent loop.
func (s *Store) RemoveTag(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[id]; !ok {
		return fmt.Errorf("tag %s: %w", id, ErrTagNotFound)
	}

	doomed := make(map[string]bool)
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if doomed[cur] {
			return fmt.Errorf("removing %s: %w", id, ErrTagCycle)
		}
		doomed[cur] = true
		for childID, tag := range s.tags {
			if tag.Parent == cur {
				queue = append(queue, childID)
			}
		}
	}

	for tid := range doomed {
		delete(s.tags, tid)
	}
	for path, ids := range s.files {
		var kept []string
		for _, tid := range ids {
			if !doomed[tid] {
				kept = append(kept, tid)
			}
		}
		if len(kept) == len(ids) {
			continue
		}
		if len(kept) == 0 {
			delete(s.files, path)
		} else {
			s.files[path] = kept
		}
	}
	if err := s.persistLocked(); err != nil {
		return err
	}

	for tid := range doomed {
		if err := s.index.Delete(tid); err != nil {
			s.logger.Warn("removing tag from search index failed", "id", tid, "error", err)
		}
	}
	return nil
}

// GetTag returns a copy of the tag for id, or nil when unknown.
func (s *Store) GetTag(id string) *Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tag, ok := s.tags[id]
	if !ok {
		return nil
	}
	out := *tag
	return &out
}

// AllTags returns a copy of the tag table keyed by id.
func (s *Store) AllTags() map[string]Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Tag, len(s.tags))
	for id, tag := range s.tags {
		out[id] = *tag
	}
	return out
}

// AddTagToFile associates id with path. Paths are cleaned, not resolved;
// callers decide whether keys are absolute.
func (s *Store) AddTagToFile(path, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[id]; !ok {
		return fmt.Errorf("tag %s: %w", id, ErrTagNotFound)
	}
	key := filepath.Clean(path)
	for _, existing := range s.files[key] {
		if existing == id {
			return nil
		}
	}
	s.files[key] = append(s.files[key], id)
	return s.persistLocked()
}

// RemoveTagFromFile drops the association between path and id. Unknown paths
// and absent associations are a no-op.
func (s *Store) RemoveTagFromFile(path, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := filepath.Clean(path)
	ids := s.files[key]
	for i, existing := range ids {
		if existing == id {
			ids = append(ids[:i], ids[i+1:]...)
			if len(ids) == 0 {
				delete(s.files, key)
			} else {
				s.files[key] = ids
			}
			return s.persistLocked()
		}
	}
	return nil
}

// FileTags returns the sorted tag ids associated with path.
func (s *Store) FileTags(path string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.files[filepath.Clean(path)]
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

// FindFilesByTags returns the sorted paths carrying the given tags. With
// matchAll every id must be present; otherwise any one suffices. Empty ids
// yield an empty result; an unknown id is an error.
func (s *Store) FindFilesByTags(ids []string, matchAll bool) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(ids) == 0 {
		return nil, nil
	}
	for _, id := range ids {
		if _, ok := s.tags[id]; !ok {
			return nil, fmt.Errorf("tag %s: %w", id, ErrTagNotFound)
		}
	}

	var out []string
	for path, fileIDs := range s.files {
		has := make(map[string]bool, len(fileIDs))
		for _, tid := range fileIDs {
			has[tid] = true
		}
		if matchAll {
			all := true
			for _, id := range ids {
				if !has[id] {
					all = false
					break
				}
			}
			if all {
				out = append(out, path)
			}
			continue
		}
		for _, id := range ids {
			if has[id] {
				out = append(out, path)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) persistLocked() error {
	rec := record{Tags: s.tags, FileTags: s.files}
	if err := storage.WriteJSON(s.path, rec); err != nil {
		return fmt.Errorf("saving tag store: %w", err)
	}
	return nil
}
