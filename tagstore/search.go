package tagstore

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// buildTagIndexMapping creates the index mapping for tag search: name and
// description as analyzed text fields.
func buildTagIndexMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeInAll = true
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Store = false
	descFieldMapping.IncludeInAll = true
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// tagDocument is the document structure stored in the search index.
type tagDocument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Store) indexTag(id string, tag *Tag) error {
	return s.index.Index(id, tagDocument{Name: tag.Name, Description: tag.Description})
}

// Search runs a full-text query over tag names and descriptions and returns
// matching ids, best first.
// Query format:
//   - Plain text: match query (word-level matching)
//   - "quoted text": phrase query (exact phrase match)
func (s *Store) Search(queryString string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchRequest := bleve.NewSearchRequest(buildTagQuery(queryString))
	searchRequest.Size = 50

	searchResults, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("searching tags: %w", err)
	}
	ids := make([]string, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func buildTagQuery(queryString string) query.Query {
	queryString = strings.TrimSpace(queryString)
	if strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"") && len(queryString) > 2 {
		return bleve.NewMatchPhraseQuery(queryString[1 : len(queryString)-1])
	}
	return bleve.NewMatchQuery(queryString)
}
