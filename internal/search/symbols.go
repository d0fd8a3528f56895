package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/JavierFrauca/mcp-code-manager/internal/index"
)

// SymbolHit is one ranked result from a free-text symbol query.
type SymbolHit struct {
	Name      string  `json:"name"`
	Element   string  `json:"element"`
	Namespace string  `json:"namespace,omitempty"`
	File      string  `json:"file"`
	Line      int     `json:"line"`
	Summary   string  `json:"summary,omitempty"`
	Score     float64 `json:"score"`
}

// SymbolSearcher answers ranked free-text queries over the
// declarations of one SolutionIndex. The backing bleve index lives in
// memory and is discarded with the searcher.
type SymbolSearcher struct {
	index bleve.Index
}

// NewSymbolSearcher indexes every declaration of idx.
func NewSymbolSearcher(ctx context.Context, idx *index.SolutionIndex) (*SymbolSearcher, error) {
	bleveIndex, err := bleve.NewMemOnly(buildSymbolMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create symbol index: %w", err)
	}

	batch := bleveIndex.NewBatch()
	for i, d := range idx.Declarations() {
		if i%256 == 0 {
			select {
			case <-ctx.Done():
				bleveIndex.Close()
				return nil, ctx.Err()
			default:
			}
		}

		id := fmt.Sprintf("%s#%s#%d", d.File, d.Name, d.Span.StartLine)
		doc := map[string]interface{}{
			"name":      d.Name,
			"element":   string(d.Element),
			"namespace": d.Namespace,
			"file_path": d.File,
			"line":      float64(d.Span.StartLine),
			"summary":   d.Summary,
		}
		if err := batch.Index(id, doc); err != nil {
			bleveIndex.Close()
			return nil, fmt.Errorf("failed to index symbol %s: %w", id, err)
		}
	}
	if batch.Size() > 0 {
		if err := bleveIndex.Batch(batch); err != nil {
			bleveIndex.Close()
			return nil, fmt.Errorf("failed to execute symbol batch: %w", err)
		}
	}

	return &SymbolSearcher{index: bleveIndex}, nil
}

// buildSymbolMapping creates the index mapping for declaration
// documents. Name and summary take the standard analyzer for partial
// and multi-word matching; element and namespace are keyword fields
// for exact filtering.
func buildSymbolMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	nameMapping := bleve.NewTextFieldMapping()
	nameMapping.Analyzer = "standard"
	nameMapping.Store = true

	summaryMapping := bleve.NewTextFieldMapping()
	summaryMapping.Analyzer = "standard"
	summaryMapping.Store = true

	elementMapping := bleve.NewTextFieldMapping()
	elementMapping.Analyzer = "keyword"
	elementMapping.Store = true

	namespaceMapping := bleve.NewTextFieldMapping()
	namespaceMapping.Analyzer = "keyword"
	namespaceMapping.Store = true

	pathMapping := bleve.NewTextFieldMapping()
	pathMapping.Analyzer = "standard"
	pathMapping.Store = true

	lineMapping := bleve.NewNumericFieldMapping()
	lineMapping.Store = true
	lineMapping.Index = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("name", nameMapping)
	docMapping.AddFieldMappingsAt("summary", summaryMapping)
	docMapping.AddFieldMappingsAt("element", elementMapping)
	docMapping.AddFieldMappingsAt("namespace", namespaceMapping)
	docMapping.AddFieldMappingsAt("file_path", pathMapping)
	docMapping.AddFieldMappingsAt("line", lineMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Search runs a query using bleve query-string syntax against the
// indexed declarations.
func (s *SymbolSearcher) Search(ctx context.Context, queryStr string, limit int) ([]*SymbolHit, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := bleve.NewQueryStringQuery(queryStr)
	request := bleve.NewSearchRequestOptions(query, limit, 0, false)
	request.Fields = []string{"name", "element", "namespace", "file_path", "line", "summary"}

	result, err := s.index.SearchInContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("symbol search failed: %w", err)
	}

	hits := make([]*SymbolHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		name, _ := hit.Fields["name"].(string)
		element, _ := hit.Fields["element"].(string)
		namespace, _ := hit.Fields["namespace"].(string)
		filePath, _ := hit.Fields["file_path"].(string)
		summary, _ := hit.Fields["summary"].(string)
		line, _ := hit.Fields["line"].(float64)

		hits = append(hits, &SymbolHit{
			Name:      name,
			Element:   element,
			Namespace: namespace,
			File:      filePath,
			Line:      int(line),
			Summary:   strings.TrimSpace(summary),
			Score:     hit.Score,
		})
	}
	return hits, nil
}

// Close releases the in-memory index.
func (s *SymbolSearcher) Close() error {
	if s.index != nil {
		return s.index.Close()
	}
	return nil
}
