package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tgo/finsight/internal/model"
)

const (
	DefaultSearchTopK = 5
	MaxSearchTopK     = 50
)

// SearchService runs semantic similarity queries over indexed chunks.
type SearchService struct {
	store    SearchStore
	embedder Embedder

	defaultTopK int
	maxTopK     int
}

func NewSearchService(store SearchStore, embedder Embedder, defaultTopK, maxTopK int) *SearchService {
	if defaultTopK <= 0 {
		defaultTopK = DefaultSearchTopK
	}
	if maxTopK <= 0 {
		maxTopK = MaxSearchTopK
	}
	return &SearchService{
		store:       store,
		embedder:    embedder,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
	}
}

type SearchRequest struct {
	Query        string             `json:"query"`
	DocumentType model.DocumentType `json:"document_type,omitempty"`
	TopK         int                `json:"top_k,omitempty"`
}

type SearchResult struct {
	ChunkID      uuid.UUID          `json:"chunk_id"`
	DocumentID   uuid.UUID          `json:"document_id"`
	ChunkText    string             `json:"chunk_text"`
	ChunkIndex   int                `json:"chunk_index"`
	PageNumber   *int               `json:"page_number,omitempty"`
	FileName     string             `json:"file_name"`
	DocumentType model.DocumentType `json:"document_type"`
	Score        float64            `json:"score"`
	Metadata     model.JSONMap      `json:"metadata,omitempty"`
}

// Search embeds the query and ranks chunks by cosine similarity
// (1 - cosine distance), highest first. An index with no chunks returns
// an empty result set, not an error.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("search query is empty")
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}
	if topK > s.maxTopK {
		topK = s.maxTopK
	}

	queryEmbedding, err := s.embedder.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.store.SearchByEmbedding(ctx, queryEmbedding, req.DocumentType, topK)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchResult{
			ChunkID:      m.ID,
			DocumentID:   m.DocumentID,
			ChunkText:    m.ChunkText,
			ChunkIndex:   m.ChunkIndex,
			PageNumber:   m.PageNumber,
			FileName:     m.FileName,
			DocumentType: m.DocumentType,
			Score:        1 - m.Distance,
			Metadata:     m.Metadata,
		})
	}

	return results, nil
}
