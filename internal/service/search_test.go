package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/tgo/finsight/internal/model"
	"github.com/tgo/finsight/internal/repository"
)

func TestSearchEmptyQueryRejected(t *testing.T) {
	svc := NewSearchService(&mockSearchStore{}, &mockEmbedder{}, 0, 0)

	if _, err := svc.Search(context.Background(), SearchRequest{Query: "   "}); err == nil {
		t.Fatal("expected error for blank query")
	}
}

func TestSearchEmptyIndexReturnsNoResults(t *testing.T) {
	svc := NewSearchService(&mockSearchStore{}, &mockEmbedder{}, 0, 0)

	results, err := svc.Search(context.Background(), SearchRequest{Query: "total revenue"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestSearchTopKDefaultAndCap(t *testing.T) {
	store := &mockSearchStore{}
	svc := NewSearchService(store, &mockEmbedder{}, 0, 0)

	if _, err := svc.Search(context.Background(), SearchRequest{Query: "q"}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if store.gotTopK != DefaultSearchTopK {
		t.Errorf("default topK = %d, want %d", store.gotTopK, DefaultSearchTopK)
	}

	if _, err := svc.Search(context.Background(), SearchRequest{Query: "q", TopK: 500}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if store.gotTopK != MaxSearchTopK {
		t.Errorf("capped topK = %d, want %d", store.gotTopK, MaxSearchTopK)
	}

	if _, err := svc.Search(context.Background(), SearchRequest{Query: "q", TopK: 12}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if store.gotTopK != 12 {
		t.Errorf("explicit topK = %d, want 12", store.gotTopK)
	}
}

func TestSearchPassesDocumentTypeFilter(t *testing.T) {
	store := &mockSearchStore{}
	svc := NewSearchService(store, &mockEmbedder{}, 0, 0)

	req := SearchRequest{Query: "closing balance", DocumentType: model.DocumentTypeBankStatement}
	if _, err := svc.Search(context.Background(), req); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if store.gotType != model.DocumentTypeBankStatement {
		t.Errorf("filter = %s, want BANK_STATEMENT", store.gotType)
	}
}

func TestSearchScoreFromDistance(t *testing.T) {
	chunkID := uuid.New()
	docID := uuid.New()
	store := &mockSearchStore{
		matches: []repository.ChunkMatch{
			{
				DocumentChunk: model.DocumentChunk{
					BaseModel:  model.BaseModel{ID: chunkID},
					DocumentID: docID,
					ChunkText:  "Total: 1100.00",
					ChunkIndex: 3,
				},
				Distance:     0.25,
				FileName:     "invoice.pdf",
				DocumentType: model.DocumentTypeInvoice,
			},
		},
	}
	svc := NewSearchService(store, &mockEmbedder{}, 0, 0)

	results, err := svc.Search(context.Background(), SearchRequest{Query: "total"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if math.Abs(r.Score-0.75) > 1e-9 {
		t.Errorf("score = %v, want 0.75", r.Score)
	}
	if r.ChunkID != chunkID || r.DocumentID != docID {
		t.Error("result identifiers not mapped")
	}
	if r.ChunkText != "Total: 1100.00" || r.ChunkIndex != 3 {
		t.Error("chunk fields not mapped")
	}
	if r.FileName != "invoice.pdf" || r.DocumentType != model.DocumentTypeInvoice {
		t.Error("document fields not mapped")
	}
}

func TestSearchEmbedderFailure(t *testing.T) {
	svc := NewSearchService(&mockSearchStore{}, &mockEmbedder{queryErr: errors.New("provider down")}, 0, 0)

	if _, err := svc.Search(context.Background(), SearchRequest{Query: "q"}); err == nil {
		t.Fatal("expected error when query embedding fails")
	}
}
