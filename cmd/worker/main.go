package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/tgo/finsight/internal/ai"
	"github.com/tgo/finsight/internal/chunker"
	"github.com/tgo/finsight/internal/config"
	"github.com/tgo/finsight/internal/database"
	"github.com/tgo/finsight/internal/extract"
	"github.com/tgo/finsight/internal/model"
	"github.com/tgo/finsight/internal/repository"
	"github.com/tgo/finsight/internal/service"
)

const processConcurrency = 4

func main() {
	// Load .env file if exists
	godotenv.Load()

	var (
		uploadPath = flag.String("upload", "", "register a file for processing")
		processID  = flag.String("process", "", "process one document by id")
		retryID    = flag.String("retry", "", "reset a failed document and reprocess it")
		all        = flag.Bool("all", false, "process every uploaded document")
		query      = flag.String("search", "", "run a semantic search query")
		docType    = flag.String("type", "", "restrict search to a document type")
		topK       = flag.Int("topk", 0, "number of search results")
		statusID   = flag.String("status", "", "print a document's processing report")
		deleteID   = flag.String("delete", "", "delete a document and its derived records")
		risks      = flag.Bool("risks", false, "list unresolved risk flags")
		minLevel   = flag.String("minlevel", "", "minimum risk level for -risks")
		resolveID  = flag.String("resolve", "", "mark a risk flag as resolved")
		notes      = flag.String("notes", "", "resolution notes for -resolve")
	)
	flag.Parse()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	documentRepo := repository.NewDocumentRepository(db)
	extractionRepo := repository.NewExtractionRepository(db)
	validationRepo := repository.NewValidationRepository(db)
	riskRepo := repository.NewRiskRepository(db)
	chunkRepo := repository.NewChunkRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	chat := ai.NewChatClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	embedder := ai.NewEmbeddingClient(cfg.EmbeddingAPIKey, cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDimensions)

	indexer := service.NewIndexingService(chunker.New(cfg.ChunkSize, cfg.ChunkOverlap), embedder, chunkRepo)
	pipeline := service.NewPipelineService(
		documentRepo, extractionRepo, validationRepo, riskRepo, auditRepo,
		extract.NewPlainTextExtractor(),
		ai.NewClassifier(chat),
		ai.NewStructuredExtractor(chat),
		ai.NewRiskExplainer(chat),
		indexer,
	)
	search := service.NewSearchService(chunkRepo, embedder, cfg.SearchTopK, cfg.SearchMaxTopK)

	ctx := context.Background()

	switch {
	case *uploadPath != "":
		runUpload(ctx, cfg, documentRepo, *uploadPath)
	case *processID != "":
		runOne(ctx, pipeline, *processID)
	case *retryID != "":
		id := mustParseID(*retryID)
		if err := pipeline.Retry(ctx, id); err != nil {
			log.Fatalf("Retry failed: %v", err)
		}
		if err := pipeline.Run(ctx, id); err != nil {
			log.Fatalf("Processing failed: %v", err)
		}
	case *all:
		runAll(ctx, pipeline, documentRepo)
	case *query != "":
		runSearch(ctx, search, *query, *docType, *topK)
	case *statusID != "":
		runStatus(ctx, documentRepo, extractionRepo, validationRepo, riskRepo, auditRepo, chunkRepo, *statusID)
	case *deleteID != "":
		if err := documentRepo.Delete(ctx, mustParseID(*deleteID)); err != nil {
			log.Fatalf("Failed to delete document: %v", err)
		}
	case *risks:
		runListRisks(ctx, riskRepo, *minLevel)
	case *resolveID != "":
		if err := riskRepo.Resolve(ctx, mustParseID(*resolveID), *notes); err != nil {
			log.Fatalf("Failed to resolve risk flag: %v", err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// runUpload copies a local file into the storage directory and
// registers it as an UPLOADED document.
func runUpload(ctx context.Context, cfg *config.Config, documents *repository.DocumentRepository, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read file: %v", err)
	}

	ext := filepath.Ext(path)
	storedName := uuid.New().String() + ext
	dest := filepath.Join(cfg.StoragePath, storedName)

	if err := os.MkdirAll(cfg.StoragePath, 0o755); err != nil {
		log.Fatalf("Failed to create storage directory: %v", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		log.Fatalf("Failed to store file: %v", err)
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc := &model.Document{
		FileName:     storedName,
		OriginalName: filepath.Base(path),
		StoragePath:  dest,
		Size:         int64(len(data)),
		ContentType:  contentType,
		Status:       model.DocumentStatusUploaded,
	}
	if err := documents.Create(ctx, doc); err != nil {
		log.Fatalf("Failed to register document: %v", err)
	}

	fmt.Println(doc.ID)
}

func runOne(ctx context.Context, pipeline *service.PipelineService, rawID string) {
	if err := pipeline.Run(ctx, mustParseID(rawID)); err != nil {
		log.Fatalf("Processing failed: %v", err)
	}
}

func runAll(ctx context.Context, pipeline *service.PipelineService, documents *repository.DocumentRepository) {
	docs, err := documents.FindByStatus(ctx, model.DocumentStatusUploaded, 1000)
	if err != nil {
		log.Fatalf("Failed to list uploaded documents: %v", err)
	}
	if len(docs) == 0 {
		log.Println("No uploaded documents to process")
		return
	}

	// Runs are independent units of work; failures surface per document.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(processConcurrency)
	for _, doc := range docs {
		id := doc.ID
		g.Go(func() error {
			if err := pipeline.Run(gctx, id); err != nil {
				log.Printf("Document %s failed: %v", id, err)
			}
			return nil
		})
	}
	g.Wait()
	log.Printf("Processed %d documents", len(docs))
}

func runSearch(ctx context.Context, search *service.SearchService, query, docType string, topK int) {
	results, err := search.Search(ctx, service.SearchRequest{
		Query:        query,
		DocumentType: model.DocumentType(docType),
		TopK:         topK,
	})
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	printJSON(results)
}

// runStatus assembles the full processing report for one document.
func runStatus(
	ctx context.Context,
	documents *repository.DocumentRepository,
	extractions *repository.ExtractionRepository,
	validations *repository.ValidationRepository,
	risks *repository.RiskRepository,
	audits *repository.AuditRepository,
	chunks *repository.ChunkRepository,
	rawID string,
) {
	id := mustParseID(rawID)

	doc, err := documents.FindByID(ctx, id)
	if err != nil {
		log.Fatalf("Failed to load document: %v", err)
	}

	report := map[string]interface{}{"document": doc}
	if extraction, err := extractions.FindLatestByDocumentID(ctx, id); err == nil {
		report["extraction"] = extraction
	}
	if results, err := validations.FindByDocumentID(ctx, id); err == nil {
		report["validations"] = results
	}
	if flags, err := risks.FindByDocumentID(ctx, id); err == nil {
		report["risk_flags"] = flags
	}
	if entries, _, err := audits.FindByDocumentID(ctx, id, 50, 0); err == nil {
		report["audit_log"] = entries
	}
	if count, err := chunks.CountByDocumentID(ctx, id); err == nil {
		report["chunk_count"] = count
	}

	printJSON(report)
}

func runListRisks(ctx context.Context, risks *repository.RiskRepository, minLevel string) {
	flags, total, err := risks.FindUnresolved(ctx, model.RiskLevel(minLevel), 100, 0)
	if err != nil {
		log.Fatalf("Failed to list risk flags: %v", err)
	}

	printJSON(map[string]interface{}{"total": total, "risk_flags": flags})
}

func printJSON(v interface{}) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}

func mustParseID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Fatalf("Invalid document id %q: %v", raw, err)
	}
	return id
}
