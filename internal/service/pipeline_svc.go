package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tgo/finsight/internal/model"
	"github.com/tgo/finsight/internal/risk"
	"github.com/tgo/finsight/internal/validation"
)

const extractionMethodAI = "AI_LLM"

// PipelineService drives one document through extraction,
// classification, structured extraction, validation, risk detection and
// indexing. Each stage checkpoints before the next begins, so a crash
// leaves visible partial progress.
type PipelineService struct {
	documents   DocumentStore
	extractions ExtractionStore
	validations ValidationStore
	risks       RiskStore
	audits      AuditStore

	textExtractor TextExtractor
	classifier    Classifier
	structured    StructuredExtractor
	explainer     risk.ExplanationGenerator
	indexer       *IndexingService

	logger *slog.Logger
}

func NewPipelineService(
	documents DocumentStore,
	extractions ExtractionStore,
	validations ValidationStore,
	risks RiskStore,
	audits AuditStore,
	textExtractor TextExtractor,
	classifier Classifier,
	structured StructuredExtractor,
	explainer risk.ExplanationGenerator,
	indexer *IndexingService,
) *PipelineService {
	return &PipelineService{
		documents:     documents,
		extractions:   extractions,
		validations:   validations,
		risks:         risks,
		audits:        audits,
		textExtractor: textExtractor,
		classifier:    classifier,
		structured:    structured,
		explainer:     explainer,
		indexer:       indexer,
		logger:        slog.Default().With("component", "pipeline"),
	}
}

// Run processes one UPLOADED document to COMPLETED or FAILED. At most
// one run per document may be active; scheduling is the caller's job.
func (s *PipelineService) Run(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if doc.Status != model.DocumentStatusUploaded {
		return fmt.Errorf("%w: status is %s", ErrInvalidDocumentState, doc.Status)
	}

	s.logger.Info("processing started", "document_id", documentID, "file", doc.FileName)

	now := time.Now()
	doc.Status = model.DocumentStatusProcessing
	doc.ProcessingStartedAt = &now
	if err := s.documents.Update(ctx, doc); err != nil {
		return fmt.Errorf("failed to checkpoint status: %w", err)
	}

	// Stage 1: text extraction. Empty text is fatal for the run.
	text, pageCount, err := s.textExtractor.Extract(ctx, doc.StoragePath, doc.ContentType)
	if err != nil {
		return s.fail(ctx, doc, fmt.Errorf("text extraction failed: %w", err))
	}
	if strings.TrimSpace(text) == "" {
		return s.fail(ctx, doc, ErrEmptyDocumentText)
	}
	doc.ExtractedText = text
	doc.PageCount = pageCount
	if err := s.documents.Update(ctx, doc); err != nil {
		return s.fail(ctx, doc, fmt.Errorf("failed to checkpoint extracted text: %w", err))
	}

	// Stage 2: classification. Collaborator failure degrades to UNKNOWN.
	docType, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.logger.Warn("classification failed, falling back to UNKNOWN",
			"document_id", documentID, "error", err)
		docType = model.DocumentTypeUnknown
	}
	doc.DocumentType = docType
	if err := s.documents.Update(ctx, doc); err != nil {
		return s.fail(ctx, doc, fmt.Errorf("failed to checkpoint document type: %w", err))
	}

	// Stage 3: structured extraction. Empty output skips validation and
	// risk but the document still gets indexed. A persistence failure is
	// a lost checkpoint and fails the run.
	fields, err := s.extractStructured(ctx, doc, text, docType)
	if err != nil {
		return s.fail(ctx, doc, err)
	}

	if len(fields) > 0 {
		// Stage 4: validation.
		results := validation.ForDocumentType(docType, fields)
		if err := s.persistValidations(ctx, doc, results); err != nil {
			return s.fail(ctx, doc, err)
		}

		// Stage 5: risk detection.
		if err := s.detectRisks(ctx, doc, fields, results); err != nil {
			return s.fail(ctx, doc, err)
		}
	}

	// Stage 6: indexing. Failure leaves zero chunks but completes the run.
	if count, err := s.indexer.IndexDocument(ctx, doc); err != nil {
		s.logger.Error("indexing failed, document will have no chunks",
			"document_id", documentID, "error", err)
	} else {
		s.logger.Info("indexed document", "document_id", documentID, "chunks", count)
	}

	completed := time.Now()
	doc.Status = model.DocumentStatusCompleted
	doc.ProcessingCompletedAt = &completed
	if err := s.documents.Update(ctx, doc); err != nil {
		return s.fail(ctx, doc, fmt.Errorf("failed to checkpoint completion: %w", err))
	}

	audit := &model.AuditLog{
		DocumentID:   &doc.ID,
		Action:       "DOCUMENT_PROCESS_COMPLETE",
		ResourceType: "document",
		ResourceID:   &doc.ID,
		Description:  fmt.Sprintf("Processed %s: %s", doc.DocumentType, doc.OriginalName),
	}
	if err := s.audits.Create(ctx, audit); err != nil {
		s.logger.Warn("failed to write audit entry", "document_id", documentID, "error", err)
	}

	s.logger.Info("processing complete", "document_id", documentID, "type", doc.DocumentType)
	return nil
}

// Retry resets a FAILED document to UPLOADED so Run can be invoked
// again. Retries are always explicit; nothing in the pipeline schedules
// them.
func (s *PipelineService) Retry(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if doc.Status != model.DocumentStatusFailed {
		return fmt.Errorf("%w: status is %s", ErrNotRetryable, doc.Status)
	}

	doc.Status = model.DocumentStatusUploaded
	doc.ErrorMessage = ""
	return s.documents.Update(ctx, doc)
}

func (s *PipelineService) extractStructured(ctx context.Context, doc *model.Document, text string, docType model.DocumentType) (model.JSONMap, error) {
	fields, confidence, err := s.structured.ExtractStructured(ctx, text, docType)
	if err != nil {
		s.logger.Warn("structured extraction failed, skipping validation and risk",
			"document_id", doc.ID, "error", err)
		return nil, nil
	}
	if len(fields) == 0 {
		s.logger.Info("no financial data extracted", "document_id", doc.ID)
		return nil, nil
	}

	extraction := &model.FinancialExtraction{
		DocumentID:       doc.ID,
		ExtractedData:    fields,
		ConfidenceScore:  confidence,
		InvoiceNumber:    stringField(fields, "invoice_number"),
		InvoiceDate:      dateField(fields, "invoice_date"),
		DueDate:          dateField(fields, "due_date"),
		VendorName:       stringField(fields, "vendor_name"),
		CustomerName:     stringField(fields, "customer_name"),
		Subtotal:         floatField(fields, "subtotal"),
		TaxAmount:        floatField(fields, "tax_amount"),
		TotalAmount:      floatField(fields, "total_amount"),
		Currency:         currencyField(fields),
		ExtractionMethod: extractionMethodAI,
	}

	if err := s.extractions.Create(ctx, extraction); err != nil {
		return nil, fmt.Errorf("failed to persist extraction: %w", err)
	}

	return fields, nil
}

func (s *PipelineService) persistValidations(ctx context.Context, doc *model.Document, results []validation.Result) error {
	if len(results) == 0 {
		return nil
	}

	records := make([]model.FinancialValidation, 0, len(results))
	for _, r := range results {
		record := model.FinancialValidation{
			DocumentID:     doc.ID,
			ValidationType: r.Type,
			IsValid:        r.IsValid,
			ErrorMessage:   r.Message,
			Severity:       r.Severity,
		}
		if r.Expected != "" {
			record.ExpectedValue = model.JSONMap{"value": r.Expected}
		}
		if r.Actual != "" {
			record.ActualValue = model.JSONMap{"value": r.Actual}
		}
		records = append(records, record)
	}

	if err := s.validations.CreateBatch(ctx, records); err != nil {
		return fmt.Errorf("failed to persist validations: %w", err)
	}
	return nil
}

// detectRisks runs the rule engine, fans explanation requests out as a
// batch, and persists the whole flag set at once. Flags are never
// partially persisted. Invoices get the full rule set; other document
// types only surface their failed validations.
func (s *PipelineService) detectRisks(ctx context.Context, doc *model.Document, fields model.JSONMap, results []validation.Result) error {
	var candidates []risk.Candidate
	if doc.DocumentType == model.DocumentTypeInvoice {
		candidates = risk.DetectInvoiceRisks(fields, results)
	} else {
		candidates = risk.ValidationFailures(results)
	}
	if len(candidates) == 0 {
		return nil
	}

	explained := risk.ExplainAll(ctx, s.explainer, candidates, risk.DocumentContext{
		DocumentType:  doc.DocumentType,
		ExtractedData: fields,
	})

	flags := make([]model.RiskFlag, 0, len(explained))
	for _, e := range explained {
		flags = append(flags, model.RiskFlag{
			DocumentID:    doc.ID,
			RiskType:      e.RiskType,
			RiskLevel:     e.RiskLevel,
			Description:   e.Description,
			AIExplanation: e.Explanation,
			Evidence:      e.Evidence,
		})
	}

	if err := s.risks.CreateBatch(ctx, flags); err != nil {
		return fmt.Errorf("failed to persist risk flags: %w", err)
	}
	return nil
}

// fail transitions the document to FAILED and bumps the retry counter.
// Already-committed checkpoints are left in place.
func (s *PipelineService) fail(ctx context.Context, doc *model.Document, cause error) error {
	s.logger.Error("processing failed", "document_id", doc.ID, "error", cause)

	doc.Status = model.DocumentStatusFailed
	doc.ErrorMessage = cause.Error()
	doc.RetryCount++
	if err := s.documents.Update(ctx, doc); err != nil {
		s.logger.Error("failed to record failure state", "document_id", doc.ID, "error", err)
	}

	return cause
}

func stringField(fields model.JSONMap, key string) string {
	s, _ := fields[key].(string)
	return s
}

func floatField(fields model.JSONMap, key string) *float64 {
	switch v := fields[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

func dateField(fields model.JSONMap, key string) *time.Time {
	s, _ := fields[key].(string)
	if s == "" {
		return nil
	}
	t, err := validation.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

func currencyField(fields model.JSONMap) string {
	if c, _ := fields["currency"].(string); c != "" {
		return c
	}
	return "USD"
}
