package service

import "errors"

var (
	// ErrEmptyDocumentText aborts a run: a document with no extractable
	// text cannot be processed.
	ErrEmptyDocumentText = errors.New("document produced no extractable text")

	// ErrInvalidDocumentState is returned when Run is invoked on a
	// document that is not in the UPLOADED state.
	ErrInvalidDocumentState = errors.New("document is not ready for processing")

	// ErrNotRetryable is returned when Retry is invoked on a document
	// that has not failed.
	ErrNotRetryable = errors.New("document is not in a failed state")
)
