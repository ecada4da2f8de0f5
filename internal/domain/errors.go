package domain

import "errors"

var (
	// ErrNotFound signals a missing entity in the content store.
	ErrNotFound = errors.New("not found")
	// ErrUnknownDocType signals a document type outside the indexed set.
	// This is a caller bug and is never absorbed by degradation paths.
	ErrUnknownDocType = errors.New("unknown document type")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorDimMismatch signals a vector that does not fit its collection.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
