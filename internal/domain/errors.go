package domain

import "errors"

var (
	// ErrEmptyDocument indicates no extractable text remained after
	// normalization. Ingestion is aborted for that document.
	ErrEmptyDocument = errors.New("empty document")

	// ErrInvalidConfiguration indicates a rejected configuration, such as
	// overlap >= chunk size or lexical weights not summing to 1. It is
	// surfaced at configuration time, never at query time.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrBackendUnavailable indicates the vector backend could not serve a
	// call. It is internal only: the retriever logs it and falls back to
	// lexical scoring instead of surfacing it.
	ErrBackendUnavailable = errors.New("vector backend unavailable")

	// ErrNotFound indicates a requested document is not in the session.
	ErrNotFound = errors.New("document not found")
)
