package apperrors

import "errors"

var (
	// ErrAIUnavailable means no AI endpoint is configured; the import path
	// still works without one.
	ErrAIUnavailable = errors.New("no AI endpoint configured")
	// ErrExtractionFailed means the extractor model returned output that could
	// not be parsed into an extraction document.
	ErrExtractionFailed = errors.New("extraction produced no usable document")
)
