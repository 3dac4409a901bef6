package util

import (
	"errors"
	"fmt"
)

var (
	ErrSizeLimitExceeded    = errors.New("file exceeds 25MB limit")
	ErrUnsupportedFormat    = errors.New("unsupported file type")
	ErrExtractionFailure    = errors.New("extraction failure")
	ErrModelCallFailure     = errors.New("model call failure")
	ErrSchemaRejection      = errors.New("decoding parameters rejected")
	ErrNormalizationFailure = errors.New("json parse error")
	ErrConfigurationMissing = errors.New("configuration missing")
	ErrUploadFailure        = errors.New("upload failed")
)

// ExtractionError wraps a lower-level conversion error. Its message keeps the
// cause so callers can surface it verbatim.
type ExtractionError struct {
	Ext string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailure
}

func NewExtractionError(ext string, err error) *ExtractionError {
	return &ExtractionError{Ext: ext, Err: err}
}

// ConfigurationError names a required setting that is absent.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return "Missing " + e.Key
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfigurationMissing
}
