package service

import (
	"context"
	"encoding/json"
	"regexp"
)

// CompletionRequest is one chat completion against the grading schema.
// Pinned asks the provider to apply the deterministic decoding parameters.
type CompletionRequest struct {
	System     string
	User       string
	SchemaName string
	Schema     json.RawMessage
	Pinned     bool
}

// Completer returns the raw text of a model completion. Errors wrap
// util.ErrSchemaRejection when the provider refused the decoding parameters
// and util.ErrModelCallFailure otherwise.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

var decodingRejection = regexp.MustCompile(`(?i)(unsupported (value|parameter)|not supported|does not support|invalid).{0,40}'?\b(temperature|top_?p|seed)\b`)

func isDecodingParam(name string) bool {
	switch name {
	case "temperature", "top_p", "topP", "seed":
		return true
	}
	return false
}
