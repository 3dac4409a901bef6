package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fadilmartias/pitch-grader/internal/config"
	"github.com/fadilmartias/pitch-grader/internal/util"
	"google.golang.org/genai"
)

func TestNewGeminiService_MissingKey(t *testing.T) {
	_, err := NewGeminiService(context.Background(), &config.GeminiConfig{})
	if !errors.Is(err, util.ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
	if err.Error() != "Missing GEMINI_API_KEY" {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestClassifyGeminiError(t *testing.T) {
	rejected := classifyGeminiError(errors.New("Error 400: Unsupported value for 'temperature'"))
	if !errors.Is(rejected, util.ErrSchemaRejection) {
		t.Errorf("expected schema rejection, got %v", rejected)
	}

	failed := classifyGeminiError(errors.New("Error 503: model overloaded"))
	if !errors.Is(failed, util.ErrModelCallFailure) || errors.Is(failed, util.ErrSchemaRejection) {
		t.Errorf("expected model call failure, got %v", failed)
	}
}

func TestValidateGenerateResponse(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		wantErr bool
	}{
		{"nil", nil, true},
		{"no candidates", &genai.GenerateContentResponse{}, true},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, true},
		{"no parts", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}}, true},
		{"ok", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: genai.NewContentFromText("{}", genai.RoleModel)}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateGenerateResponse(tt.resp)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateGenerateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateConfig_CarriesSchema(t *testing.T) {
	req := CompletionRequest{
		System:     SystemPrompt,
		User:       "Run ID: r\nFilename: deck.pdf",
		SchemaName: SchemaName,
		Schema:     GradingSchema,
		Pinned:     true,
	}

	cfg, err := generateConfig(req)
	if err != nil {
		t.Fatalf("generateConfig failed: %v", err)
	}
	if cfg.ResponseMIMEType != "application/json" {
		t.Errorf("unexpected mime type %q", cfg.ResponseMIMEType)
	}
	schema, ok := cfg.ResponseJsonSchema.(map[string]any)
	if !ok {
		t.Fatalf("expected decoded schema, got %T", cfg.ResponseJsonSchema)
	}
	props, _ := schema["properties"].(map[string]any)
	for _, field := range []string{"run_id", "overall_score", "scores", "verdict"} {
		if _, ok := props[field]; !ok {
			t.Errorf("schema missing property %q", field)
		}
	}
	if cfg.Temperature == nil || *cfg.Temperature != DecodingTemperature || cfg.Seed == nil || *cfg.Seed != DecodingSeed {
		t.Errorf("pinned decoding not applied: %+v", cfg)
	}

	req.Pinned = false
	relaxed, err := generateConfig(req)
	if err != nil {
		t.Fatalf("generateConfig failed: %v", err)
	}
	if relaxed.Temperature != nil || relaxed.TopP != nil || relaxed.Seed != nil {
		t.Error("relaxed request must omit decoding parameters")
	}
	if relaxed.ResponseJsonSchema == nil {
		t.Error("relaxed request must keep the response schema")
	}
}

func TestGenerateConfig_BadSchema(t *testing.T) {
	_, err := generateConfig(CompletionRequest{SchemaName: "broken", Schema: []byte("{")})
	if err == nil {
		t.Fatal("expected schema decode error")
	}
}
