package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fadilmartias/pitch-grader/internal/config"
	"github.com/fadilmartias/pitch-grader/internal/util"
	"google.golang.org/genai"
)

type GeminiService struct {
	client *genai.Client
	model  string
}

func NewGeminiService(ctx context.Context, cfg *config.GeminiConfig) (*GeminiService, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, &util.ConfigurationError{Key: "GEMINI_API_KEY"}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}
	return &GeminiService{client: client, model: model}, nil
}

func (s *GeminiService) Name() string {
	return "gemini"
}

func (s *GeminiService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	genConfig, err := generateConfig(req)
	if err != nil {
		return "", err
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(req.User), genConfig)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	if err := validateGenerateResponse(result); err != nil {
		return "", fmt.Errorf("%w: invalid response: %w", util.ErrModelCallFailure, err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", util.ErrModelCallFailure)
	}
	return text, nil
}

// generateConfig maps a completion request onto Gemini's JSON mode with the
// request's response schema.
func generateConfig(req CompletionRequest) (*genai.GenerateContentConfig, error) {
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	if len(req.Schema) > 0 {
		var schema map[string]any
		if err := json.Unmarshal(req.Schema, &schema); err != nil {
			return nil, fmt.Errorf("decode response schema %s: %w", req.SchemaName, err)
		}
		genConfig.ResponseJsonSchema = schema
	}
	if req.Pinned {
		genConfig.Temperature = genai.Ptr(DecodingTemperature)
		genConfig.TopP = genai.Ptr(DecodingTopP)
		genConfig.Seed = genai.Ptr(int32(DecodingSeed))
	}
	return genConfig, nil
}

func classifyGeminiError(err error) error {
	if decodingRejection.MatchString(err.Error()) {
		return fmt.Errorf("%w: %w", util.ErrSchemaRejection, err)
	}
	return fmt.Errorf("%w: %w", util.ErrModelCallFailure, err)
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}

	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}

	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}

	return nil
}
