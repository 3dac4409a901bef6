package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fadilmartias/pitch-grader/internal/config"
	"github.com/fadilmartias/pitch-grader/internal/util"
	"github.com/sashabaranov/go-openai"
)

type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(cfg *config.OpenAIConfig) (*OpenAIService, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, &util.ConfigurationError{Key: "OPENAI_API_KEY"}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultOpenAIModel
	}

	return &OpenAIService{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

func (s *OpenAIService) Name() string {
	return "openai"
}

func (s *OpenAIService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	}
	if len(req.Schema) > 0 {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
				Strict: true,
			},
		}
	}
	if req.Pinned {
		seed := DecodingSeed
		// go-openai drops a zero temperature from the payload
		chatReq.Temperature = math.SmallestNonzeroFloat32
		chatReq.TopP = DecodingTopP
		chatReq.Seed = &seed
	}

	resp, err := s.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", util.ErrModelCallFailure)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty completion", util.ErrModelCallFailure)
	}
	return content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Param != nil && isDecodingParam(*apiErr.Param) {
			return fmt.Errorf("%w: %w", util.ErrSchemaRejection, err)
		}
	}
	if decodingRejection.MatchString(err.Error()) {
		return fmt.Errorf("%w: %w", util.ErrSchemaRejection, err)
	}
	return fmt.Errorf("%w: %w", util.ErrModelCallFailure, err)
}
