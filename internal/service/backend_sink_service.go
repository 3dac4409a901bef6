package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fadilmartias/pitch-grader/internal/config"
	"github.com/fadilmartias/pitch-grader/internal/model"
	"github.com/go-resty/resty/v2"
)

// BackendSinkService forwards graded decks to the downstream deck store.
type BackendSinkService struct {
	client  *resty.Client
	baseURL string
	userID  int
}

func NewBackendSinkService(cfg *config.BackendConfig) *BackendSinkService {
	return &BackendSinkService{
		client:  resty.New(),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		userID:  cfg.UserID,
	}
}

type deckPayload struct {
	UserID      int               `json:"user_id"`
	Filename    string            `json:"filename"`
	Timestamp   string            `json:"timestamp"`
	Verdict     model.Verdict     `json:"verdict"`
	Scores      deckPayloadScores `json:"scores"`
	Suggestions []string          `json:"suggestions"`
	RedFlags    []string          `json:"red_flags"`
}

type deckPayloadScores struct {
	OverallScore int `json:"overall_score"`
	model.Scores
}

func (s *BackendSinkService) Name() string {
	return "backend"
}

func (s *BackendSinkService) Save(ctx context.Context, result model.GradingResult) error {
	payload := deckPayload{
		UserID:    s.userID,
		Filename:  result.Filename,
		Timestamp: result.Timestamp,
		Verdict:   result.Verdict,
		Scores: deckPayloadScores{
			OverallScore: result.OverallScore,
			Scores:       result.Scores,
		},
		Suggestions: result.Suggestions,
		RedFlags:    result.RedFlags,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(s.baseURL + "/api/deck")
	if err != nil {
		return fmt.Errorf("post deck: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("post deck: unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
