package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fadilmartias/pitch-grader/internal/config"
	"github.com/fadilmartias/pitch-grader/internal/model"
)

func sampleResult() model.GradingResult {
	return model.GradingResult{
		RunID:        "run-1",
		Filename:     "deck.pdf",
		OverallScore: 81,
		Scores: model.Scores{
			ProblemSolutionFit:    80,
			MarketPotential:       85,
			BusinessModelStrategy: 78,
			TeamStrength:          82,
			FinancialsAndTraction: 79,
			Communication:         84,
		},
		Suggestions: []string{"Clarify pricing"},
		RedFlags:    []string{},
		Verdict:     model.VerdictGood,
		Timestamp:   "2026-01-01T00:00:00.000Z",
	}
}

func TestBackendSinkService_Save(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/deck" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sink := NewBackendSinkService(&config.BackendConfig{BaseURL: server.URL + "/", UserID: 7})
	if err := sink.Save(context.Background(), sampleResult()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if body["user_id"] != float64(7) || body["verdict"] != "Good" || body["filename"] != "deck.pdf" {
		t.Errorf("unexpected payload: %v", body)
	}
	scores, ok := body["scores"].(map[string]any)
	if !ok {
		t.Fatalf("scores missing from payload: %v", body)
	}
	if scores["overall_score"] != float64(81) || scores["market_potential"] != float64(85) {
		t.Errorf("unexpected scores: %v", scores)
	}
}

func TestBackendSinkService_SaveNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	sink := NewBackendSinkService(&config.BackendConfig{BaseURL: server.URL})
	if err := sink.Save(context.Background(), sampleResult()); err == nil {
		t.Fatal("expected error for 503 response")
	}
}
