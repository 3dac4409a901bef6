package dto

import "github.com/fadilmartias/pitch-grader/internal/model"

type RunSummaryDTO struct {
	RunID        string        `json:"run_id"`
	Filename     string        `json:"filename"`
	Verdict      model.Verdict `json:"verdict"`
	OverallScore int           `json:"overall_score"`
	Timestamp    string        `json:"timestamp"`
}

func NewRunSummaryDTO(r model.GradingResult) RunSummaryDTO {
	return RunSummaryDTO{
		RunID:        r.RunID,
		Filename:     r.Filename,
		Verdict:      r.Verdict,
		OverallScore: r.OverallScore,
		Timestamp:    r.Timestamp,
	}
}
