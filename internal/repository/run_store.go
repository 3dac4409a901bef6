package repository

import (
	"sync"

	"github.com/fadilmartias/pitch-grader/internal/dto"
	"github.com/fadilmartias/pitch-grader/internal/model"
)

const (
	DefaultRunCapacity = 1000
	DefaultListLimit   = 10
)

// RunStore is the in-process history of grading runs, newest first and never
// longer than its capacity.
type RunStore struct {
	mu       sync.RWMutex
	runs     []model.GradingResult
	capacity int
}

func NewRunStore(capacity int) *RunStore {
	if capacity <= 0 {
		capacity = DefaultRunCapacity
	}
	return &RunStore{
		runs:     make([]model.GradingResult, 0, capacity),
		capacity: capacity,
	}
}

// Record inserts result at the head and drops the oldest surplus in the same step.
func (s *RunStore) Record(result model.GradingResult) {
	rec := result.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.runs) < s.capacity {
		s.runs = append(s.runs, model.GradingResult{})
	}
	copy(s.runs[1:], s.runs[:len(s.runs)-1])
	s.runs[0] = rec
}

// List returns up to limit of the most recent runs as summaries.
func (s *RunStore) List(limit int) []dto.RunSummaryDTO {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit > len(s.runs) {
		limit = len(s.runs)
	}
	out := make([]dto.RunSummaryDTO, 0, limit)
	for _, r := range s.runs[:limit] {
		out = append(out, dto.NewRunSummaryDTO(r))
	}
	return out
}

func (s *RunStore) Get(runID string) (model.GradingResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.runs {
		if r.RunID == runID {
			return r.Clone(), true
		}
	}
	return model.GradingResult{}, false
}

func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
