package usecase

import (
	"context"
	"log"

	"github.com/fadilmartias/pitch-grader/internal/deadline"
	"github.com/fadilmartias/pitch-grader/internal/dto"
	"github.com/fadilmartias/pitch-grader/internal/model"
	"github.com/fadilmartias/pitch-grader/internal/repository"
	"github.com/fadilmartias/pitch-grader/internal/service"
	"github.com/fadilmartias/pitch-grader/internal/util"
	"github.com/google/uuid"
)

const ExtractionFailurePrefix = "Extraction failure: "

// Sink receives every finished result on a best-effort basis.
type Sink interface {
	Name() string
	Save(ctx context.Context, result model.GradingResult) error
}

// GraderFactory resolves the grader for a request. It fails only when
// required configuration is missing.
type GraderFactory func(ctx context.Context) (service.GraderInterface, error)

type GradeUsecase struct {
	extractor util.ExtractorInterface
	newGrader GraderFactory
	runs      *repository.RunStore
	sinks     []Sink
}

func NewGradeUsecase(extractor util.ExtractorInterface, newGrader GraderFactory, runs *repository.RunStore, sinks ...Sink) *GradeUsecase {
	return &GradeUsecase{extractor: extractor, newGrader: newGrader, runs: runs, sinks: sinks}
}

// Grade runs extract, grade and record for one uploaded document. Extraction
// and model failures come back as a degraded result; only configuration
// problems are returned as errors.
func (uc *GradeUsecase) Grade(ctx context.Context, doc model.Document) (model.GradingResult, error) {
	grader, err := uc.newGrader(ctx)
	if err != nil {
		return model.GradingResult{}, err
	}

	var result model.GradingResult
	text, err := uc.extractor.Extract(doc)
	if err != nil {
		log.Printf("[grade] extraction failed for %s: %v", doc.Filename, err)
		result = model.NewFallbackResult(
			doc.Filename,
			uuid.NewString(),
			service.Now(),
			ExtractionFailurePrefix+err.Error(),
		)
	} else {
		log.Printf("[grade] extracted %d chars from %s", len(text), doc.Filename)
		result = grader.Grade(ctx, doc.Filename, text)
	}

	uc.runs.Record(result)
	uc.forward(ctx, result)

	log.Printf("[grade] run %s finished: verdict=%s overall=%d", result.RunID, result.Verdict, result.OverallScore)
	return result, nil
}

func (uc *GradeUsecase) forward(ctx context.Context, result model.GradingResult) {
	for _, sink := range uc.sinks {
		_, err := deadline.Race(ctx, deadline.SimpleTimeout, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, sink.Save(ctx, result.Clone())
		})
		if err != nil {
			log.Printf("[sink] %s: failed to save run %s: %v", sink.Name(), result.RunID, err)
			continue
		}
		log.Printf("[sink] %s: saved run %s", sink.Name(), result.RunID)
	}
}

func (uc *GradeUsecase) ListRuns(limit int) []dto.RunSummaryDTO {
	return uc.runs.List(limit)
}

func (uc *GradeUsecase) GetRun(runID string) (model.GradingResult, bool) {
	return uc.runs.Get(runID)
}
