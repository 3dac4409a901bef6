package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fadilmartias/pitch-grader/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DeckRepository struct {
	db     *gorm.DB
	userID int
}

// NewDeckRepository stores decks on behalf of userID, the same owner the
// backend sink reports.
func NewDeckRepository(db *gorm.DB, userID int) *DeckRepository {
	return &DeckRepository{db: db, userID: userID}
}

func (r *DeckRepository) Name() string {
	return "database"
}

// Save stores a graded deck once per run; it satisfies the usecase sink contract.
func (r *DeckRepository) Save(ctx context.Context, result model.GradingResult) error {
	_, err := r.FindDeckByRunID(ctx, result.RunID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup run %s: %w", result.RunID, err)
	}

	deck, err := NewDeck(result, r.userID)
	if err != nil {
		return err
	}
	return r.CreateDeck(ctx, deck)
}

func (r *DeckRepository) CreateDeck(ctx context.Context, deck *model.Deck) error {
	return r.db.WithContext(ctx).Create(deck).Error
}

func (r *DeckRepository) FindDeckByRunID(ctx context.Context, runID string) (*model.Deck, error) {
	var deck model.Deck
	err := r.db.WithContext(ctx).First(&deck, "run_id = ?", runID).Error
	return &deck, err
}

// NewDeck maps a grading result onto its table row.
func NewDeck(result model.GradingResult, userID int) (*model.Deck, error) {
	scores, err := json.Marshal(result.Scores)
	if err != nil {
		return nil, fmt.Errorf("marshal scores: %w", err)
	}
	summaries, err := json.Marshal(result.Summaries)
	if err != nil {
		return nil, fmt.Errorf("marshal summaries: %w", err)
	}
	suggestions, err := json.Marshal(nonNil(result.Suggestions))
	if err != nil {
		return nil, fmt.Errorf("marshal suggestions: %w", err)
	}
	redFlags, err := json.Marshal(nonNil(result.RedFlags))
	if err != nil {
		return nil, fmt.Errorf("marshal red flags: %w", err)
	}

	return &model.Deck{
		RunID:        result.RunID,
		UserID:       userID,
		Filename:     result.Filename,
		Verdict:      string(result.Verdict),
		OverallScore: result.OverallScore,
		Scores:       datatypes.JSON(scores),
		Summaries:    datatypes.JSON(summaries),
		Suggestions:  datatypes.JSON(suggestions),
		RedFlags:     datatypes.JSON(redFlags),
		GradedAt:     result.Timestamp,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
