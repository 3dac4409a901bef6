package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Deck struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RunID        string         `gorm:"type:varchar(64);uniqueIndex" json:"run_id"`
	UserID       int            `gorm:"index" json:"user_id"`
	Filename     string         `gorm:"type:text" json:"filename"`
	Verdict      string         `gorm:"type:varchar(16)" json:"verdict"`
	OverallScore int            `json:"overall_score"`
	Scores       datatypes.JSON `gorm:"type:jsonb" json:"scores"`
	Summaries    datatypes.JSON `gorm:"type:jsonb" json:"summaries"`
	Suggestions  datatypes.JSON `gorm:"type:jsonb" json:"suggestions"`
	RedFlags     datatypes.JSON `gorm:"type:jsonb" json:"red_flags"`
	GradedAt     string         `gorm:"type:varchar(40)" json:"graded_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (d *Deck) TableName() string {
	return "decks"
}
