package model

import (
	"time"

	"github.com/google/uuid"
)

// Score holds the current readiness level for a (venture, dimension)
// pair. The unique index is the conflict target for worker upserts, so
// at most one row exists per pair.
type Score struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VentureID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_scores_venture_dimension" json:"venture_id"`
	Dimension  string    `gorm:"type:varchar(50);uniqueIndex:idx_scores_venture_dimension" json:"dimension"`
	Level      int       `json:"level"`      // 1..9
	Confidence float64   `json:"confidence"` // 0..1
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *Score) TableName() string {
	return "scores"
}
