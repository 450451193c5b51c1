package model

import (
	"time"

	"github.com/google/uuid"
)

// Funding stages recognized by the scoring agents. Anything else is
// treated as pre-seed for base-level purposes.
const (
	StagePreSeed = "pre_seed"
	StageSeed    = "seed"
	StageSeriesA = "series_a"
)

type Venture struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255)" json:"name"`
	Stage       string    `gorm:"type:varchar(50)" json:"stage"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (v *Venture) TableName() string {
	return "ventures"
}
