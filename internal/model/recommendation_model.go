package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ImpactLow    = "low"
	ImpactMedium = "medium"
	ImpactHigh   = "high"
)

// Recommendation rows are append-only from the worker's perspective;
// re-running an assessment accumulates rows rather than deduplicating.
type Recommendation struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VentureID  uuid.UUID `gorm:"type:uuid;index" json:"venture_id"`
	Dimension  string    `gorm:"type:varchar(50)" json:"dimension"`
	Action     string    `gorm:"type:text" json:"action"`
	Impact     string    `gorm:"type:varchar(20)" json:"impact"` // low | medium | high
	ETAWeeks   *int      `json:"eta_weeks,omitempty"`
	Dependency *string   `gorm:"type:text" json:"dependency,omitempty"`
	Status     string    `gorm:"type:varchar(50)" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Recommendation) TableName() string {
	return "recommendations"
}
