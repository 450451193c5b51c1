package dto

import (
	"time"

	"github.com/google/uuid"
)

type ScoreDTO struct {
	Dimension     string   `json:"dimension"`
	Level         int      `json:"level"`
	Confidence    float64  `json:"confidence"`
	Justification string   `json:"justification,omitempty"`
	NextSteps     []string `json:"next_steps,omitempty"`
	Flags         []string `json:"flags,omitempty"`
}

type RecommendationDTO struct {
	ID         uuid.UUID `json:"id"`
	Dimension  string    `json:"dimension"`
	Action     string    `json:"action"`
	Impact     string    `json:"impact"`
	ETAWeeks   *int      `json:"eta_weeks,omitempty"`
	Dependency *string   `json:"dependency,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type VentureDashboardDTO struct {
	VentureID        uuid.UUID           `json:"venture_id"`
	VentureName      string              `json:"venture_name"`
	Stage            string              `json:"stage"`
	SubmissionStatus string              `json:"submission_status,omitempty"`
	Scores           []ScoreDTO          `json:"scores"`
	Recommendations  []RecommendationDTO `json:"recommendations"`
}

type SubmissionStatusDTO struct {
	ID        uuid.UUID `json:"id"`
	VentureID uuid.UUID `json:"venture_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChunkSearchResultDTO struct {
	SourceRef  string   `json:"source_ref"`
	Content    string   `json:"content"`
	Dimensions []string `json:"dimensions"`
}
