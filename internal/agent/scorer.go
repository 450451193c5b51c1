package agent

import (
	"context"

	"github.com/google/uuid"
)

// Impact levels a recommendation may carry. Persisted verbatim, so the
// values must match the recommendation model's enum.
const (
	ImpactLow    = "low"
	ImpactMedium = "medium"
	ImpactHigh   = "high"
)

// RecommendationDraft is a recommendation as produced by a scorer,
// before the worker persists it against a venture.
type RecommendationDraft struct {
	Action     string  `json:"action"`
	Impact     string  `json:"impact"` // low | medium | high
	ETAWeeks   *int    `json:"eta_weeks,omitempty"`
	Dependency *string `json:"dependency,omitempty"`
}

// AgentOutput is the structured result of scoring one dimension.
type AgentOutput struct {
	Dimension       Dimension             `json:"dimension"`
	Level           int                   `json:"level"`      // 1..9
	Confidence      float64               `json:"confidence"` // 0..1
	Justification   string                `json:"justification"`
	Evidence        []string              `json:"evidence"`
	NextSteps       []string              `json:"next_steps"`
	Recommendations []RecommendationDraft `json:"recommendations"`
}

// EvidenceChunk is the slice of an ingested document a scorer may cite.
type EvidenceChunk struct {
	SourceRef string
	Content   string
}

// Input carries everything a scorer is allowed to see. Evidence is
// pre-filtered per dimension by the relevance tags.
type Input struct {
	VentureID    uuid.UUID
	VentureName  string
	Stage        string
	SubmissionID *uuid.UUID
	Evidence     map[Dimension][]EvidenceChunk
}

// DimensionScorer is the opaque scoring capability. The worker treats
// implementations as a black box so the templated scorer can later be
// swapped for a rules engine or model call without touching
// orchestration.
type DimensionScorer interface {
	ScoreDimension(ctx context.Context, dim Dimension, in Input) (AgentOutput, error)
	ModelName() string
}
