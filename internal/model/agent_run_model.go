package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AgentRun is the audit record of one dimension-scoring invocation.
// Rows are append-only; readers treat the latest row per
// (submission, dimension) as authoritative.
type AgentRun struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubmissionID uuid.UUID      `gorm:"type:uuid;index" json:"submission_id"`
	Dimension    string         `gorm:"type:varchar(50)" json:"dimension"`
	Model        string         `gorm:"type:varchar(100)" json:"model"`
	OutputJSON   datatypes.JSON `gorm:"type:jsonb" json:"output_json"`
	Confidence   float64        `json:"confidence"` // denormalized from output
	DurationMS   int64          `json:"duration_ms"`
	EvidenceRefs datatypes.JSON `gorm:"type:jsonb" json:"evidence_refs"`
	Flags        datatypes.JSON `gorm:"type:jsonb" json:"flags"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (a *AgentRun) TableName() string {
	return "agent_runs"
}
