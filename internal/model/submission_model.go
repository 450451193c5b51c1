package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubmissionPending    = "pending"
	SubmissionProcessing = "processing"
	SubmissionCompleted  = "completed"
)

// Submission is one upload batch for a venture. Its status is driven by
// the assessment worker; it is deleted when its last file is removed.
type Submission struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VentureID uuid.UUID `gorm:"type:uuid;index" json:"venture_id"`
	Status    string    `gorm:"type:varchar(50)" json:"status"` // pending | processing | completed
	Files     []File    `gorm:"constraint:OnDelete:CASCADE" json:"files,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Submission) TableName() string {
	return "submissions"
}
