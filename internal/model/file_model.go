package model

import (
	"time"

	"github.com/google/uuid"
)

type File struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;index" json:"submission_id"`
	StoragePath  string    `gorm:"type:text" json:"storage_path"`
	MimeType     string    `gorm:"type:varchar(255)" json:"mime_type"`
	Size         int64     `json:"size"`
	ScanClean    bool      `gorm:"default:true" json:"scan_clean"` // virus scan stubbed
	Chunks       []Chunk   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (f *File) TableName() string {
	return "files"
}
