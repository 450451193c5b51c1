package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Chunk is an immutable text segment derived from one file. Dimensions
// holds the relevance tags as a JSON string array; Embedding is the
// pgvector column used for similarity search.
type Chunk struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FileID     uuid.UUID       `gorm:"type:uuid;index" json:"file_id"`
	Content    string          `gorm:"type:text" json:"content"`
	SourceRef  string          `gorm:"type:text" json:"source_ref"`
	Dimensions datatypes.JSON  `gorm:"type:jsonb" json:"dimensions"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (c *Chunk) TableName() string {
	return "chunks"
}
