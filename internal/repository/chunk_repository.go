package repository

import (
	"github.com/launchbase/readiness-api/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db}
}

func (r *ChunkRepository) Create(chunk *model.Chunk) error {
	return r.db.Create(chunk).Error
}

// FindBySubmissionAndDimension returns the submission's chunks tagged
// with the given dimension, oldest first.
func (r *ChunkRepository) FindBySubmissionAndDimension(submissionID string, dimension string) ([]model.Chunk, error) {
	var chunks []model.Chunk
	err := r.db.Raw(`
        SELECT chunks.*
        FROM chunks
        JOIN files ON files.id = chunks.file_id
        WHERE files.submission_id = ?
          AND chunks.dimensions @> to_jsonb(?::text)
        ORDER BY chunks.created_at ASC
    `, submissionID, dimension).Scan(&chunks).Error
	return chunks, err
}

// SearchSimilar runs a pgvector nearest-neighbour query over all chunks
// belonging to a venture, optionally narrowed to one dimension tag.
func (r *ChunkRepository) SearchSimilar(embedding pgvector.Vector, ventureID string, dimension string, topK int) ([]model.Chunk, error) {
	var chunks []model.Chunk

	query := `
        SELECT chunks.*, chunks.embedding <-> ? AS distance
        FROM chunks
        JOIN files ON files.id = chunks.file_id
        JOIN submissions ON submissions.id = files.submission_id
        WHERE submissions.venture_id = ?`
	args := []interface{}{embedding, ventureID}

	if dimension != "" {
		query += `
          AND chunks.dimensions @> to_jsonb(?::text)`
		args = append(args, dimension)
	}
	query += `
        ORDER BY chunks.embedding <-> ?
        LIMIT ?`
	args = append(args, embedding, topK)

	err := r.db.Raw(query, args...).Scan(&chunks).Error
	return chunks, err
}

func (r *ChunkRepository) CountByFile(fileID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Chunk{}).
		Where("file_id = ?", fileID).
		Count(&count).Error
	return count, err
}
