package repository

import (
	"time"

	"github.com/launchbase/readiness-api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db}
}

func (r *AssessmentRepository) CreateAgentRun(run *model.AgentRun) error {
	return r.db.Create(run).Error
}

// UpsertScore inserts or overwrites the score for a (venture, dimension)
// pair. The unique index on those columns is the conflict target, so at
// most one row per pair ever exists.
func (r *AssessmentRepository) UpsertScore(score *model.Score) error {
	score.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "venture_id"}, {Name: "dimension"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"level", "confidence", "updated_at",
		}),
	}).Create(score).Error
}

func (r *AssessmentRepository) CreateRecommendations(recommendations []model.Recommendation) error {
	if len(recommendations) == 0 {
		return nil
	}
	return r.db.Create(&recommendations).Error
}

func (r *AssessmentRepository) FindScoresByVenture(ventureID string) ([]model.Score, error) {
	var scores []model.Score
	err := r.db.
		Where("venture_id = ?", ventureID).
		Order("dimension ASC").
		Find(&scores).Error
	return scores, err
}

func (r *AssessmentRepository) FindRecommendationsByVenture(ventureID string, offset, limit int) ([]model.Recommendation, error) {
	var recommendations []model.Recommendation
	err := r.db.
		Where("venture_id = ?", ventureID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&recommendations).Error
	return recommendations, err
}

func (r *AssessmentRepository) CountRecommendationsByVenture(ventureID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Recommendation{}).
		Where("venture_id = ?", ventureID).
		Count(&count).Error
	return count, err
}

// FindLatestRunsBySubmission returns the newest agent run per dimension
// for a submission. Runs are append-only; the latest row wins.
func (r *AssessmentRepository) FindLatestRunsBySubmission(submissionID string) ([]model.AgentRun, error) {
	var runs []model.AgentRun
	err := r.db.Raw(`
        SELECT DISTINCT ON (dimension) *
        FROM agent_runs
        WHERE submission_id = ?
        ORDER BY dimension, created_at DESC
    `, submissionID).Scan(&runs).Error
	return runs, err
}
