package repository

import (
	"github.com/launchbase/readiness-api/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.db.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id string) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.First(&submission, "id = ?", id).Error
	return &submission, err
}

// FindLatestByVenture returns the most recent submission for a venture.
// Most readers only care about this one; older submissions are kept but
// unused.
func (r *SubmissionRepository) FindLatestByVenture(ventureID string) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.
		Where("venture_id = ?", ventureID).
		Order("created_at DESC").
		First(&submission).Error
	return &submission, err
}

// FindOpenByVenture returns the newest submission still accepting files.
func (r *SubmissionRepository) FindOpenByVenture(ventureID string) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.
		Where("venture_id = ? AND status = ?", ventureID, model.SubmissionPending).
		Order("created_at DESC").
		First(&submission).Error
	return &submission, err
}

func (r *SubmissionRepository) UpdateStatus(id string, status string) error {
	return r.db.Model(&model.Submission{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *SubmissionRepository) Delete(id string) error {
	return r.db.Delete(&model.Submission{}, "id = ?", id).Error
}
