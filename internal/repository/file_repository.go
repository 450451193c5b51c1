package repository

import (
	"github.com/launchbase/readiness-api/internal/model"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db}
}

func (r *FileRepository) Create(file *model.File) error {
	return r.db.Create(file).Error
}

func (r *FileRepository) FindByID(id string) (*model.File, error) {
	var file model.File
	err := r.db.First(&file, "id = ?", id).Error
	return &file, err
}

func (r *FileRepository) FindBySubmission(submissionID string) ([]model.File, error) {
	var files []model.File
	err := r.db.
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&files).Error
	return files, err
}

func (r *FileRepository) CountBySubmission(submissionID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.File{}).
		Where("submission_id = ?", submissionID).
		Count(&count).Error
	return count, err
}

// Delete removes the file row; chunks go with it via the FK cascade.
func (r *FileRepository) Delete(id string) error {
	return r.db.Delete(&model.File{}, "id = ?", id).Error
}
