package repository

import (
	"github.com/launchbase/readiness-api/internal/model"
	"gorm.io/gorm"
)

type VentureRepository struct {
	db *gorm.DB
}

func NewVentureRepository(db *gorm.DB) *VentureRepository {
	return &VentureRepository{db}
}

func (r *VentureRepository) Create(venture *model.Venture) error {
	return r.db.Create(venture).Error
}

func (r *VentureRepository) FindByID(id string) (*model.Venture, error) {
	var venture model.Venture
	err := r.db.First(&venture, "id = ?", id).Error
	return &venture, err
}

func (r *VentureRepository) Update(venture *model.Venture) error {
	return r.db.Save(venture).Error
}
