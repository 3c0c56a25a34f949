package repository

import (
	"github.com/procert/registry-backend/internal/models"
	"gorm.io/gorm"
)

type LimitsRepository struct {
	db *gorm.DB
}

func NewLimitsRepository(db *gorm.DB) *LimitsRepository {
	return &LimitsRepository{db: db}
}

// Get returns the singleton limits row, or gorm.ErrRecordNotFound when it
// has not been created yet.
func (r *LimitsRepository) Get() (*models.SystemLimits, error) {
	var limits models.SystemLimits
	err := r.db.First(&limits).Error
	if err != nil {
		return nil, err
	}
	return &limits, nil
}

func (r *LimitsRepository) Create(limits *models.SystemLimits) error {
	return r.db.Create(limits).Error
}

func (r *LimitsRepository) Update(limits *models.SystemLimits) error {
	return r.db.Save(limits).Error
}
