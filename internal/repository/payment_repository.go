package repository

import (
	"github.com/procert/registry-backend/internal/models"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByReference(reference string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("reference = ?", reference).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).Update("status", status).Error
}

func (r *PaymentRepository) GetHistory() ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Order("created_at DESC").Find(&payments).Error
	return payments, err
}

// GetLatestByType returns the most recent payment of the given type.
func (r *PaymentRepository) GetLatestByType(paymentType string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("payment_type = ?", paymentType).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).Count(&count).Error
	return count, err
}
