package repository

import (
	"github.com/procert/registry-backend/internal/models"
	"gorm.io/gorm"
)

type CertificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

func (r *CertificateRepository) Create(cert *models.Certificate) error {
	return r.db.Create(cert).Error
}

func (r *CertificateRepository) GetByID(id uint) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.db.First(&cert, id).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) GetByNumber(number string) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.db.Where("number = ?", number).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) GetAll() ([]models.Certificate, error) {
	var certs []models.Certificate
	err := r.db.Order("created_at DESC").Find(&certs).Error
	return certs, err
}

func (r *CertificateRepository) Update(cert *models.Certificate) error {
	return r.db.Save(cert).Error
}

func (r *CertificateRepository) Delete(id uint) error {
	return r.db.Delete(&models.Certificate{}, id).Error
}

// BulkDelete removes certificates matching any of the ids or numbers in a
// single statement.
func (r *CertificateRepository) BulkDelete(ids []uint, numbers []string) (int64, error) {
	if len(ids) == 0 && len(numbers) == 0 {
		return 0, nil
	}

	query := r.db
	switch {
	case len(ids) > 0 && len(numbers) > 0:
		query = query.Where("id IN ? OR number IN ?", ids, numbers)
	case len(ids) > 0:
		query = query.Where("id IN ?", ids)
	default:
		query = query.Where("number IN ?", numbers)
	}

	result := query.Delete(&models.Certificate{})
	return result.RowsAffected, result.Error
}

// CountLive counts certificates that occupy capacity (everything except
// revoked ones).
func (r *CertificateRepository) CountLive() (int64, error) {
	var count int64
	err := r.db.Model(&models.Certificate{}).
		Where("status <> ?", models.CertificateStatusRevoked).
		Count(&count).Error
	return count, err
}

func (r *CertificateRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Certificate{}).Count(&count).Error
	return count, err
}

func (r *CertificateRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Certificate{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
