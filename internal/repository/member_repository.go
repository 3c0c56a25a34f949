package repository

import (
	"github.com/procert/registry-backend/internal/models"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(member *models.Member) error {
	return r.db.Create(member).Error
}

func (r *MemberRepository) GetByID(id uint) (*models.Member, error) {
	var member models.Member
	err := r.db.First(&member, id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) GetByCode(code string) (*models.Member, error) {
	var member models.Member
	err := r.db.Where("code = ?", code).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) GetAll() ([]models.Member, error) {
	var members []models.Member
	err := r.db.Order("created_at DESC").Find(&members).Error
	return members, err
}

func (r *MemberRepository) GetActive() ([]models.Member, error) {
	var members []models.Member
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&members).Error
	return members, err
}

func (r *MemberRepository) Update(member *models.Member) error {
	return r.db.Save(member).Error
}

func (r *MemberRepository) Delete(id uint) error {
	return r.db.Delete(&models.Member{}, id).Error
}

func (r *MemberRepository) DeleteAll() (int64, error) {
	result := r.db.Where("1 = 1").Delete(&models.Member{})
	return result.RowsAffected, result.Error
}

func (r *MemberRepository) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Member{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// EmailExists reports whether another member already uses the email.
// excludeID lets updates skip the member being edited.
func (r *MemberRepository) EmailExists(email string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.Member{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *MemberRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *MemberRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).Count(&count).Error
	return count, err
}

func (r *MemberRepository) CountCardGenerated() (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).Where("card_generated = ?", true).Count(&count).Error
	return count, err
}
