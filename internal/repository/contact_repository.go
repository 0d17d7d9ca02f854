package repository

import (
	"errors"

	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
)

// ContactRepository 联系方式数据访问接口
type ContactRepository interface {
	ListByUser(userID uint) ([]models.Contact, error)
	GetByIDAndUser(id, userID uint) (*models.Contact, error)
	Create(contact *models.Contact) error
	UpdateFields(contact *models.Contact, fields map[string]interface{}) error
	DeleteByIDsAndUser(ids []uint, userID uint) (int64, error)
}

// GormContactRepository GORM 实现
type GormContactRepository struct {
	db *gorm.DB
}

// NewContactRepository 创建联系方式仓库
func NewContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// ListByUser 列出用户的联系方式
func (r *GormContactRepository) ListByUser(userID uint) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// GetByIDAndUser 获取属于用户的联系方式
func (r *GormContactRepository) GetByIDAndUser(id, userID uint) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

// Create 创建联系方式
func (r *GormContactRepository) Create(contact *models.Contact) error {
	return r.db.Create(contact).Error
}

// UpdateFields 部分更新联系方式，未给出的字段保持不变
func (r *GormContactRepository) UpdateFields(contact *models.Contact, fields map[string]interface{}) error {
	if contact == nil || len(fields) == 0 {
		return nil
	}
	return r.db.Model(contact).Updates(fields).Error
}

// DeleteByIDsAndUser 批量删除属于用户的联系方式
func (r *GormContactRepository) DeleteByIDsAndUser(ids []uint, userID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.Contact{})
	return result.RowsAffected, result.Error
}
