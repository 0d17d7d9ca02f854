package repository

import (
	"errors"

	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShopRepository 店铺数据访问接口
type ShopRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ShopRepository
	GetByUserID(userID uint) (*models.Shop, error)
	GetByUserIDForUpdate(userID uint) (*models.Shop, error)
	Create(shop *models.Shop) error
	UpdateFields(id uint, fields map[string]interface{}) error
	SetStateByUser(userID uint, state bool) (int64, error)
	AttachCategory(shop *models.Shop, category *models.Category) error
	ListOpen(filter ShopListFilter) ([]models.Shop, int64, error)
}

// GormShopRepository GORM 实现
type GormShopRepository struct {
	db *gorm.DB
}

// NewShopRepository 创建店铺仓库
func NewShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// Transaction 执行事务
func (r *GormShopRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// WithTx 绑定事务
func (r *GormShopRepository) WithTx(tx *gorm.DB) ShopRepository {
	if tx == nil {
		return r
	}
	return &GormShopRepository{db: tx}
}

// GetByUserID 获取供应商的店铺
func (r *GormShopRepository) GetByUserID(userID uint) (*models.Shop, error) {
	return r.first(r.db.Where("user_id = ?", userID))
}

// GetByUserIDForUpdate 加行锁获取供应商的店铺（sqlite 忽略锁子句）
func (r *GormShopRepository) GetByUserIDForUpdate(userID uint) (*models.Shop, error) {
	return r.first(r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID))
}

func (r *GormShopRepository) first(query *gorm.DB) (*models.Shop, error) {
	var shop models.Shop
	if err := query.First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shop, nil
}

// Create 创建店铺
func (r *GormShopRepository) Create(shop *models.Shop) error {
	return r.db.Create(shop).Error
}

// UpdateFields 按字段更新店铺
func (r *GormShopRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Shop{}).Where("id = ?", id).Updates(fields).Error
}

// SetStateByUser 切换供应商店铺的接单状态
func (r *GormShopRepository) SetStateByUser(userID uint, state bool) (int64, error) {
	result := r.db.Model(&models.Shop{}).Where("user_id = ?", userID).Update("state", state)
	return result.RowsAffected, result.Error
}

// AttachCategory 关联分类，重复关联不产生新记录
func (r *GormShopRepository) AttachCategory(shop *models.Shop, category *models.Category) error {
	return r.db.Model(shop).Omit("Categories.*").Association("Categories").Append(category)
}

// ListOpen 列出接单中的店铺
func (r *GormShopRepository) ListOpen(filter ShopListFilter) ([]models.Shop, int64, error) {
	query := r.db.Model(&models.Shop{}).Where("state = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = paginate(query, filter.Page, filter.PageSize)

	var shops []models.Shop
	if err := query.Order("name ASC, id ASC").Find(&shops).Error; err != nil {
		return nil, 0, err
	}
	return shops, total, nil
}
