package repository

import (
	"errors"

	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	GetByID(id uint) (*models.Category, error)
	Upsert(category *models.Category) error
	ListForOpenShops(filter CategoryListFilter) ([]models.Category, int64, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCategoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	if tx == nil {
		return r
	}
	return &GormCategoryRepository{db: tx}
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// Upsert 按 ID 创建分类，已存在时更新名称
func (r *GormCategoryRepository) Upsert(category *models.Category) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(category).Error
}

// ListForOpenShops 列出至少被一个接单中店铺关联的分类
func (r *GormCategoryRepository) ListForOpenShops(filter CategoryListFilter) ([]models.Category, int64, error) {
	query := r.db.Model(&models.Category{}).
		Where("id IN (?)", r.db.Table("shop_categories").
			Select("shop_categories.category_id").
			Joins("JOIN shops ON shops.id = shop_categories.shop_id").
			Where("shops.state = ?", true))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = paginate(query, filter.Page, filter.PageSize)

	var categories []models.Category
	if err := query.Order("name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}
