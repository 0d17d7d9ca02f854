package repository

import (
	"errors"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品、商品报价与参数数据访问接口
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	GetOrCreateProduct(name string, categoryID uint) (*models.Product, error)
	CreateInfo(info *models.ProductInfo) error
	GetOrCreateParameter(name string) (*models.Parameter, error)
	CreateProductParameter(param *models.ProductParameter) error
	GetActiveInfo(id uint) (*models.ProductInfo, error)
	ListActiveInfos(filter ProductInfoListFilter) ([]models.ProductInfo, int64, error)
	ListShopInfoIDs(shopID uint) ([]uint, error)
	FilterReferencedByPlacedOrders(infoIDs []uint) ([]uint, error)
	ArchiveInfos(infoIDs []uint) (int64, error)
	DeleteInfos(infoIDs []uint) (int64, error)
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// GetOrCreateProduct 按 (名称, 分类) 获取或创建商品
func (r *GormProductRepository) GetOrCreateProduct(name string, categoryID uint) (*models.Product, error) {
	product := models.Product{}
	err := r.db.Where(models.Product{Name: name, CategoryID: categoryID}).FirstOrCreate(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateInfo 创建商品报价
func (r *GormProductRepository) CreateInfo(info *models.ProductInfo) error {
	return r.db.Omit("Product", "Shop", "Parameters").Create(info).Error
}

// GetOrCreateParameter 按名称获取或创建参数
func (r *GormProductRepository) GetOrCreateParameter(name string) (*models.Parameter, error) {
	param := models.Parameter{}
	if err := r.db.Where(models.Parameter{Name: name}).FirstOrCreate(&param).Error; err != nil {
		return nil, err
	}
	return &param, nil
}

// CreateProductParameter 写入商品报价参数值
func (r *GormProductRepository) CreateProductParameter(param *models.ProductParameter) error {
	return r.db.Omit("Parameter").Create(param).Error
}

// activeInfoQuery 仅包含接单中店铺的未归档报价
func (r *GormProductRepository) activeInfoQuery() *gorm.DB {
	return r.db.Model(&models.ProductInfo{}).
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Joins("JOIN products ON products.id = product_infos.product_id").
		Where("shops.state = ? AND product_infos.archived = ?", true, false)
}

func withInfoDetails(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Product.Category").
		Preload("Shop").
		Preload("Parameters", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_parameters.id ASC")
		}).
		Preload("Parameters.Parameter")
}

// GetActiveInfo 获取可下单的商品报价
func (r *GormProductRepository) GetActiveInfo(id uint) (*models.ProductInfo, error) {
	var info models.ProductInfo
	if err := r.activeInfoQuery().Where("product_infos.id = ?", id).First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

// ListActiveInfos 按商品名、店铺、分类筛选可见报价
func (r *GormProductRepository) ListActiveInfos(filter ProductInfoListFilter) ([]models.ProductInfo, int64, error) {
	query := r.activeInfoQuery()
	if filter.Name != "" {
		query = query.Where(buildContainsCondition(r.db, "products.name"), containsPattern(filter.Name))
	}
	if filter.ShopID != 0 {
		query = query.Where("product_infos.shop_id = ?", filter.ShopID)
	}
	if filter.CategoryID != 0 {
		query = query.Where("products.category_id = ?", filter.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = paginate(query, filter.Page, filter.PageSize)

	var infos []models.ProductInfo
	if err := withInfoDetails(query).Order("product_infos.id ASC").Find(&infos).Error; err != nil {
		return nil, 0, err
	}
	return infos, total, nil
}

// ListShopInfoIDs 列出店铺全部未归档报价 ID
func (r *GormProductRepository) ListShopInfoIDs(shopID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.ProductInfo{}).
		Where("shop_id = ? AND archived = ?", shopID, false).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// FilterReferencedByPlacedOrders 返回被已下单（非购物车）订单引用的报价 ID
func (r *GormProductRepository) FilterReferencedByPlacedOrders(infoIDs []uint) ([]uint, error) {
	if len(infoIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.Model(&models.OrderItem{}).
		Distinct("order_items.product_info_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.state <> ? AND order_items.product_info_id IN ?", constants.OrderStateBasket, infoIDs).
		Pluck("order_items.product_info_id", &ids).Error
	return ids, err
}

// ArchiveInfos 归档报价：不再展示、不可加入购物车，但保留给历史订单
func (r *GormProductRepository) ArchiveInfos(infoIDs []uint) (int64, error) {
	if len(infoIDs) == 0 {
		return 0, nil
	}
	if err := r.deleteBasketItems(infoIDs); err != nil {
		return 0, err
	}
	result := r.db.Model(&models.ProductInfo{}).Where("id IN ?", infoIDs).Update("archived", true)
	return result.RowsAffected, result.Error
}

// DeleteInfos 删除报价及其参数值、购物车中的引用
func (r *GormProductRepository) DeleteInfos(infoIDs []uint) (int64, error) {
	if len(infoIDs) == 0 {
		return 0, nil
	}
	if err := r.db.Where("product_info_id IN ?", infoIDs).Delete(&models.ProductParameter{}).Error; err != nil {
		return 0, err
	}
	if err := r.deleteBasketItems(infoIDs); err != nil {
		return 0, err
	}
	result := r.db.Where("id IN ?", infoIDs).Delete(&models.ProductInfo{})
	return result.RowsAffected, result.Error
}

func (r *GormProductRepository) deleteBasketItems(infoIDs []uint) error {
	return r.db.Where("product_info_id IN ? AND order_id IN (?)", infoIDs,
		r.db.Model(&models.Order{}).Select("id").Where("state = ?", constants.OrderStateBasket),
	).Delete(&models.OrderItem{}).Error
}
