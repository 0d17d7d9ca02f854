package repository

import (
	"errors"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单与购物车数据访问接口
type OrderRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
	GetBasket(userID uint) (*models.Order, error)
	GetOrCreateBasket(userID uint) (*models.Order, error)
	AddItem(item *models.OrderItem) error
	UpdateItemQuantity(orderID, itemID uint, quantity int) (int64, error)
	DeleteItems(orderID uint, itemIDs []uint) (int64, error)
	CountItems(orderID uint) (int64, error)
	PlaceBasket(orderID, userID, contactID uint) (int64, error)
	GetByID(id uint) (*models.Order, error)
	GetPlacedByIDAndUser(id, userID uint) (*models.Order, error)
	ListPlacedByUser(userID uint) ([]models.Order, error)
	ListPlacedByShop(shopID uint) ([]models.Order, error)
	ResolveReceiverEmailByOrderID(orderID uint) (string, error)
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// withDetails 预加载订单项、商品、分类、店铺与参数
func withDetails(query *gorm.DB, itemScope func(*gorm.DB) *gorm.DB) *gorm.DB {
	return query.
		Preload("Contact").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			if itemScope != nil {
				db = itemScope(db)
			}
			return db.Order("order_items.id ASC")
		}).
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.Shop").
		Preload("Items.ProductInfo.Parameters.Parameter")
}

func (r *GormOrderRepository) findBasket(userID uint, details bool) (*models.Order, error) {
	query := r.db.Where("user_id = ? AND state = ?", userID, constants.OrderStateBasket)
	if details {
		query = withDetails(query, nil)
	}
	var order models.Order
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetBasket 获取用户购物车详情，不存在时返回 nil
func (r *GormOrderRepository) GetBasket(userID uint) (*models.Order, error) {
	return r.findBasket(userID, true)
}

// GetOrCreateBasket 获取或创建用户购物车；并发创建由部分唯一索引兜底，冲突方重新读取
func (r *GormOrderRepository) GetOrCreateBasket(userID uint) (*models.Order, error) {
	basket, err := r.findBasket(userID, false)
	if err != nil || basket != nil {
		return basket, err
	}
	basket = &models.Order{UserID: userID, State: constants.OrderStateBasket}
	if err := r.db.Omit("Contact", "Items").Create(basket).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.findBasket(userID, false)
		}
		return nil, err
	}
	return basket, nil
}

// AddItem 写入订单项，(订单, 报价) 重复时返回 gorm.ErrDuplicatedKey
func (r *GormOrderRepository) AddItem(item *models.OrderItem) error {
	return r.db.Omit("ProductInfo").Create(item).Error
}

// UpdateItemQuantity 更新订单内指定订单项的数量
func (r *GormOrderRepository) UpdateItemQuantity(orderID, itemID uint, quantity int) (int64, error) {
	result := r.db.Model(&models.OrderItem{}).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Update("quantity", quantity)
	return result.RowsAffected, result.Error
}

// DeleteItems 删除订单内的订单项
func (r *GormOrderRepository) DeleteItems(orderID uint, itemIDs []uint) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	result := r.db.Where("order_id = ? AND id IN ?", orderID, itemIDs).Delete(&models.OrderItem{})
	return result.RowsAffected, result.Error
}

// CountItems 统计订单项数量
func (r *GormOrderRepository) CountItems(orderID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&count).Error
	return count, err
}

// PlaceBasket 单条语句将用户购物车转为新订单并绑定联系方式
func (r *GormOrderRepository) PlaceBasket(orderID, userID, contactID uint) (int64, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND user_id = ? AND state = ?", orderID, userID, constants.OrderStateBasket).
		Updates(map[string]interface{}{
			"contact_id": contactID,
			"state":      constants.OrderStateNew,
		})
	return result.RowsAffected, result.Error
}

// GetByID 获取订单详情
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := withDetails(r.db, nil).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetPlacedByIDAndUser 获取用户已下单的订单详情
func (r *GormOrderRepository) GetPlacedByIDAndUser(id, userID uint) (*models.Order, error) {
	var order models.Order
	err := withDetails(r.db, nil).
		Where("id = ? AND user_id = ? AND state <> ?", id, userID, constants.OrderStateBasket).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListPlacedByUser 列出用户已下单的订单，最新在前
func (r *GormOrderRepository) ListPlacedByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := withDetails(r.db, nil).
		Where("user_id = ? AND state <> ?", userID, constants.OrderStateBasket).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// ListPlacedByShop 列出包含店铺商品的已下单订单，订单项仅保留该店铺的部分
func (r *GormOrderRepository) ListPlacedByShop(shopID uint) ([]models.Order, error) {
	shopInfoIDs := func() *gorm.DB {
		return r.db.Model(&models.ProductInfo{}).Select("id").Where("shop_id = ?", shopID)
	}
	var orders []models.Order
	err := withDetails(r.db, func(db *gorm.DB) *gorm.DB {
		return db.Where("order_items.product_info_id IN (?)", shopInfoIDs())
	}).
		Where("state <> ? AND id IN (?)", constants.OrderStateBasket,
			r.db.Model(&models.OrderItem{}).Select("order_id").Where("product_info_id IN (?)", shopInfoIDs())).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// ResolveReceiverEmailByOrderID 解析订单通知收件邮箱
func (r *GormOrderRepository) ResolveReceiverEmailByOrderID(orderID uint) (string, error) {
	var emails []string
	err := r.db.Model(&models.User{}).
		Joins("JOIN orders ON orders.user_id = users.id").
		Where("orders.id = ?", orderID).
		Limit(1).
		Pluck("users.email", &emails).Error
	if err != nil || len(emails) == 0 {
		return "", err
	}
	return emails[0], nil
}
