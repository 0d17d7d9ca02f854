package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单表；state=basket 的订单即用户购物车
type Order struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                 // 主键
	UserID    uint      `gorm:"index;not null" json:"-"`                              // 所属用户
	State     string    `gorm:"type:varchar(16);index;not null" json:"state"`         // 订单状态
	ContactID *uint     `gorm:"index" json:"contact_id"`                              // 收货联系方式（离开购物车后必填）
	CreatedAt time.Time `gorm:"index" json:"dt"`                                      // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                           // 更新时间

	Contact  *Contact    `gorm:"foreignKey:ContactID" json:"contact,omitempty"`                          // 关联联系方式
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"ordered_items"`    // 订单项
	TotalSum Money       `gorm:"-" json:"total_sum"`                                                     // 合计（派生字段）
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// ComputeTotal 按已加载的订单项计算 Σ(数量 × 单价)
func (o *Order) ComputeTotal() Money {
	total := decimal.Zero
	for _, item := range o.Items {
		if item.ProductInfo == nil {
			continue
		}
		total = total.Add(item.ProductInfo.Price.Mul(item.Quantity).Decimal)
	}
	o.TotalSum = NewMoneyFromDecimal(total)
	return o.TotalSum
}

// OrderItem 订单项
type OrderItem struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                                        // 主键
	OrderID       uint      `gorm:"not null;uniqueIndex:ux_order_items_order_product_info" json:"-"`             // 订单ID
	ProductInfoID uint      `gorm:"not null;index;uniqueIndex:ux_order_items_order_product_info" json:"product_info_id"` // 商品报价ID
	Quantity      int       `gorm:"not null" json:"quantity"`                                                    // 数量
	CreatedAt     time.Time `json:"-"`                                                                           // 创建时间
	UpdatedAt     time.Time `json:"-"`                                                                           // 更新时间

	ProductInfo *ProductInfo `gorm:"foreignKey:ProductInfoID" json:"product_info,omitempty"` // 关联商品报价
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
