package models

import "time"

// Shop 供应商店铺
type Shop struct {
	ID        uint      `gorm:"primarykey" json:"id"`                              // 主键
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`                     // 所属供应商
	Name      string    `gorm:"type:varchar(128);not null" json:"name"`            // 店铺名
	URL       string    `gorm:"type:varchar(512);not null;default:''" json:"url"`  // 最近一次导入的目录地址
	State     bool      `gorm:"not null;index" json:"state"`                       // 是否接单
	CreatedAt time.Time `json:"created_at"`                                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                        // 更新时间

	Categories []Category `gorm:"many2many:shop_categories" json:"categories,omitempty"` // 经营分类
}

// TableName 指定表名
func (Shop) TableName() string {
	return "shops"
}

// Category 商品分类，ID 由供应商目录给定
type Category struct {
	ID   uint   `gorm:"primarykey;autoIncrement:false" json:"id"` // 主键
	Name string `gorm:"type:varchar(128);not null" json:"name"`    // 名称

	Shops []Shop `gorm:"many2many:shop_categories" json:"-"` // 关联店铺
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// Product 商品（名称 + 分类）
type Product struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                                          // 主键
	Name       string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_products_name_category" json:"name"`  // 名称
	CategoryID uint      `gorm:"not null;uniqueIndex:ux_products_name_category" json:"category_id"`             // 分类ID
	CreatedAt  time.Time `json:"-"`                                                                             // 创建时间

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 关联分类
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductInfo 店铺维度的商品报价
type ProductInfo struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                    // 主键
	ProductID  uint      `gorm:"index;not null" json:"product_id"`                        // 商品ID
	ShopID     uint      `gorm:"index;not null" json:"shop_id"`                           // 店铺ID
	ExternalID uint64    `gorm:"not null" json:"external_id"`                             // 供应商侧编号
	Model      string    `gorm:"type:varchar(255);not null;default:''" json:"model"`      // 型号
	Price      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`      // 价格
	PriceRRC   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price_rrc"`  // 建议零售价
	Quantity   int       `gorm:"not null;default:0" json:"quantity"`                      // 库存
	Archived   bool      `gorm:"not null;default:false;index" json:"-"`                   // 已归档（被历史订单引用，目录刷新后保留）
	CreatedAt  time.Time `json:"-"`                                                       // 创建时间
	UpdatedAt  time.Time `json:"-"`                                                       // 更新时间

	Product    *Product           `gorm:"foreignKey:ProductID" json:"product,omitempty"`         // 关联商品
	Shop       *Shop              `gorm:"foreignKey:ShopID" json:"shop,omitempty"`               // 关联店铺
	Parameters []ProductParameter `gorm:"foreignKey:ProductInfoID" json:"product_parameters"`    // 参数
}

// TableName 指定表名
func (ProductInfo) TableName() string {
	return "product_infos"
}

// Parameter 参数名字典
type Parameter struct {
	ID   uint   `gorm:"primarykey" json:"id"`                               // 主键
	Name string `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"` // 名称
}

// TableName 指定表名
func (Parameter) TableName() string {
	return "parameters"
}

// ProductParameter 商品报价的参数值
type ProductParameter struct {
	ID            uint   `gorm:"primarykey" json:"-"`                                                 // 主键
	ProductInfoID uint   `gorm:"not null;uniqueIndex:ux_product_parameters_pair" json:"-"`            // 商品报价ID
	ParameterID   uint   `gorm:"not null;uniqueIndex:ux_product_parameters_pair" json:"-"`            // 参数ID
	Value         string `gorm:"type:varchar(255);not null;default:''" json:"value"`                  // 参数值

	Parameter *Parameter `gorm:"foreignKey:ParameterID" json:"parameter,omitempty"` // 关联参数
}

// TableName 指定表名
func (ProductParameter) TableName() string {
	return "product_parameters"
}
