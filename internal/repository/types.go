package repository

import "gorm.io/gorm"

// maxPageSize 单页条数上限
const maxPageSize = 100

// paginate 追加 LIMIT/OFFSET；pageSize<=0 表示不分页，页码小于 1 按第一页处理
func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// ProductInfoListFilter 查询商品报价列表的过滤条件
type ProductInfoListFilter struct {
	Page       int
	PageSize   int
	Name       string // 商品名包含匹配
	ShopID     uint
	CategoryID uint
}

// ShopListFilter 查询店铺列表的过滤条件
type ShopListFilter struct {
	Page     int
	PageSize int
}

// CategoryListFilter 查询分类列表的过滤条件
type CategoryListFilter struct {
	Page     int
	PageSize int
}
