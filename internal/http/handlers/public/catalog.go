package public

import (
	"strings"

	handlershared "github.com/orders-next/internal/http/handlers/shared"
	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	categories, total, err := h.CatalogQueryService.Categories(repository.CategoryListFilter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.DataWithPage(c, categories, response.NewPagination(page, pageSize, total))
}

// ListShops 营业中的店铺列表
func (h *Handler) ListShops(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	shops, total, err := h.CatalogQueryService.Shops(repository.ShopListFilter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.DataWithPage(c, shops, response.NewPagination(page, pageSize, total))
}

// ListProducts 商品报价列表，支持按名称、店铺与分类过滤
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	infos, total, err := h.CatalogQueryService.Products(repository.ProductInfoListFilter{
		Page:       page,
		PageSize:   pageSize,
		Name:       strings.TrimSpace(c.Query("product__name")),
		ShopID:     handlershared.QueryUint(c, "shop_id"),
		CategoryID: handlershared.QueryUint(c, "product__category_id"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.DataWithPage(c, infos, response.NewPagination(page, pageSize, total))
}
