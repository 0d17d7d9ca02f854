package service

import (
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"
)

// CatalogQueryService 分类、店铺、商品只读视图
type CatalogQueryService struct {
	categoryRepo repository.CategoryRepository
	shopRepo     repository.ShopRepository
	productRepo  repository.ProductRepository
}

// NewCatalogQueryService 创建只读视图服务
func NewCatalogQueryService(categoryRepo repository.CategoryRepository, shopRepo repository.ShopRepository, productRepo repository.ProductRepository) *CatalogQueryService {
	return &CatalogQueryService{
		categoryRepo: categoryRepo,
		shopRepo:     shopRepo,
		productRepo:  productRepo,
	}
}

// Categories 至少关联一个接单店铺的分类
func (s *CatalogQueryService) Categories(filter repository.CategoryListFilter) ([]models.Category, int64, error) {
	return s.categoryRepo.ListForOpenShops(filter)
}

// Shops 接单中的店铺
func (s *CatalogQueryService) Shops(filter repository.ShopListFilter) ([]models.Shop, int64, error) {
	return s.shopRepo.ListOpen(filter)
}

// Products 可下单的商品报价
func (s *CatalogQueryService) Products(filter repository.ProductInfoListFilter) ([]models.ProductInfo, int64, error) {
	return s.productRepo.ListActiveInfos(filter)
}
