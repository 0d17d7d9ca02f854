package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	defaultCatalogFetchTimeout = 15 * time.Second
	defaultCatalogMaxBytes     = 8 << 20
)

// ImportResult 目录导入结果
type ImportResult struct {
	ShopID     uint  `json:"shop_id"`
	Categories int   `json:"categories"`
	Goods      int   `json:"goods"`
	Archived   int64 `json:"archived"`
	Removed    int64 `json:"removed"`
}

// CatalogService 供应商目录导入
type CatalogService struct {
	cfg          config.CatalogConfig
	shopRepo     repository.ShopRepository
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	httpClient   *http.Client
	validate     *validator.Validate
}

// NewCatalogService 创建目录导入服务
func NewCatalogService(cfg config.CatalogConfig, shopRepo repository.ShopRepository, categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *CatalogService {
	timeout := defaultCatalogFetchTimeout
	if cfg.FetchTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	}
	return &CatalogService{
		cfg:          cfg,
		shopRepo:     shopRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		httpClient:   &http.Client{Timeout: timeout},
		validate:     validator.New(),
	}
}

// SetHTTPClient 替换拉取目录使用的 HTTP 客户端
func (s *CatalogService) SetHTTPClient(client *http.Client) {
	if client != nil {
		s.httpClient = client
	}
}

// ImportFromURL 拉取供应商目录并整体替换店铺商品
func (s *CatalogService) ImportFromURL(ctx context.Context, userID uint, userType, rawURL string) (*ImportResult, error) {
	if userType != constants.UserTypeShop {
		return nil, ErrForbiddenUserType
	}
	rawURL = strings.TrimSpace(rawURL)
	if err := s.validate.Var(rawURL, "required,url"); err != nil {
		return nil, ErrCatalogURLInvalid
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, ErrCatalogURLInvalid
	}

	body, err := s.fetch(ctx, parsed.String())
	if err != nil {
		logger.FromContext(ctx).Warnw("catalog_fetch_failed", "user_id", userID, "url", rawURL, "error", err)
		return nil, err
	}
	return s.ImportDocument(ctx, userID, bytes.NewReader(body), rawURL)
}

// ImportDocument 从已读取的目录文档替换店铺商品
func (s *CatalogService) ImportDocument(ctx context.Context, userID uint, r io.Reader, sourceURL string) (*ImportResult, error) {
	doc, err := ParseCatalog(r)
	if err != nil {
		return nil, err
	}
	result, err := s.replace(ctx, userID, doc, sourceURL)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infow("catalog_import_done",
		"user_id", userID,
		"shop_id", result.ShopID,
		"categories", result.Categories,
		"goods", result.Goods,
		"archived", result.Archived,
		"removed", result.Removed,
	)
	return result, nil
}

func (s *CatalogService) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogFetchFailed, err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrCatalogFetchFailed, resp.StatusCode)
	}

	limit := s.cfg.MaxBytes
	if limit <= 0 {
		limit = defaultCatalogMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogFetchFailed, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrCatalogFetchFailed, limit)
	}
	return body, nil
}

// replace 单事务内更新店铺与分类，归档被已下单订单引用的旧报价，删除其余旧报价后写入新商品
func (s *CatalogService) replace(ctx context.Context, userID uint, doc *CatalogDocument, sourceURL string) (*ImportResult, error) {
	result := &ImportResult{Categories: len(doc.Categories), Goods: len(doc.Goods)}
	err := s.shopRepo.Transaction(func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)
		shopRepo := s.shopRepo.WithTx(tx)
		categoryRepo := s.categoryRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		shop, err := shopRepo.GetByUserIDForUpdate(userID)
		if err != nil {
			return err
		}
		shopName := strings.TrimSpace(doc.Shop)
		if shop == nil {
			shop = &models.Shop{UserID: userID, Name: shopName, URL: sourceURL, State: true}
			if err := shopRepo.Create(shop); err != nil {
				return translateDBError(err)
			}
		} else {
			fields := map[string]interface{}{"name": shopName}
			if sourceURL != "" {
				fields["url"] = sourceURL
			}
			if err := shopRepo.UpdateFields(shop.ID, fields); err != nil {
				return err
			}
		}
		result.ShopID = shop.ID

		for _, item := range doc.Categories {
			category := &models.Category{ID: *item.ID, Name: strings.TrimSpace(item.Name)}
			if err := categoryRepo.Upsert(category); err != nil {
				return translateDBError(err)
			}
			if err := shopRepo.AttachCategory(shop, category); err != nil {
				return translateDBError(err)
			}
		}

		previous, err := productRepo.ListShopInfoIDs(shop.ID)
		if err != nil {
			return err
		}
		referenced, err := productRepo.FilterReferencedByPlacedOrders(previous)
		if err != nil {
			return err
		}
		if result.Archived, err = productRepo.ArchiveInfos(referenced); err != nil {
			return err
		}
		if result.Removed, err = productRepo.DeleteInfos(subtractIDs(previous, referenced)); err != nil {
			return translateDBError(err)
		}

		for _, good := range doc.Goods {
			if err := createGood(productRepo, shop.ID, good); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func createGood(productRepo repository.ProductRepository, shopID uint, good CatalogGood) error {
	product, err := productRepo.GetOrCreateProduct(strings.TrimSpace(good.Name), *good.Category)
	if err != nil {
		return translateDBError(err)
	}
	info := &models.ProductInfo{
		ProductID:  product.ID,
		ShopID:     shopID,
		ExternalID: *good.ID,
		Model:      strings.TrimSpace(good.Model),
		Price:      good.Price,
		PriceRRC:   good.PriceRRC,
		Quantity:   good.Quantity,
	}
	if err := productRepo.CreateInfo(info); err != nil {
		return translateDBError(err)
	}
	for _, param := range good.Parameters {
		parameter, err := productRepo.GetOrCreateParameter(strings.TrimSpace(param.Name))
		if err != nil {
			return translateDBError(err)
		}
		if err := productRepo.CreateProductParameter(&models.ProductParameter{
			ProductInfoID: info.ID,
			ParameterID:   parameter.ID,
			Value:         param.Value,
		}); err != nil {
			return translateDBError(err)
		}
	}
	return nil
}

func subtractIDs(all, exclude []uint) []uint {
	if len(exclude) == 0 {
		return all
	}
	skip := make(map[uint]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	rest := make([]uint, 0, len(all))
	for _, id := range all {
		if _, ok := skip[id]; !ok {
			rest = append(rest, id)
		}
	}
	return rest
}
