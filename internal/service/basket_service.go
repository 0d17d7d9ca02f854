package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"

	"gorm.io/gorm"
)

// BasketService 购物车
type BasketService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewBasketService 创建购物车服务
func NewBasketService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *BasketService {
	return &BasketService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// BasketItemFailure 单条加购失败
type BasketItemFailure struct {
	Index       int
	ProductInfo uint
	Err         error
}

// AddItemsResult 批量加购结果
type AddItemsResult struct {
	Created  int
	Failures []BasketItemFailure
}

// Get 获取购物车详情；用户没有购物车时返回空购物车且不落库
func (s *BasketService) Get(userID uint) (*models.Order, error) {
	basket, err := s.orderRepo.GetBasket(userID)
	if err != nil {
		return nil, err
	}
	if basket == nil {
		basket = &models.Order{UserID: userID, State: constants.OrderStateBasket, Items: []models.OrderItem{}}
	}
	basket.ComputeTotal()
	return basket, nil
}

// AddItems 逐条加购，单条失败不影响其余条目
func (s *BasketService) AddItems(userID uint, raw string) (*AddItemsResult, error) {
	entries, err := decodeItemEntries(raw)
	if err != nil {
		return nil, err
	}
	basket, err := s.orderRepo.GetOrCreateBasket(userID)
	if err != nil {
		return nil, translateDBError(err)
	}

	result := &AddItemsResult{Failures: []BasketItemFailure{}}
	for index, entry := range entries {
		infoID, ok := integerField(entry, "product_info")
		if !ok || infoID <= 0 {
			result.Failures = append(result.Failures, BasketItemFailure{Index: index, Err: ErrInvalidInput})
			continue
		}
		failure := BasketItemFailure{Index: index, ProductInfo: uint(infoID)}
		quantity, ok := integerField(entry, "quantity")
		if !ok || quantity < 1 {
			failure.Err = ErrQuantityInvalid
			result.Failures = append(result.Failures, failure)
			continue
		}
		info, err := s.productRepo.GetActiveInfo(uint(infoID))
		if err != nil {
			return nil, err
		}
		if info == nil {
			failure.Err = ErrProductInfoNotFound
			result.Failures = append(result.Failures, failure)
			continue
		}
		err = s.orderRepo.AddItem(&models.OrderItem{
			OrderID:       basket.ID,
			ProductInfoID: info.ID,
			Quantity:      int(quantity),
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
				failure.Err = ErrIntegrityConflict
				result.Failures = append(result.Failures, failure)
				continue
			}
			return nil, err
		}
		result.Created++
	}
	return result, nil
}

// UpdateItems 更新购物车内订单项数量；id 或 quantity 非整数的条目被跳过
func (s *BasketService) UpdateItems(userID uint, raw string) (int64, error) {
	entries, err := decodeItemEntries(raw)
	if err != nil {
		return 0, err
	}
	basket, err := s.orderRepo.GetBasket(userID)
	if err != nil {
		return 0, err
	}
	if basket == nil {
		return 0, nil
	}
	var updated int64
	for _, entry := range entries {
		itemID, ok := integerField(entry, "id")
		if !ok || itemID <= 0 {
			continue
		}
		quantity, ok := integerField(entry, "quantity")
		if !ok || quantity < 1 {
			continue
		}
		affected, err := s.orderRepo.UpdateItemQuantity(basket.ID, uint(itemID), int(quantity))
		if err != nil {
			return updated, err
		}
		updated += affected
	}
	return updated, nil
}

// DeleteItems 删除购物车内订单项，items 为逗号分隔的 ID
func (s *BasketService) DeleteItems(userID uint, items string) (int64, error) {
	ids := ParseIDList(items)
	if len(ids) == 0 {
		return 0, ErrInvalidInput
	}
	basket, err := s.orderRepo.GetBasket(userID)
	if err != nil {
		return 0, err
	}
	if basket == nil {
		return 0, nil
	}
	return s.orderRepo.DeleteItems(basket.ID, ids)
}

// decodeItemEntries 解析 JSON 数组，数字保留为 json.Number 以便区分整数
func decodeItemEntries(raw string) ([]map[string]interface{}, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}
	decoder := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	decoder.UseNumber()
	var entries []map[string]interface{}
	if err := decoder.Decode(&entries); err != nil {
		return nil, ErrInvalidInput
	}
	if len(entries) == 0 {
		return nil, ErrInvalidInput
	}
	return entries, nil
}

func integerField(entry map[string]interface{}, key string) (int64, bool) {
	number, ok := entry[key].(json.Number)
	if !ok {
		return 0, false
	}
	value, err := number.Int64()
	if err != nil {
		return 0, false
	}
	return value, true
}
