package service

import (
	"context"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"
)

// PartnerService 供应商店铺状态与订单
type PartnerService struct {
	shopRepo  repository.ShopRepository
	orderRepo repository.OrderRepository
}

// NewPartnerService 创建供应商服务
func NewPartnerService(shopRepo repository.ShopRepository, orderRepo repository.OrderRepository) *PartnerService {
	return &PartnerService{
		shopRepo:  shopRepo,
		orderRepo: orderRepo,
	}
}

func requireShopUser(userType string) error {
	if userType != constants.UserTypeShop {
		return ErrForbiddenUserType
	}
	return nil
}

// State 获取本人店铺
func (s *PartnerService) State(userID uint, userType string) (*models.Shop, error) {
	if err := requireShopUser(userType); err != nil {
		return nil, err
	}
	shop, err := s.shopRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	return shop, nil
}

// SetState 按布尔样式字符串切换店铺接单状态
func (s *PartnerService) SetState(ctx context.Context, userID uint, userType, raw string) error {
	if err := requireShopUser(userType); err != nil {
		return err
	}
	state, err := ParseBool(raw)
	if err != nil {
		return err
	}
	affected, err := s.shopRepo.SetStateByUser(userID, state)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrShopNotFound
	}
	logger.FromContext(ctx).Infow("partner_shop_state_changed", "user_id", userID, "state", state)
	return nil
}

// Orders 列出包含本店商品的订单，订单项与合计仅计本店部分
func (s *PartnerService) Orders(userID uint, userType string) ([]models.Order, error) {
	shop, err := s.State(userID, userType)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListPlacedByShop(shop.ID)
	if err != nil {
		return nil, err
	}
	return withTotals(orders), nil
}
