package service

import (
	"context"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"

	"gorm.io/gorm"
)

// OrderService 下单与订单查询
type OrderService struct {
	orderRepo   repository.OrderRepository
	contactRepo repository.ContactRepository
	notifier    *NotificationService
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, contactRepo repository.ContactRepository, notifier *NotificationService) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		contactRepo: contactRepo,
		notifier:    notifier,
	}
}

// Place 将本人的购物车转为新订单；通知失败只记录日志
func (s *OrderService) Place(ctx context.Context, userID, orderID, contactID uint, locale string) error {
	contact, err := s.contactRepo.GetByIDAndUser(contactID, userID)
	if err != nil {
		return err
	}
	if contact == nil {
		return ErrContactNotFound
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		count, err := orderRepo.CountItems(orderID)
		if err != nil {
			return err
		}
		if count == 0 {
			basket, err := orderRepo.GetBasket(userID)
			if err != nil {
				return err
			}
			if basket != nil && basket.ID == orderID {
				return ErrBasketEmpty
			}
			return ErrOrderNotFound
		}
		affected, err := orderRepo.PlaceBasket(orderID, userID, contact.ID)
		if err != nil {
			return translateDBError(err)
		}
		if affected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Infow("order_placed", "order_id", orderID, "user_id", userID)
	if err := s.notifier.NotifyOrderStatus(orderID, constants.OrderStateNew, locale); err != nil {
		logger.FromContext(ctx).Warnw("order_status_notify_failed", "order_id", orderID, "error", err)
	}
	return nil
}

// List 列出本人已下单的订单及合计
func (s *OrderService) List(userID uint) ([]models.Order, error) {
	orders, err := s.orderRepo.ListPlacedByUser(userID)
	if err != nil {
		return nil, err
	}
	return withTotals(orders), nil
}

// Get 获取本人已下单的订单
func (s *OrderService) Get(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetPlacedByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	order.ComputeTotal()
	return order, nil
}

func withTotals(orders []models.Order) []models.Order {
	if orders == nil {
		return []models.Order{}
	}
	for i := range orders {
		orders[i].ComputeTotal()
	}
	return orders
}
