package service

import (
	"strings"

	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/queue"
	"github.com/orders-next/internal/repository"
)

// NotificationService 邮件通知：队列启用时入队，否则同步投递
type NotificationService struct {
	emailService       *EmailService
	queueClient        *queue.Client
	orderRepo          repository.OrderRepository
	userRepo           repository.UserRepository
	resetExpireMinutes int
}

// NewNotificationService 创建通知服务
func NewNotificationService(
	emailService *EmailService,
	queueClient *queue.Client,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	resetExpireMinutes int,
) *NotificationService {
	return &NotificationService{
		emailService:       emailService,
		queueClient:        queueClient,
		orderRepo:          orderRepo,
		userRepo:           userRepo,
		resetExpireMinutes: resetExpireMinutes,
	}
}

// NotifyOrderStatus 订单状态变更通知
func (s *NotificationService) NotifyOrderStatus(orderID uint, status, locale string) error {
	if s == nil || orderID == 0 {
		return nil
	}
	status = strings.TrimSpace(status)
	if s.queueClient.Enabled() {
		return s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
			OrderID: orderID,
			Status:  status,
			Locale:  locale,
		})
	}
	return s.DeliverOrderStatus(orderID, status, locale)
}

// NotifyRegisterConfirm 注册确认通知
func (s *NotificationService) NotifyRegisterConfirm(email, token, locale string) error {
	if s == nil {
		return nil
	}
	if s.queueClient.Enabled() {
		return s.queueClient.EnqueueRegisterConfirmEmail(queue.AccountEmailPayload{Email: email, Token: token, Locale: locale})
	}
	return s.DeliverRegisterConfirm(email, token, locale)
}

// NotifyPasswordReset 密码重置通知
func (s *NotificationService) NotifyPasswordReset(email, token, locale string) error {
	if s == nil {
		return nil
	}
	if s.queueClient.Enabled() {
		return s.queueClient.EnqueuePasswordResetEmail(queue.AccountEmailPayload{Email: email, Token: token, Locale: locale})
	}
	return s.DeliverPasswordReset(email, token, locale)
}

// DeliverOrderStatus 读取订单与收件人并发送状态邮件
func (s *NotificationService) DeliverOrderStatus(orderID uint, status, locale string) error {
	if s.emailService == nil || s.orderRepo == nil {
		logger.Warnw("notification_order_status_skip_unconfigured", "order_id", orderID)
		return nil
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Debugw("notification_order_status_skip_order_not_found", "order_id", orderID)
		return nil
	}
	receiver, err := s.orderRepo.ResolveReceiverEmailByOrderID(orderID)
	if err != nil {
		return err
	}
	receiver = strings.TrimSpace(receiver)
	if receiver == "" {
		logger.Debugw("notification_order_status_skip_empty_receiver", "order_id", orderID)
		return nil
	}
	if status == "" {
		status = order.State
	}
	order.ComputeTotal()
	return s.emailService.SendOrderStatusEmail(receiver, OrderStatusEmailInput{
		OrderID:  order.ID,
		Status:   status,
		TotalSum: order.TotalSum,
	}, locale)
}

// DeliverRegisterConfirm 发送注册确认邮件
func (s *NotificationService) DeliverRegisterConfirm(email, token, locale string) error {
	if s.emailService == nil {
		return ErrEmailServiceNotConfigured
	}
	return s.emailService.SendRegisterConfirmEmail(email, token, locale)
}

// DeliverPasswordReset 发送密码重置邮件
func (s *NotificationService) DeliverPasswordReset(email, token, locale string) error {
	if s.emailService == nil {
		return ErrEmailServiceNotConfigured
	}
	return s.emailService.SendPasswordResetEmail(email, token, s.resetExpireMinutes, locale)
}
