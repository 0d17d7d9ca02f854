package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/provider"
	"github.com/orders-next/internal/queue"
	"github.com/orders-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskRegisterConfirmEmail, c.handleRegisterConfirmEmail)
	mux.HandleFunc(queue.TaskPasswordResetEmail, c.handlePasswordResetEmail)
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_order_status_email_skip_notifier_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.NotificationService.DeliverOrderStatus(payload.OrderID, payload.Status, payload.Locale); err != nil {
		logger.Warnw("worker_order_status_email_send_failed",
			"order_id", payload.OrderID,
			"status", payload.Status,
			"error", err,
		)
		return retryable(err)
	}
	return nil
}

func (c *Consumer) handleRegisterConfirmEmail(_ context.Context, task *asynq.Task) error {
	payload, ok, err := c.decodeAccountPayload("register_confirm", task)
	if !ok {
		return err
	}
	if err := c.NotificationService.DeliverRegisterConfirm(payload.Email, payload.Token, payload.Locale); err != nil {
		logger.Warnw("worker_register_confirm_email_send_failed", "receiver_email", payload.Email, "error", err)
		return retryable(err)
	}
	return nil
}

func (c *Consumer) handlePasswordResetEmail(_ context.Context, task *asynq.Task) error {
	payload, ok, err := c.decodeAccountPayload("password_reset", task)
	if !ok {
		return err
	}
	if err := c.NotificationService.DeliverPasswordReset(payload.Email, payload.Token, payload.Locale); err != nil {
		logger.Warnw("worker_password_reset_email_send_failed", "receiver_email", payload.Email, "error", err)
		return retryable(err)
	}
	return nil
}

// decodeAccountPayload 解析账户邮件任务；ok=false 时直接返回 err（nil 表示丢弃任务）
func (c *Consumer) decodeAccountPayload(kind string, task *asynq.Task) (queue.AccountEmailPayload, bool, error) {
	var payload queue.AccountEmailPayload
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_"+kind+"_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return payload, false, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_"+kind+"_email_unmarshal_failed", "error", err)
		return payload, false, err
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Email == "" || strings.TrimSpace(payload.Token) == "" {
		logger.Debugw("worker_" + kind + "_email_skip_invalid_payload")
		return payload, false, nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_"+kind+"_email_skip_notifier_nil", "receiver_email", payload.Email)
		return payload, false, nil
	}
	return payload, true, nil
}

// retryable 收件人被拒属于永久错误，跳过 asynq 重试
func retryable(err error) error {
	if errors.Is(err, service.ErrEmailRecipientRejected) {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return err
}
