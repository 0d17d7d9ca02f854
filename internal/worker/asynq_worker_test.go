package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/provider"
	"github.com/orders-next/internal/queue"
	"github.com/orders-next/internal/repository"
	"github.com/orders-next/internal/service"

	"github.com/hibiken/asynq"
	"gorm.io/gorm/logger"
)

func newTestConsumer(t *testing.T) *Consumer {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := models.Open("sqlite", dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	queueClient, err := queue.NewClient(&config.QueueConfig{})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	notifier := service.NewNotificationService(
		service.NewEmailService(&config.EmailConfig{Enabled: false}),
		queueClient, orderRepo, userRepo, 30,
	)
	return NewConsumer(&provider.Container{NotificationService: notifier})
}

func buildTask(t *testing.T, build func() (*asynq.Task, error)) *asynq.Task {
	t.Helper()
	task, err := build()
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func orderStatusTask(payload queue.OrderStatusEmailPayload) func() (*asynq.Task, error) {
	return func() (*asynq.Task, error) { return queue.NewOrderStatusEmailTask(payload) }
}

func registerConfirmTask(payload queue.AccountEmailPayload) func() (*asynq.Task, error) {
	return func() (*asynq.Task, error) { return queue.NewRegisterConfirmEmailTask(payload) }
}

func passwordResetTask(payload queue.AccountEmailPayload) func() (*asynq.Task, error) {
	return func() (*asynq.Task, error) { return queue.NewPasswordResetEmailTask(payload) }
}

func TestConsumerRegisterRoutesAllTasks(t *testing.T) {
	consumer := newTestConsumer(t)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	for _, typeName := range []string{
		queue.TaskOrderStatusEmail,
		queue.TaskRegisterConfirmEmail,
		queue.TaskPasswordResetEmail,
	} {
		if _, pattern := mux.Handler(asynq.NewTask(typeName, nil)); pattern != typeName {
			t.Fatalf("task %s not routed, pattern=%q", typeName, pattern)
		}
	}
}

func TestHandleOrderStatusEmailSkipsMissingOrder(t *testing.T) {
	consumer := newTestConsumer(t)
	task := buildTask(t, orderStatusTask(queue.OrderStatusEmailPayload{OrderID: 404, Status: "new"}))
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("missing order should be dropped, got %v", err)
	}
	if err := consumer.handleOrderStatusEmail(context.Background(), asynq.NewTask(queue.TaskOrderStatusEmail, []byte("{"))); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestHandleAccountEmailPropagatesDeliveryError(t *testing.T) {
	consumer := newTestConsumer(t)
	task := buildTask(t, registerConfirmTask(queue.AccountEmailPayload{Email: "buyer@example.com", Token: "abc"}))
	err := consumer.handleRegisterConfirmEmail(context.Background(), task)
	if !errors.Is(err, service.ErrEmailServiceDisabled) {
		t.Fatalf("expected email disabled error for retry, got %v", err)
	}

	task = buildTask(t, passwordResetTask(queue.AccountEmailPayload{Email: "buyer@example.com", Token: "jwt"}))
	err = consumer.handlePasswordResetEmail(context.Background(), task)
	if !errors.Is(err, service.ErrEmailServiceDisabled) {
		t.Fatalf("expected email disabled error for retry, got %v", err)
	}
}

func TestHandleAccountEmailDropsInvalidPayload(t *testing.T) {
	consumer := newTestConsumer(t)
	task := buildTask(t, passwordResetTask(queue.AccountEmailPayload{Email: "  ", Token: "jwt"}))
	if err := consumer.handlePasswordResetEmail(context.Background(), task); err != nil {
		t.Fatalf("invalid payload should be dropped, got %v", err)
	}

	empty := NewConsumer(&provider.Container{})
	task = buildTask(t, registerConfirmTask(queue.AccountEmailPayload{Email: "a@example.com", Token: "abc"}))
	if err := empty.handleRegisterConfirmEmail(context.Background(), task); err != nil {
		t.Fatalf("nil notifier should be skipped, got %v", err)
	}
	if err := empty.handleRegisterConfirmEmail(context.Background(), asynq.NewTask(queue.TaskRegisterConfirmEmail, []byte("nope"))); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestRetryableSkipsRejectedRecipients(t *testing.T) {
	rejected := fmt.Errorf("%w: 550 user unknown", service.ErrEmailRecipientRejected)
	if err := retryable(rejected); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("rejected recipient should skip retry, got %v", err)
	}
	transient := errors.New("dial tcp timeout")
	if err := retryable(transient); err != transient {
		t.Fatalf("transient error should be returned as is, got %v", err)
	}
}
