package queue

import (
	"encoding/json"

	"github.com/orders-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusEmail 订单状态邮件通知任务
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskRegisterConfirmEmail 注册确认邮件任务
	TaskRegisterConfirmEmail = constants.TaskRegisterConfirmEmail
	// TaskPasswordResetEmail 密码重置邮件任务
	TaskPasswordResetEmail = constants.TaskPasswordResetEmail
)

// OrderStatusEmailPayload 订单状态邮件任务载荷
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
	Locale  string `json:"locale,omitempty"`
}

// AccountEmailPayload 账户类邮件（注册确认、密码重置）任务载荷
type AccountEmailPayload struct {
	Email  string `json:"email"`
	Token  string `json:"token"`
	Locale string `json:"locale,omitempty"`
}

// NewOrderStatusEmailTask 创建订单状态邮件任务
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderStatusEmail, payload)
}

// NewRegisterConfirmEmailTask 创建注册确认邮件任务
func NewRegisterConfirmEmailTask(payload AccountEmailPayload) (*asynq.Task, error) {
	return newJSONTask(TaskRegisterConfirmEmail, payload)
}

// NewPasswordResetEmailTask 创建密码重置邮件任务
func NewPasswordResetEmailTask(payload AccountEmailPayload) (*asynq.Task, error) {
	return newJSONTask(TaskPasswordResetEmail, payload)
}

func newJSONTask(typeName string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typeName, body,
		asynq.MaxRetry(constants.TaskMaxRetryEmail),
	), nil
}
