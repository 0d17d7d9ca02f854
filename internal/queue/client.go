package queue

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 账户类邮件队列
	CriticalQueue = constants.QueueCritical
)

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderStatusEmail 推送订单状态邮件任务
func (c *Client) EnqueueOrderStatusEmail(payload OrderStatusEmailPayload, opts ...asynq.Option) error {
	task, err := NewOrderStatusEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, c.defaultQueue, opts...)
}

// EnqueueRegisterConfirmEmail 推送注册确认邮件任务
func (c *Client) EnqueueRegisterConfirmEmail(payload AccountEmailPayload, opts ...asynq.Option) error {
	task, err := NewRegisterConfirmEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, CriticalQueue, opts...)
}

// EnqueuePasswordResetEmail 推送密码重置邮件任务
func (c *Client) EnqueuePasswordResetEmail(payload AccountEmailPayload, opts ...asynq.Option) error {
	task, err := NewPasswordResetEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, CriticalQueue, opts...)
}

func (c *Client) enqueue(task *asynq.Task, queueName string, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	options := append([]asynq.Option{
		asynq.Queue(queueName),
		asynq.Timeout(time.Duration(constants.EmailTaskTimeoutSeconds) * time.Second),
	}, opts...)
	info, err := c.client.Enqueue(task, options...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	logger.Debugw("queue_task_enqueued", "task", task.Type(), "task_id", info.ID, "queue", info.Queue)
	return nil
}

// 账户邮件优先于订单通知
var defaultQueueWeights = map[string]int{CriticalQueue: 6, DefaultQueue: 3}

// BuildServerConfig 生成 worker 的 Redis 连接与并发/队列权重配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency:     10,
		Queues:          defaultQueueWeights,
		ShutdownTimeout: time.Duration(constants.EmailTaskTimeoutSeconds) * time.Second,
	}
	if cfg != nil && cfg.Concurrency > 0 {
		serverCfg.Concurrency = cfg.Concurrency
	}
	if cfg != nil && len(cfg.Queues) > 0 {
		serverCfg.Queues = cfg.Queues
	}
	return buildRedisOpt(cfg), serverCfg
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host, port := strings.TrimSpace(cfg.Host), "6379"
	if host == "" {
		host = "127.0.0.1"
	}
	if cfg.Port > 0 {
		port = strconv.Itoa(cfg.Port)
	}
	opt.Addr = net.JoinHostPort(host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
