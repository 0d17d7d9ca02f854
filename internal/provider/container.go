package provider

import (
	"github.com/orders-next/internal/authz"
	"github.com/orders-next/internal/cache"
	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/queue"
	"github.com/orders-next/internal/repository"
	"github.com/orders-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo     repository.UserRepository
	TokenRepo    repository.TokenRepository
	ContactRepo  repository.ContactRepository
	ShopRepo     repository.ShopRepository
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	OrderRepo    repository.OrderRepository

	// Services
	AuthzService         *authz.Service
	EmailService         *service.EmailService
	NotificationService  *service.NotificationService
	UserAuthService      *service.UserAuthService
	PasswordResetService *service.PasswordResetService
	ContactService       *service.ContactService
	CatalogService       *service.CatalogService
	CatalogQueryService  *service.CatalogQueryService
	BasketService        *service.BasketService
	OrderService         *service.OrderService
	PartnerService       *service.PartnerService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，失败时退化为同步投递
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	if err := c.initServices(db); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.TokenRepo = repository.NewTokenRepository(db)
	c.ContactRepo = repository.NewContactRepository(db)
	c.ShopRepo = repository.NewShopRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices(db *gorm.DB) error {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.NotificationService = service.NewNotificationService(c.EmailService, c.QueueClient, c.OrderRepo, c.UserRepo, c.Config.JWT.ResetExpireMinutes)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.TokenRepo, c.NotificationService)
	c.PasswordResetService = service.NewPasswordResetService(c.Config, c.UserRepo, c.TokenRepo, c.NotificationService)
	c.ContactService = service.NewContactService(c.ContactRepo)
	c.CatalogService = service.NewCatalogService(c.Config.Catalog, c.ShopRepo, c.CategoryRepo, c.ProductRepo)
	c.CatalogQueryService = service.NewCatalogQueryService(c.CategoryRepo, c.ShopRepo, c.ProductRepo)
	c.BasketService = service.NewBasketService(c.OrderRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ContactRepo, c.NotificationService)
	c.PartnerService = service.NewPartnerService(c.ShopRepo, c.OrderRepo)
	return nil
}

// Close 释放容器持有的外部连接
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
	return c.QueueClient.Close()
}
