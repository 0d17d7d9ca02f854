package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/orders-next/internal/cache"
	"github.com/orders-next/internal/config"
	partnerhandlers "github.com/orders-next/internal/http/handlers/partner"
	publichandlers "github.com/orders-next/internal/http/handlers/public"
	handlershared "github.com/orders-next/internal/http/handlers/shared"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	handlershared.RegisterJSONTagNames()
	r := gin.New()

	// 初始化 Handler（按买家/供应商分组）
	publicHandler := publichandlers.New(c)
	partnerHandler := partnerhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "on"
	}
	redisClient := cache.Client()
	loginRule := newRateLimitRule(redisPrefix, "login", cfg.Security.LoginRateLimit)
	anonRule := newRateLimitRule(redisPrefix, "anon", cfg.Security.AnonRateLimit)
	anonLimit := RateLimitMiddleware(redisClient, anonRule, KeyByIP)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 账户接口（无需鉴权）
		account := apiV1.Group("/user")
		{
			account.POST("/register", anonLimit, publicHandler.Register)
			account.POST("/register/confirm", anonLimit, publicHandler.ConfirmEmail)
			account.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			account.POST("/password_reset", anonLimit, publicHandler.RequestPasswordReset)
			account.POST("/password_reset/confirm", anonLimit, publicHandler.ConfirmPasswordReset)
		}

		// 公开目录
		apiV1.GET("/categories", publicHandler.ListCategories)
		apiV1.GET("/shops", publicHandler.ListShops)
		apiV1.GET("/products", publicHandler.ListProducts)

		// 需要鉴权的接口，按账户类型角色授权
		authorized := apiV1.Group("")
		authorized.Use(TokenAuthMiddleware(c.UserAuthService), UserTypeRBACMiddleware(c.AuthzService))
		{
			authorized.GET("/user/details", publicHandler.GetDetails)
			authorized.POST("/user/details", publicHandler.UpdateDetails)

			authorized.GET("/user/contact", publicHandler.ListContacts)
			authorized.POST("/user/contact", publicHandler.CreateContact)
			authorized.PUT("/user/contact", publicHandler.UpdateContact)
			authorized.DELETE("/user/contact", publicHandler.DeleteContacts)

			authorized.GET("/basket", publicHandler.GetBasket)
			authorized.POST("/basket", publicHandler.AddBasketItems)
			authorized.PUT("/basket", publicHandler.UpdateBasketItems)
			authorized.DELETE("/basket", publicHandler.DeleteBasketItems)

			authorized.GET("/order", publicHandler.ListOrders)
			authorized.POST("/order", publicHandler.PlaceOrder)
			authorized.GET("/order/:id", publicHandler.GetOrder)

			// 供应商
			authorized.GET("/partner/orders", partnerHandler.ListOrders)
			authorized.POST("/seller/update", partnerHandler.UpdateCatalog)
			authorized.GET("/seller/state", partnerHandler.GetState)
			authorized.POST("/seller/state", partnerHandler.SetState)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		redisState := "disabled"
		if cache.Enabled() {
			redisState = "ok"
			if err := cache.Ping(c.Request.Context()); err != nil {
				logger.Warnw("health_redis_ping_failed", "error", err)
				redisState = "unavailable"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "redis": redisState})
	})

	return r
}

func newRateLimitRule(prefix, name string, cfg config.RateLimitConfig) RateLimitRule {
	return RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:%s", prefix, name),
		WindowSeconds: cfg.WindowSeconds,
		MaxRequests:   cfg.MaxAttempts,
		BlockSeconds:  cfg.BlockSeconds,
		MessageKey:    "error.too_many_requests",
	}
}
