package router

import (
	"errors"
	"strings"
	"time"

	"github.com/orders-next/internal/authz"
	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/i18n"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	return cors.New(buildCORSConfig(cfg))
}

func buildCORSConfig(cfg config.CORSConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		ExposeHeaders:    []string{requestIDHeader},
		MaxAge:           time.Duration(cfg.MaxAge) * time.Second,
	}
	if len(corsCfg.AllowMethods) == 0 {
		corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(corsCfg.AllowHeaders) == 0 {
		corsCfg.AllowHeaders = []string{
			"Origin",
			"Content-Type",
			"Content-Length",
			"Accept-Language",
			"Authorization",
			requestIDHeader,
		}
	}

	origins := make([]string, 0, len(cfg.AllowedOrigins))
	wildcard := false
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			wildcard = true
			continue
		}
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		wildcard = true
	}
	switch {
	case wildcard && cfg.AllowCredentials:
		// 携带凭证时不能返回 *，回显请求来源
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	case wildcard:
		corsCfg.AllowAllOrigins = true
	default:
		corsCfg.AllowOrigins = origins
	}
	return corsCfg
}

// RequestIDMiddleware 请求 ID 中间件，同时把带 request_id 的日志放入请求 context
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), "request_id", requestID))
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if userID, ok := c.Get(constants.ContextKeyUserID); ok {
			log = log.With("user_id", userID)
		}
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyRequestID)
}

// TokenAuthMiddleware 登录令牌鉴权中间件，接受 "Token <key>" 与 "Bearer <key>"
func TokenAuthMiddleware(authService *service.UserAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService == nil {
			abortWithError(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}
		key, ok := parseAuthorization(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		state, err := authService.Authenticate(c.Request.Context(), key)
		if err != nil {
			if !errors.Is(err, service.ErrInvalidCredentials) {
				logger.FromContext(c.Request.Context()).Errorw("token_auth_failed", "error", err)
			}
			abortWithError(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}

		c.Set(constants.ContextKeyUserID, state.UserID)
		c.Set(constants.ContextKeyUserType, state.UserType)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), "user_id", state.UserID))
		c.Next()
	}
}

func parseAuthorization(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	switch strings.ToLower(parts[0]) {
	case "token", "bearer":
		return parts[1], true
	default:
		return "", false
	}
}

// UserTypeRBACMiddleware 按账户类型角色校验接口权限
func UserTypeRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("user_rbac_service_unavailable")
			abortWithError(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		userType := c.GetString(constants.ContextKeyUserType)
		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceUserType(userType, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("user_rbac_enforce_failed",
				"user_type", userType,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortWithError(c, response.CodeInternal, "error.internal")
			return
		}
		if !allowed {
			logger.Warnw("user_rbac_permission_denied",
				"user_type", userType,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			abortWithError(c, response.CodeForbidden, "error.forbidden_user_type")
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, code int, key string) {
	response.Error(c, code, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}
