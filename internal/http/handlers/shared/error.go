package shared

import (
	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/i18n"
	"github.com/orders-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 返回携带 request_id（及已登录用户 user_id）的日志实例
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil || c.Request == nil {
		return logger.S()
	}
	log := logger.FromContext(c.Request.Context())
	if userID, ok := c.Get(constants.ContextKeyUserID); ok {
		log = log.With("user_id", userID)
	}
	return log
}

// RespondError 按 key 返回本地化错误；服务端错误记 error 日志，其余有原因时记 debug
func RespondError(c *gin.Context, code int, key string, err error) {
	appErr := response.WrapError(code, i18n.T(i18n.ResolveLocale(c), key), err)
	if err != nil {
		log := RequestLog(c).With("code", appErr.Code, "key", key, "error", err)
		if appErr.Internal() {
			log.Errorw("handler_error")
		} else {
			log.Debugw("handler_rejected")
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondFieldErrors 返回字段级错误响应
func RespondFieldErrors(c *gin.Context, code int, fields map[string][]string) {
	response.ErrorWithFields(c, code, fields)
}
