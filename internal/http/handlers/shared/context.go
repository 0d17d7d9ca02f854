package shared

import (
	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		if v == 0 {
			RespondError(c, response.CodeUnauthorized, invalidKey, nil)
			return 0, false
		}
		return v, true
	case int:
		if v <= 0 {
			RespondError(c, response.CodeUnauthorized, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// GetUserID 读取鉴权中间件写入的用户 ID。
func GetUserID(c *gin.Context) (uint, bool) {
	return GetContextUintWithKeys(c, constants.ContextKeyUserID, "error.unauthorized", "error.internal")
}

// GetUserType 读取鉴权中间件写入的账户类型。
func GetUserType(c *gin.Context) string {
	return c.GetString(constants.ContextKeyUserType)
}
