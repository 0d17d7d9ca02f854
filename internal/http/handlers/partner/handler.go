package partner

import "github.com/orders-next/internal/provider"

// Handler 供应商接口处理器入口
// 说明：该处理器仅用于 shop 类型账户的 API。
type Handler struct {
	*provider.Container
}

// New 创建供应商处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
