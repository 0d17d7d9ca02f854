package public

import "github.com/orders-next/internal/provider"

// Handler 买家侧与公开接口处理器入口
// 说明：供应商接口见 partner 包。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
