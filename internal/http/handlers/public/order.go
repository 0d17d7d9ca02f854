package public

import (
	handlershared "github.com/orders-next/internal/http/handlers/shared"
	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/i18n"
	"github.com/orders-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PlaceOrderRequest 下单请求：id 为购物车订单 ID，contact 为收货联系方式 ID
type PlaceOrderRequest struct {
	ID      interface{} `json:"id" binding:"required"`
	Contact interface{} `json:"contact" binding:"required"`
}

// ListOrders 列出本人订单（不含购物车）
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orders, err := h.OrderService.List(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Data(c, orders)
}

// GetOrder 获取本人订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := service.ParseDigitID(c.Param("id"))
	if !ok {
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	order, err := h.OrderService.Get(userID, orderID)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Data(c, order)
}

// PlaceOrder 将购物车提交为新订单
func (h *Handler) PlaceOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req PlaceOrderRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	orderID, ok := scalarID(req.ID)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.items_invalid", nil)
		return
	}
	contactID, ok := scalarID(req.Contact)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.items_invalid", nil)
		return
	}
	if err := h.OrderService.Place(c.Request.Context(), userID, orderID, contactID, i18n.ResolveLocale(c)); err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, nil)
}

func scalarID(value interface{}) (uint, bool) {
	raw, ok := handlershared.ScalarString(value)
	if !ok {
		return 0, false
	}
	return service.ParseDigitID(raw)
}
