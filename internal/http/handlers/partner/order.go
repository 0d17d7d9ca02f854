package partner

import (
	"github.com/orders-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListOrders 包含本店商品的已下单订单
func (h *Handler) ListOrders(c *gin.Context) {
	userID, userType, ok := currentUser(c)
	if !ok {
		return
	}
	orders, err := h.PartnerService.Orders(userID, userType)
	if err != nil {
		respondPartnerError(c, err)
		return
	}
	response.Data(c, orders)
}
