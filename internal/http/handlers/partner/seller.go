package partner

import (
	handlershared "github.com/orders-next/internal/http/handlers/shared"
	"github.com/orders-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SellerUpdateRequest 目录导入请求
type SellerUpdateRequest struct {
	URL string `json:"url" binding:"required"`
}

// SellerStateRequest 店铺状态切换，state 接受布尔值或其字符串形式
type SellerStateRequest struct {
	State interface{} `json:"state"`
}

// UpdateCatalog 从 URL 拉取 YAML 目录并整体替换本店报价
func (h *Handler) UpdateCatalog(c *gin.Context) {
	userID, userType, ok := currentUser(c)
	if !ok {
		return
	}
	var req SellerUpdateRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	result, err := h.CatalogService.ImportFromURL(c.Request.Context(), userID, userType, req.URL)
	if err != nil {
		respondPartnerError(c, err)
		return
	}
	response.Data(c, result)
}

// GetState 获取本店接单状态
func (h *Handler) GetState(c *gin.Context) {
	userID, userType, ok := currentUser(c)
	if !ok {
		return
	}
	shop, err := h.PartnerService.State(userID, userType)
	if err != nil {
		respondPartnerError(c, err)
		return
	}
	response.Data(c, shop)
}

// SetState 切换本店接单状态
func (h *Handler) SetState(c *gin.Context) {
	userID, userType, ok := currentUser(c)
	if !ok {
		return
	}
	var req SellerStateRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	raw, ok := handlershared.ScalarString(req.State)
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "error.boolean_invalid", nil)
		return
	}
	if err := h.PartnerService.SetState(c.Request.Context(), userID, userType, raw); err != nil {
		respondPartnerError(c, err)
		return
	}
	response.Success(c, nil)
}
