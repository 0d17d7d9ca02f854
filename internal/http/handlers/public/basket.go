package public

import (
	"bytes"
	"encoding/json"

	"github.com/orders-next/internal/constants"
	handlershared "github.com/orders-next/internal/http/handlers/shared"
	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// BasketItemsRequest 加购/改量请求，items 可以是 JSON 数组或其字符串形式
type BasketItemsRequest struct {
	Items json.RawMessage `json:"items" binding:"required"`
}

// BasketItemError 单条加购失败
type BasketItemError struct {
	Index       int    `json:"index"`
	ProductInfo uint   `json:"product_info,omitempty"`
	Error       string `json:"error"`
}

// GetBasket 获取购物车
func (h *Handler) GetBasket(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	basket, err := h.BasketService.Get(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Data(c, basket)
}

// AddBasketItems 批量加购，部分失败时返回逐条错误
func (h *Handler) AddBasketItems(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	items, ok := bindBasketItems(c)
	if !ok {
		return
	}
	result, err := h.BasketService.AddItems(userID, items)
	if err != nil {
		respondWithMappedError(c, err, basketErrorRules, response.CodeInternal, "error.internal")
		return
	}

	locale := i18n.ResolveLocale(c)
	failures := make([]BasketItemError, 0, len(result.Failures))
	for _, failure := range result.Failures {
		failures = append(failures, BasketItemError{
			Index:       failure.Index,
			ProductInfo: failure.ProductInfo,
			Error:       i18n.T(locale, basketFailureRule(failure.Err).Key),
		})
	}
	if result.Created == 0 && len(failures) > 0 {
		rule := basketFailureRule(result.Failures[0].Err)
		response.ErrorWithPayload(c, rule.Code, i18n.T(locale, rule.Key), gin.H{
			constants.ResponseKeyCreated: 0,
			response.KeyErrors:           failures,
		})
		return
	}
	payload := gin.H{constants.ResponseKeyCreated: result.Created}
	if len(failures) > 0 {
		payload[response.KeyErrors] = failures
	}
	response.Success(c, payload)
}

// UpdateBasketItems 修改购物车内订单项数量
func (h *Handler) UpdateBasketItems(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	items, ok := bindBasketItems(c)
	if !ok {
		return
	}
	updated, err := h.BasketService.UpdateItems(userID, items)
	if err != nil {
		respondWithMappedError(c, err, basketErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{constants.ResponseKeyUpdated: updated})
}

// DeleteBasketItems 删除购物车内订单项
func (h *Handler) DeleteBasketItems(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	items, ok := bindItems(c)
	if !ok {
		return
	}
	deleted, err := h.BasketService.DeleteItems(userID, items)
	if err != nil {
		respondWithMappedError(c, err, basketErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{constants.ResponseKeyDeleted: deleted})
}

func bindBasketItems(c *gin.Context) (string, bool) {
	var req BasketItemsRequest
	if !handlershared.BindJSON(c, &req) {
		return "", false
	}
	items, ok := basketItemsString(req.Items)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.items_invalid", nil)
		return "", false
	}
	return items, true
}

// basketItemsString 将 items 统一为 JSON 数组文本
func basketItemsString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return "", false
		}
		return text, true
	case '[':
		return string(trimmed), true
	default:
		return "", false
	}
}
