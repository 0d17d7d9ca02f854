package public

import (
	"github.com/orders-next/internal/constants"
	handlershared "github.com/orders-next/internal/http/handlers/shared"
	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactCreateRequest 新增联系方式
type ContactCreateRequest struct {
	City      string `json:"city" binding:"required"`
	Street    string `json:"street" binding:"required"`
	House     string `json:"house"`
	Structure string `json:"structure"`
	Building  string `json:"building"`
	Apartment string `json:"apartment"`
	Phone     string `json:"phone" binding:"required"`
}

// ContactUpdateRequest 更新联系方式，id 可以是字符串或数字
type ContactUpdateRequest struct {
	ID        interface{} `json:"id" binding:"required"`
	City      *string     `json:"city"`
	Street    *string     `json:"street"`
	House     *string     `json:"house"`
	Structure *string     `json:"structure"`
	Building  *string     `json:"building"`
	Apartment *string     `json:"apartment"`
	Phone     *string     `json:"phone"`
}

// ItemsRequest 逗号分隔 ID 列表
type ItemsRequest struct {
	Items interface{} `json:"items" binding:"required"`
}

// ListContacts 列出本人联系方式
func (h *Handler) ListContacts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	contacts, err := h.ContactService.List(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Data(c, contacts)
}

// CreateContact 新增联系方式
func (h *Handler) CreateContact(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ContactCreateRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	contact, err := h.ContactService.Create(userID, service.ContactInput{
		City:      &req.City,
		Street:    &req.Street,
		House:     &req.House,
		Structure: &req.Structure,
		Building:  &req.Building,
		Apartment: &req.Apartment,
		Phone:     &req.Phone,
	})
	if err != nil {
		respondWithMappedError(c, err, contactErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Created(c, gin.H{response.KeyData: contact})
}

// UpdateContact 局部更新联系方式
func (h *Handler) UpdateContact(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ContactUpdateRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	rawID, ok := handlershared.ScalarString(req.ID)
	if !ok {
		respondError(c, response.CodeNotFound, "error.contact_not_found", nil)
		return
	}
	contact, err := h.ContactService.Update(userID, rawID, service.ContactInput{
		City:      req.City,
		Street:    req.Street,
		House:     req.House,
		Structure: req.Structure,
		Building:  req.Building,
		Apartment: req.Apartment,
		Phone:     req.Phone,
	})
	if err != nil {
		respondWithMappedError(c, err, contactErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Data(c, contact)
}

// DeleteContacts 批量删除联系方式
func (h *Handler) DeleteContacts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	items, ok := bindItems(c)
	if !ok {
		return
	}
	deleted, err := h.ContactService.Delete(userID, items)
	if err != nil {
		respondWithMappedError(c, err, contactErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{constants.ResponseKeyDeleted: deleted})
}

// bindItems 读取 items 字段（"1,2,3" 或单个数字）
func bindItems(c *gin.Context) (string, bool) {
	var req ItemsRequest
	if !handlershared.BindJSON(c, &req) {
		return "", false
	}
	items, ok := handlershared.ScalarString(req.Items)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.items_invalid", nil)
		return "", false
	}
	return items, true
}
