package public

import (
	handlershared "github.com/orders-next/internal/http/handlers/shared"
	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/i18n"
	"github.com/orders-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Company   string `json:"company" binding:"required"`
	Position  string `json:"position" binding:"required"`
	Type      string `json:"type" binding:"omitempty,oneof=buyer shop"`
}

// ConfirmEmailRequest 邮箱确认请求
type ConfirmEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateDetailsRequest 账户资料局部更新
type UpdateDetailsRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Company   *string `json:"company"`
	Position  *string `json:"position"`
	Password  *string `json:"password"`
}

// PasswordResetRequest 申请重置密码
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest 使用令牌设置新密码
type PasswordResetConfirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 注册买家或供应商账户
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	_, err := h.UserAuthService.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Company:   req.Company,
		Position:  req.Position,
		Type:      req.Type,
	}, i18n.ResolveLocale(c))
	if err != nil {
		respondWithMappedError(c, err, accountErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Created(c, nil)
}

// ConfirmEmail 使用邮件中的令牌激活账户
func (h *Handler) ConfirmEmail(c *gin.Context) {
	var req ConfirmEmailRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.UserAuthService.ConfirmEmail(req.Email, req.Token); err != nil {
		respondWithMappedError(c, err, accountErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, nil)
}

// Login 登录并返回 Bearer Token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	_, key, err := h.UserAuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, accountErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"Token": key})
}

// GetDetails 获取当前账户资料与联系方式
func (h *Handler) GetDetails(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.Details(userID)
	if err != nil {
		respondWithMappedError(c, err, accountErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Data(c, user)
}

// UpdateDetails 局部更新账户资料
func (h *Handler) UpdateDetails(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateDetailsRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	user, err := h.UserAuthService.UpdateDetails(c.Request.Context(), userID, service.UpdateDetailsInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Company:   req.Company,
		Position:  req.Position,
		Password:  req.Password,
	})
	if err != nil {
		respondWithMappedError(c, err, accountErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Data(c, user)
}

// RequestPasswordReset 发送重置密码邮件，邮箱是否存在都返回成功
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.PasswordResetService.Request(c.Request.Context(), req.Email, i18n.ResolveLocale(c)); err != nil {
		respondWithMappedError(c, err, accountErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, nil)
}

// ConfirmPasswordReset 使用令牌设置新密码
func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.PasswordResetService.Confirm(c.Request.Context(), req.Token, req.Password); err != nil {
		respondWithMappedError(c, err, accountErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, nil)
}
