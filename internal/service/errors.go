package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 通用错误
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrIntegrityConflict = errors.New("integrity conflict")
	ErrForbiddenUserType = errors.New("forbidden for user type")
	ErrInvalidBoolean    = errors.New("invalid boolean value")
)

// 账户相关错误
var (
	ErrInvalidEmail        = errors.New("invalid email")
	ErrEmailExists         = errors.New("email already exists")
	ErrWeakPassword        = errors.New("password does not satisfy policy")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrConfirmTokenInvalid = errors.New("confirm token or email mismatch")
	ErrResetTokenInvalid   = errors.New("password reset token invalid")
	ErrContactNotFound     = errors.New("contact not found")
)

// 商品与订单相关错误
var (
	ErrShopNotFound        = errors.New("shop not found")
	ErrProductInfoNotFound = errors.New("product info not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrBasketEmpty         = errors.New("basket is empty")
	ErrQuantityInvalid     = errors.New("quantity must be a positive integer")
	ErrCatalogURLInvalid   = errors.New("catalog url invalid")
	ErrCatalogFetchFailed  = errors.New("catalog fetch failed")
	ErrCatalogMalformed    = errors.New("catalog malformed")
)

// 邮件相关错误
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// CatalogMalformedError 目录结构错误，Field 为缺失或非法的键路径
type CatalogMalformedError struct {
	Field  string
	Reason string
}

func (e *CatalogMalformedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("catalog malformed: %s", e.Field)
	}
	return fmt.Sprintf("catalog malformed: %s: %s", e.Field, e.Reason)
}

// Is 匹配 ErrCatalogMalformed
func (e *CatalogMalformedError) Is(target error) bool {
	return target == ErrCatalogMalformed
}

func catalogMissing(field string) error {
	return &CatalogMalformedError{Field: field, Reason: "required"}
}

// translateDBError 将唯一键与外键冲突统一为 ErrIntegrityConflict
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %v", ErrIntegrityConflict, err)
	}
	return err
}
