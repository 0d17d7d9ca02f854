package public

import (
	"errors"

	handlershared "github.com/orders-next/internal/http/handlers/shared"
	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/service"
)

var accountErrorRules = handlershared.ConcatMappedErrors([]handlershared.MappedError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeForbidden, Key: "error.invalid_credentials"},
	{Target: service.ErrConfirmTokenInvalid, Code: response.CodeBadRequest, Key: "error.confirm_token_invalid"},
	{Target: service.ErrResetTokenInvalid, Code: response.CodeBadRequest, Key: "error.reset_token_invalid"},
}, handlershared.CommonErrorRules)

var contactErrorRules = handlershared.ConcatMappedErrors([]handlershared.MappedError{
	{Target: service.ErrContactNotFound, Code: response.CodeNotFound, Key: "error.contact_not_found"},
}, handlershared.CommonErrorRules)

var basketErrorRules = handlershared.ConcatMappedErrors([]handlershared.MappedError{
	{Target: service.ErrProductInfoNotFound, Code: response.CodeNotFound, Key: "error.product_info_not_found"},
	{Target: service.ErrQuantityInvalid, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.items_invalid"},
}, handlershared.CommonErrorRules)

var orderErrorRules = handlershared.ConcatMappedErrors([]handlershared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrContactNotFound, Code: response.CodeNotFound, Key: "error.contact_not_found"},
	{Target: service.ErrBasketEmpty, Code: response.CodeBadRequest, Key: "error.basket_empty"},
}, handlershared.CommonErrorRules)

// basketFailureRule 返回单条加购失败对应的映射规则。
func basketFailureRule(err error) handlershared.MappedError {
	for _, rule := range basketErrorRules {
		if errors.Is(err, rule.Target) {
			return rule
		}
	}
	return handlershared.MappedError{Target: err, Code: response.CodeBadRequest, Key: "error.items_invalid"}
}
