package shared

import (
	"errors"
	"strconv"

	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/i18n"
	"github.com/orders-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondWithMappedError 按规则顺序匹配业务错误，未命中时使用兜底响应并记录原始错误。
func RespondWithMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	if respondStructuredError(c, err) {
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射规则。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// CommonErrorRules 所有接口共用的映射规则。
var CommonErrorRules = []MappedError{
	{Target: service.ErrForbiddenUserType, Code: response.CodeForbidden, Key: "error.forbidden_user_type"},
	{Target: service.ErrInvalidBoolean, Code: response.CodeBadRequest, Key: "error.boolean_invalid"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.validation_failed"},
	{Target: service.ErrIntegrityConflict, Code: response.CodeConflict, Key: "error.integrity_conflict"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
}

// passwordViolation 密码规则错误携带的 i18n 键与参数
type passwordViolation interface {
	Key() string
	Args() []interface{}
}

// respondStructuredError 处理需要字段级输出的错误：弱密码与目录结构错误。
func respondStructuredError(c *gin.Context, err error) bool {
	locale := i18n.ResolveLocale(c)

	var weak *service.WeakPasswordError
	if errors.As(err, &weak) {
		RespondFieldErrors(c, response.CodeForbidden, map[string][]string{
			"password": PasswordMessages(locale, weak.Violations),
		})
		return true
	}
	var violation passwordViolation
	if errors.As(err, &violation) {
		RespondFieldErrors(c, response.CodeForbidden, map[string][]string{
			"password": {i18n.Sprintf(locale, violation.Key(), violation.Args()...)},
		})
		return true
	}

	var malformed *service.CatalogMalformedError
	if errors.As(err, &malformed) {
		message := i18n.T(locale, "error.catalog_malformed")
		if malformed.Reason != "" {
			message += ": " + malformed.Reason
		}
		response.ErrorWithPayload(c, response.CodeBadRequest, i18n.T(locale, "error.catalog_malformed"), gin.H{
			response.KeyErrors: map[string][]string{malformed.Field: {message}},
		})
		return true
	}
	return false
}

// PasswordMessages 将密码规则错误翻译为消息列表。
func PasswordMessages(locale string, violations []error) []string {
	messages := make([]string, 0, len(violations))
	for _, item := range violations {
		var violation passwordViolation
		if errors.As(item, &violation) {
			messages = append(messages, i18n.Sprintf(locale, violation.Key(), violation.Args()...))
			continue
		}
		messages = append(messages, item.Error())
	}
	return messages
}

// ScalarString 将 JSON 标量（字符串、数字、布尔）统一为字符串，其它类型返回 false。
func ScalarString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
