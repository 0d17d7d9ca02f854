package shared

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNameOnce sync.Once

// RegisterJSONTagNames 让校验错误使用 json 字段名。
func RegisterJSONTagNames() {
	registerTagNameOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// BindJSON 绑定请求体；失败时返回字段级错误并返回 false。
func BindJSON(c *gin.Context, req interface{}) bool {
	RegisterJSONTagNames()
	if err := c.ShouldBindJSON(req); err != nil {
		RespondBindError(c, err)
		return false
	}
	return true
}

// RespondBindError 将绑定或校验错误转换为 400 响应。
func RespondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		RespondFieldErrors(c, response.CodeBadRequest, FieldErrors(i18n.ResolveLocale(c), validationErrs))
		return
	}
	RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
}

// FieldErrors 按 json 字段名汇总校验错误消息。
func FieldErrors(locale string, errs validator.ValidationErrors) map[string][]string {
	result := make(map[string][]string, len(errs))
	for _, fieldErr := range errs {
		field := fieldErr.Field()
		result[field] = append(result[field], fieldMessage(locale, fieldErr.Tag()))
	}
	for field := range result {
		sort.Strings(result[field])
	}
	return result
}

func fieldMessage(locale, tag string) string {
	key := "field." + tag
	if !i18n.Has(key) {
		key = "field.invalid"
	}
	return i18n.T(locale, key)
}
