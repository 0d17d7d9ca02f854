package i18n

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleRU = "ru"
	LocaleEN = "en"
)

// ContextKey gin 上下文中缓存已解析语言的键
const ContextKey = "locale"

var (
	defaultLocale = LocaleRU
	mu            sync.RWMutex
	matcher       = language.NewMatcher([]language.Tag{language.Russian, language.English})
)

// SetDefaultLocale 设置默认语言（未知语言回退为 ru）
func SetDefaultLocale(locale string) {
	mu.Lock()
	defer mu.Unlock()
	defaultLocale = normalize(locale, LocaleRU)
}

// DefaultLocale 返回默认语言
func DefaultLocale() string {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLocale
}

// Normalize 将任意语言标签归一为支持的语言
func Normalize(locale string) string {
	return normalize(locale, DefaultLocale())
}

func normalize(locale, fallback string) string {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(trimmed)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	if index == 1 {
		return LocaleEN
	}
	return LocaleRU
}

// ResolveLocale 按 query lang > Accept-Language 解析请求语言
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale()
	}
	if cached, ok := c.Get(ContextKey); ok {
		if locale, ok := cached.(string); ok && locale != "" {
			return locale
		}
	}
	raw := c.Query("lang")
	if raw == "" {
		raw = c.GetHeader("Accept-Language")
	}
	locale := Normalize(raw)
	c.Set(ContextKey, locale)
	return locale
}

// T 翻译消息键，未命中时依次回退默认语言与键本身
func T(locale, key string) string {
	if msg, ok := lookup(Normalize(locale), key); ok {
		return msg
	}
	if msg, ok := lookup(DefaultLocale(), key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化消息
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Has 判断消息键是否存在
func Has(key string) bool {
	_, ok := lookup(LocaleRU, key)
	return ok
}

func lookup(locale, key string) (string, bool) {
	table, ok := messages[locale]
	if !ok {
		return "", false
	}
	msg, ok := table[key]
	return msg, ok
}
