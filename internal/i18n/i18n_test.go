package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":                        LocaleRU,
		"en-US,en;q=0.9":          LocaleEN,
		"ru-RU":                   LocaleRU,
		"de-DE,en;q=0.5":          LocaleEN,
		"fr-FR":                   LocaleRU,
		"not a language tag @@@@": LocaleRU,
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Fatalf("normalize %q want %s got %s", input, want, got)
		}
	}
}

func TestTFallsBackToKey(t *testing.T) {
	if got := T(LocaleEN, "error.unauthorized"); got != "Log in required" {
		t.Fatalf("unexpected translation: %s", got)
	}
	if got := T(LocaleEN, "missing.key"); got != "missing.key" {
		t.Fatalf("missing key should fall back to key, got %s", got)
	}
	if got := Sprintf(LocaleRU, "error.password_min_length", 8); got != "Пароль должен содержать не менее 8 символов" {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}

func TestMessageCatalogsHaveSameKeys(t *testing.T) {
	for key := range messages[LocaleRU] {
		if _, ok := messages[LocaleEN][key]; !ok {
			t.Fatalf("en catalog misses key %s", key)
		}
	}
	for key := range messages[LocaleEN] {
		if _, ok := messages[LocaleRU][key]; !ok {
			t.Fatalf("ru catalog misses key %s", key)
		}
	}
}

func TestResolveLocaleFromRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/shops?lang=en", nil)
	c.Request.Header.Set("Accept-Language", "ru")

	if got := ResolveLocale(c); got != LocaleEN {
		t.Fatalf("query lang should win, got %s", got)
	}
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/shops", nil)
	if got := ResolveLocale(c); got != LocaleEN {
		t.Fatalf("resolved locale should be cached on context, got %s", got)
	}
}
