package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/orders-next/internal/config"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"email":" Test@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("email")(c)
	if key != "test@example.com|1.2.3.4" {
		t.Fatalf("key want test@example.com|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Test@Example.com") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestParseScriptReply(t *testing.T) {
	cases := []struct {
		name      string
		input     interface{}
		wantCount int64
		wantTTL   int64
		wantErr   bool
	}{
		{name: "int64", input: []interface{}{int64(6), int64(900)}, wantCount: 6, wantTTL: 900},
		{name: "string ttl", input: []interface{}{int64(1), "300"}, wantCount: 1, wantTTL: 300},
		{name: "short", input: []interface{}{int64(1)}, wantErr: true},
		{name: "bad count", input: []interface{}{"x", int64(1)}, wantErr: true},
		{name: "scalar", input: int64(3), wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			count, ttl, err := parseScriptReply(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err want %v got %v", tc.wantErr, err)
			}
			if count != tc.wantCount || ttl != tc.wantTTL {
				t.Fatalf("want (%d,%d) got (%d,%d)", tc.wantCount, tc.wantTTL, count, ttl)
			}
		})
	}
}

func TestRateLimitKeyUsesPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/user/login", strings.NewReader(`{"email":42}`))
	c.Request.RemoteAddr = "5.6.7.8:1000"

	key := rateLimitKey(c, RateLimitRule{Prefix: "orders:rate:login"}, KeyByIPAndJSONField("email"))
	if key != "orders:rate:login:5.6.7.8" {
		t.Fatalf("non-string field should fall back to ip, got %s", key)
	}
}

func TestNewRateLimitRule(t *testing.T) {
	rule := newRateLimitRule("orders", "login", config.RateLimitConfig{WindowSeconds: 300, MaxAttempts: 5, BlockSeconds: 900})
	if rule.Prefix != "orders:rate:login" {
		t.Fatalf("prefix want orders:rate:login got %s", rule.Prefix)
	}
	if rule.WindowSeconds != 300 || rule.MaxRequests != 5 || rule.BlockSeconds != 900 {
		t.Fatalf("unexpected rule %+v", rule)
	}
	if rule.MessageKey != "error.too_many_requests" {
		t.Fatalf("message key want error.too_many_requests got %s", rule.MessageKey)
	}
}
