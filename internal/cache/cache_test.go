package cache

import (
	"context"
	"testing"

	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled")
	}
	ctx := context.Background()
	state := BuildTokenAuthState(&models.User{ID: 7, Type: "shop", IsActive: true})
	if err := SetTokenAuthState(ctx, "abc", state); err != nil {
		t.Fatalf("set should be noop: %v", err)
	}
	got, hit, err := GetTokenAuthState(ctx, "abc")
	if err != nil || hit || got != nil {
		t.Fatalf("get should miss when disabled, hit=%v err=%v", hit, err)
	}
	if err := DelTokenAuthStates(ctx, "abc", "def"); err != nil {
		t.Fatalf("del should be noop: %v", err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("ping should be noop: %v", err)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	Use(nil, "orders-test")
	if got := buildKey(tokenAuthStateKey("k1")); got != "orders-test:auth:token:k1" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := buildKey("  "); got != "orders-test" {
		t.Fatalf("unexpected empty key: %s", got)
	}
}

func TestBuildTokenAuthState(t *testing.T) {
	if BuildTokenAuthState(nil) != nil {
		t.Fatalf("nil user should produce nil state")
	}
	state := BuildTokenAuthState(&models.User{ID: 3, Type: "buyer", IsActive: true})
	if state.UserID != 3 || state.UserType != "buyer" || !state.IsActive || state.UpdatedAt == 0 {
		t.Fatalf("unexpected state: %+v", state)
	}
}
