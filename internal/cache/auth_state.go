package cache

import (
	"context"
	"time"

	"github.com/orders-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// TokenAuthState 登录令牌鉴权快照，避免每个请求都回表
type TokenAuthState struct {
	UserID    uint   `json:"user_id"`
	UserType  string `json:"user_type"`
	IsActive  bool   `json:"is_active"`
	UpdatedAt int64  `json:"updated_at"`
}

func tokenAuthStateKey(key string) string {
	return "auth:token:" + key
}

// BuildTokenAuthState 从用户模型构建鉴权快照
func BuildTokenAuthState(user *models.User) *TokenAuthState {
	if user == nil {
		return nil
	}
	return &TokenAuthState{
		UserID:    user.ID,
		UserType:  user.Type,
		IsActive:  user.IsActive,
		UpdatedAt: time.Now().Unix(),
	}
}

// GetTokenAuthState 获取令牌鉴权快照
func GetTokenAuthState(ctx context.Context, key string) (*TokenAuthState, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	var state TokenAuthState
	hit, err := GetJSON(ctx, tokenAuthStateKey(key), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetTokenAuthState 写入令牌鉴权快照
func SetTokenAuthState(ctx context.Context, key string, state *TokenAuthState) error {
	if key == "" || state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, tokenAuthStateKey(key), state, authStateCacheTTL)
}

// DelTokenAuthStates 删除令牌鉴权快照
func DelTokenAuthStates(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, key := range keys {
		full = append(full, tokenAuthStateKey(key))
	}
	return Del(ctx, full...)
}
