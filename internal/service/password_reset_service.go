package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/orders-next/internal/cache"
	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultResetExpireMinutes = 30

// PasswordResetClaims 密码重置令牌声明，Version 与用户 token_version 对应，改密后自然失效
type PasswordResetClaims struct {
	Version uint64 `json:"ver"`
	jwt.RegisteredClaims
}

// PasswordResetService 密码重置
type PasswordResetService struct {
	cfg       *config.Config
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	notifier  *NotificationService
	now       func() time.Time
}

// NewPasswordResetService 创建密码重置服务
func NewPasswordResetService(cfg *config.Config, userRepo repository.UserRepository, tokenRepo repository.TokenRepository, notifier *NotificationService) *PasswordResetService {
	return &PasswordResetService{
		cfg:       cfg,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Request 为已存在的用户签发重置令牌并发送邮件；用户不存在时静默成功
func (s *PasswordResetService) Request(ctx context.Context, email, locale string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		logger.FromContext(ctx).Debugw("password_reset_skip_unknown_email")
		return nil
	}
	token, err := s.issue(user.ID, user.TokenVersion)
	if err != nil {
		return err
	}
	if err := s.notifier.NotifyPasswordReset(user.Email, token, locale); err != nil {
		logger.FromContext(ctx).Warnw("password_reset_notify_failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// Confirm 校验令牌后设置新密码，递增令牌版本并吊销登录令牌
func (s *PasswordResetService) Confirm(ctx context.Context, token, password string) error {
	claims, err := s.parse(token)
	if err != nil {
		return ErrResetTokenInvalid
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return ErrResetTokenInvalid
	}
	user, err := s.userRepo.GetByID(uint(userID))
	if err != nil {
		return err
	}
	if user == nil || user.TokenVersion != claims.Version {
		return ErrResetTokenInvalid
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var revoked []string
	err = s.userRepo.Transaction(func(tx *gorm.DB) error {
		affected, err := s.userRepo.WithTx(tx).ChangePassword(user.ID, string(hashed), claims.Version)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrResetTokenInvalid
		}
		revoked, err = s.tokenRepo.WithTx(tx).DeleteAuthTokensByUser(user.ID)
		return err
	})
	if err != nil {
		return err
	}
	if err := cache.DelTokenAuthStates(ctx, revoked...); err != nil {
		logger.FromContext(ctx).Warnw("password_reset_revoke_cache_failed", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *PasswordResetService) issue(userID uint, version uint64) (string, error) {
	now := s.now()
	claims := PasswordResetClaims{
		Version: version,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(resolveResetExpireMinutes(s.cfg.JWT)) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}

func (s *PasswordResetService) parse(tokenString string) (*PasswordResetClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	claims := &PasswordResetClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("无效的 token")
	}
	return claims, nil
}

func resolveResetExpireMinutes(cfg config.JWTConfig) int {
	if cfg.ResetExpireMinutes <= 0 {
		return defaultResetExpireMinutes
	}
	return cfg.ResetExpireMinutes
}
