package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/orders-next/internal/cache"
	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserAuthService 用户注册、确认、登录与账户资料
type UserAuthService struct {
	cfg       *config.Config
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	notifier  *NotificationService
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, tokenRepo repository.TokenRepository, notifier *NotificationService) *UserAuthService {
	return &UserAuthService{
		cfg:       cfg,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		notifier:  notifier,
	}
}

// RegisterInput 注册参数
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Company   string
	Position  string
	Type      string
}

// UpdateDetailsInput 账户资料局部更新，nil 表示不修改
type UpdateDetailsInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Company   *string
	Position  *string
	Password  *string
}

// Register 创建未激活用户与确认令牌，并发送确认邮件
func (s *UserAuthService) Register(ctx context.Context, input RegisterInput, locale string) (*models.User, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	userType, err := normalizeUserType(input.Type)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        normalized,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Company:      strings.TrimSpace(input.Company),
		Position:     strings.TrimSpace(input.Position),
		Type:         userType,
		IsActive:     false,
	}
	var confirmKey string
	err = s.userRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailExists
			}
			return err
		}
		key, err := randomHexToken(constants.ConfirmEmailTokenByteSize)
		if err != nil {
			return err
		}
		token, err := s.tokenRepo.WithTx(tx).GetOrCreateConfirmToken(user.ID, key)
		if err != nil {
			return translateDBError(err)
		}
		confirmKey = token.Key
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyRegisterConfirm(user.Email, confirmKey, locale); err != nil {
		logger.FromContext(ctx).Warnw("user_register_confirm_notify_failed", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// ConfirmEmail (邮箱, 令牌) 精确匹配时激活用户并删除令牌
func (s *UserAuthService) ConfirmEmail(email, key string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return ErrConfirmTokenInvalid
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrConfirmTokenInvalid
	}
	token, err := s.tokenRepo.GetConfirmToken(normalized, key)
	if err != nil {
		return err
	}
	if token == nil {
		return ErrConfirmTokenInvalid
	}
	return s.userRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Activate(token.UserID); err != nil {
			return err
		}
		return s.tokenRepo.WithTx(tx).DeleteConfirmToken(token.ID)
	})
}

// Login 校验密码并返回（必要时创建）登录令牌
func (s *UserAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	key, err := randomHexToken(constants.AuthTokenByteSize)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokenRepo.GetOrCreateAuthToken(user.ID, key)
	if err != nil {
		return nil, "", translateDBError(err)
	}
	if err := cache.SetTokenAuthState(ctx, token.Key, cache.BuildTokenAuthState(user)); err != nil {
		logger.FromContext(ctx).Warnw("user_login_cache_auth_state_failed", "user_id", user.ID, "error", err)
	}
	return user, token.Key, nil
}

// Authenticate 按登录令牌解析鉴权状态，优先读缓存
func (s *UserAuthService) Authenticate(ctx context.Context, key string) (*cache.TokenAuthState, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrInvalidCredentials
	}
	state, hit, err := cache.GetTokenAuthState(ctx, key)
	if err != nil {
		logger.FromContext(ctx).Debugw("user_auth_state_cache_read_failed", "error", err)
	}
	if hit && state != nil {
		if !state.IsActive {
			return nil, ErrInvalidCredentials
		}
		return state, nil
	}

	token, err := s.tokenRepo.GetAuthTokenByKey(key)
	if err != nil {
		return nil, err
	}
	if token == nil || token.User == nil || !token.User.IsActive {
		return nil, ErrInvalidCredentials
	}
	state = cache.BuildTokenAuthState(token.User)
	if err := cache.SetTokenAuthState(ctx, key, state); err != nil {
		logger.FromContext(ctx).Debugw("user_auth_state_cache_write_failed", "error", err)
	}
	return state, nil
}

// Details 获取账户资料与联系方式
func (s *UserAuthService) Details(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetWithContacts(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateDetails 局部更新账户资料；修改密码时递增令牌版本并吊销登录令牌
func (s *UserAuthService) UpdateDetails(ctx context.Context, userID uint, input UpdateDetailsInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	fields := map[string]interface{}{}
	setTrimmed := func(column string, value *string) {
		if value != nil {
			fields[column] = strings.TrimSpace(*value)
		}
	}
	setTrimmed("first_name", input.FirstName)
	setTrimmed("last_name", input.LastName)
	setTrimmed("company", input.Company)
	setTrimmed("position", input.Position)
	if input.Email != nil {
		normalized, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		if normalized != user.Email {
			fields["email"] = normalized
		}
	}

	var passwordHash string
	if input.Password != nil {
		if err := validatePassword(s.cfg.Security.PasswordPolicy, *input.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		passwordHash = string(hashed)
	}

	var revoked []string
	err = s.userRepo.Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		if err := userRepo.UpdateFields(userID, fields); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailExists
			}
			return err
		}
		if passwordHash == "" {
			return nil
		}
		affected, err := userRepo.ChangePassword(userID, passwordHash, user.TokenVersion)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: token version changed", ErrIntegrityConflict)
		}
		revoked, err = s.tokenRepo.WithTx(tx).DeleteAuthTokensByUser(userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := cache.DelTokenAuthStates(ctx, revoked...); err != nil {
		logger.FromContext(ctx).Warnw("user_details_revoke_cache_failed", "user_id", userID, "error", err)
	}
	return s.Details(userID)
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func normalizeUserType(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", constants.UserTypeBuyer:
		return constants.UserTypeBuyer, nil
	case constants.UserTypeShop:
		return constants.UserTypeShop, nil
	default:
		return "", ErrInvalidInput
	}
}

func randomHexToken(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
