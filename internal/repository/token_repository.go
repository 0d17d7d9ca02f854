package repository

import (
	"errors"

	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
)

// TokenRepository 邮箱确认令牌与登录令牌数据访问接口
type TokenRepository interface {
	WithTx(tx *gorm.DB) TokenRepository
	GetOrCreateConfirmToken(userID uint, key string) (*models.ConfirmEmailToken, error)
	GetConfirmToken(email, key string) (*models.ConfirmEmailToken, error)
	DeleteConfirmToken(id uint) error
	GetOrCreateAuthToken(userID uint, key string) (*models.AuthToken, error)
	GetAuthTokenByKey(key string) (*models.AuthToken, error)
	DeleteAuthTokensByUser(userID uint) ([]string, error)
}

// GormTokenRepository GORM 实现
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository 创建令牌仓库
func NewTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTokenRepository) WithTx(tx *gorm.DB) TokenRepository {
	if tx == nil {
		return r
	}
	return &GormTokenRepository{db: tx}
}

// GetOrCreateConfirmToken 获取用户已有确认令牌，不存在时以 key 创建
func (r *GormTokenRepository) GetOrCreateConfirmToken(userID uint, key string) (*models.ConfirmEmailToken, error) {
	var token models.ConfirmEmailToken
	err := r.db.Where(models.ConfirmEmailToken{UserID: userID}).
		Attrs(models.ConfirmEmailToken{Key: key}).
		FirstOrCreate(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetConfirmToken 按 (邮箱, 令牌) 精确匹配确认令牌
func (r *GormTokenRepository) GetConfirmToken(email, key string) (*models.ConfirmEmailToken, error) {
	var token models.ConfirmEmailToken
	err := r.db.Joins("JOIN users ON users.id = confirm_email_tokens.user_id").
		Where("confirm_email_tokens.key = ? AND users.email = ?", key, email).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// DeleteConfirmToken 删除确认令牌
func (r *GormTokenRepository) DeleteConfirmToken(id uint) error {
	return r.db.Delete(&models.ConfirmEmailToken{}, id).Error
}

// GetOrCreateAuthToken 获取或创建登录令牌
func (r *GormTokenRepository) GetOrCreateAuthToken(userID uint, key string) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.Where(models.AuthToken{UserID: userID}).
		Attrs(models.AuthToken{Key: key}).
		FirstOrCreate(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetAuthTokenByKey 按令牌获取登录令牌及其用户
func (r *GormTokenRepository) GetAuthTokenByKey(key string) (*models.AuthToken, error) {
	if key == "" {
		return nil, nil
	}
	var token models.AuthToken
	if err := r.db.Preload("User").Where("key = ?", key).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// DeleteAuthTokensByUser 删除用户全部登录令牌，返回被删除的令牌用于清理缓存
func (r *GormTokenRepository) DeleteAuthTokensByUser(userID uint) ([]string, error) {
	var keys []string
	if err := r.db.Model(&models.AuthToken{}).Where("user_id = ?", userID).Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	if err := r.db.Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
