package models

import (
	"time"
)

// User 用户表（买家或供应商）
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                 // 主键
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`  // 邮箱（小写）
	PasswordHash string    `gorm:"not null" json:"-"`                                    // 密码哈希（不返回给前端）
	FirstName    string    `gorm:"type:varchar(64);not null;default:''" json:"first_name"` // 名
	LastName     string    `gorm:"type:varchar(64);not null;default:''" json:"last_name"`  // 姓
	Company      string    `gorm:"type:varchar(128);not null;default:''" json:"company"`   // 公司
	Position     string    `gorm:"type:varchar(128);not null;default:''" json:"position"`  // 职位
	Type         string    `gorm:"type:varchar(16);not null;default:'buyer'" json:"type"`  // 用户类型（buyer/shop）
	IsActive     bool      `gorm:"not null;default:false" json:"is_active"`              // 邮箱确认后激活
	TokenVersion uint64    `gorm:"not null;default:0" json:"-"`                          // 令牌版本（改密后递增，使重置令牌失效）
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                           // 更新时间

	Contacts []Contact `gorm:"foreignKey:UserID" json:"contacts,omitempty"` // 联系方式
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// ConfirmEmailToken 邮箱确认令牌，注册时创建，确认成功后删除
type ConfirmEmailToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`                          // 主键
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`           // 用户ID
	Key       string    `gorm:"type:varchar(64);index;not null" json:"-"`      // 令牌
	CreatedAt time.Time `json:"created_at"`                                    // 创建时间
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"` // 关联用户
}

// TableName 指定表名
func (ConfirmEmailToken) TableName() string {
	return "confirm_email_tokens"
}

// AuthToken 登录令牌（不透明 Bearer Token，每个用户一条）
type AuthToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`                // 用户ID
	Key       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`     // 令牌
	CreatedAt time.Time `json:"created_at"`                                         // 创建时间
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"` // 关联用户
}

// TableName 指定表名
func (AuthToken) TableName() string {
	return "auth_tokens"
}
