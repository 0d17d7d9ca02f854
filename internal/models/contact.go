package models

import "time"

// Contact 收货联系方式
type Contact struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                  // 主键
	UserID    uint      `gorm:"index;not null" json:"-"`                               // 所属用户
	City      string    `gorm:"type:varchar(64);not null" json:"city"`                 // 城市
	Street    string    `gorm:"type:varchar(128);not null" json:"street"`              // 街道
	House     string    `gorm:"type:varchar(16);not null;default:''" json:"house"`     // 门牌
	Structure string    `gorm:"type:varchar(16);not null;default:''" json:"structure"` // 栋
	Building  string    `gorm:"type:varchar(16);not null;default:''" json:"building"`  // 楼
	Apartment string    `gorm:"type:varchar(16);not null;default:''" json:"apartment"` // 房间
	Phone     string    `gorm:"type:varchar(32);not null" json:"phone"`                // 电话
	CreatedAt time.Time `json:"created_at"`                                            // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                            // 更新时间
}

// TableName 指定表名
func (Contact) TableName() string {
	return "contacts"
}
