package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
// ReferrerID 指向推荐人，构成一片父指针森林；被推荐人不持有推荐人生命周期。
// 推荐图理论上无环，写入端不做强校验，遍历侧依赖层级上限保护（见 service/referral_tree.go）。
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                              // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`                 // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                                 // 密码哈希（不返回给前端）
	Name         string         `gorm:"default:''" json:"name"`                            // 姓名
	Phone        string         `gorm:"type:varchar(20);index" json:"phone"`               // 手机号
	Role         string         `gorm:"type:varchar(20);not null;index" json:"role"`       // 角色
	ReferralCode string         `gorm:"type:varchar(32);uniqueIndex" json:"referral_code"` // 推荐码
	ReferrerID   *uint          `gorm:"index" json:"referrer_id,omitempty"`                // 推荐人ID
	IsActive     bool           `gorm:"not null" json:"is_active"`                         // 是否激活，创建方必须显式赋值
	JoinedAt     time.Time      `gorm:"index" json:"joined_at"`                            // 加入时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                           // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间

	Referrer *User `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"` // 推荐人
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
