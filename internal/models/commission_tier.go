package models

import (
	"time"

	"gorm.io/gorm"
)

// CommissionTier 层级佣金比例配置
// Level 唯一，RatePercent 为该层级上级拿到的订单金额百分比。
// 某层缺失或停用时，计算在该层直接截断。
type CommissionTier struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	Level       int            `gorm:"not null;uniqueIndex" json:"level"`                         // 层级（1 起）
	RatePercent Money          `gorm:"type:decimal(10,2);not null;default:0" json:"rate_percent"` // 佣金比例（百分比）
	IsActive    bool           `gorm:"not null" json:"is_active"`                                 // 是否启用，创建方必须显式赋值
	Remark      string         `gorm:"type:varchar(255)" json:"remark"`                           // 备注
	CreatedAt   time.Time      `json:"created_at"`                                                // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (CommissionTier) TableName() string {
	return "commission_tiers"
}
