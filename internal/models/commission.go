package models

import (
	"time"

	"gorm.io/gorm"
)

// Commission 佣金记录
// 一条记录对应一笔订单在推荐链某一层级的分成：UserID 为受益的上级，
// FromUserID 为下单的下级，Level 为两者之间的推荐距离（1 起）。
// 记录只改状态、不删除，订单取消时转 cancelled 并回冲钱包。
type Commission struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                              // 主键
	UserID      uint           `gorm:"not null;index;index:idx_commission_unique,unique" json:"user_id"`  // 受益人ID
	FromUserID  uint           `gorm:"not null;index" json:"from_user_id"`                                // 下单用户ID
	OrderID     uint           `gorm:"not null;index;index:idx_commission_unique,unique" json:"order_id"` // 订单ID
	Level       int            `gorm:"not null;index:idx_commission_unique,unique" json:"level"`          // 层级（1 起）
	Type        string         `gorm:"type:varchar(20);not null;default:'level'" json:"type"`             // 佣金类型
	BaseAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"base_amount"`          // 佣金基数金额
	RatePercent Money          `gorm:"type:decimal(10,2);not null;default:0" json:"rate_percent"`         // 佣金比例（百分比）
	Amount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`               // 佣金金额
	Status      string         `gorm:"type:varchar(32);not null;index" json:"status"`                     // 佣金状态
	Remark      string         `gorm:"type:varchar(255)" json:"remark"`                                   // 备注/取消原因
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                           // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                                    // 软删除时间

	User     User  `gorm:"foreignKey:UserID" json:"user,omitempty"`          // 受益人
	FromUser User  `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"` // 下单用户
	Order    Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`        // 关联订单
}

// TableName 指定表名
func (Commission) TableName() string {
	return "commissions"
}
