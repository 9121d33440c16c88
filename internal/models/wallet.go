package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletAccount 钱包账户（与用户一对一）
// Balance 为可支配余额；TotalEarnings 为历史累计佣金收入，仅在佣金入账时增加、
// 订单取消冲正时减少；TotalWithdrawn 在提现打款后累加。
type WalletAccount struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                        // 主键
	UserID         uint           `gorm:"not null;uniqueIndex" json:"user_id"`                         // 用户ID
	Balance        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`        // 可用余额
	TotalEarnings  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_earnings"` // 累计收益
	TotalWithdrawn Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_withdrawn"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"` // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 用户信息
}

// TableName 指定表名
func (WalletAccount) TableName() string {
	return "wallet_accounts"
}

// WalletTransaction 钱包流水
// Reference 对同一业务事件唯一，用于幂等保护。
type WalletTransaction struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                // 主键
	UserID        uint           `gorm:"not null;index" json:"user_id"`                       // 用户ID
	OrderID       *uint          `gorm:"index" json:"order_id,omitempty"`                     // 关联订单ID
	PayoutID      *uint          `gorm:"index" json:"payout_id,omitempty"`                    // 关联提现ID
	Type          string         `gorm:"type:varchar(32);not null;index" json:"type"`         // 交易类型
	Direction     string         `gorm:"type:varchar(8);not null" json:"direction"`           // 方向 in/out
	Amount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"` // 金额
	BalanceBefore Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance_before"`
	BalanceAfter  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance_after"`
	Reference     string         `gorm:"type:varchar(128);uniqueIndex" json:"reference"` // 业务参考号
	Remark        string         `gorm:"type:varchar(255)" json:"remark"`                // 备注
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                        // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
