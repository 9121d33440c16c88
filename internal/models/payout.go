package models

import (
	"time"

	"gorm.io/gorm"
)

// Payout 提现申请
// 申请时立即冻结钱包余额，状态机 pending -> approved -> paid，
// pending -> rejected 时解冻退回余额。
type Payout struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                   // 主键
	PayoutNo    string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"payout_no"` // 提现单号
	UserID      uint           `gorm:"not null;index" json:"user_id"`                          // 用户ID
	Amount      Money          `gorm:"type:decimal(20,2);not null" json:"amount"`              // 提现金额
	Status      string         `gorm:"type:varchar(32);not null;index" json:"status"`          // 提现状态
	BankDetails JSON           `gorm:"type:json" json:"bank_details"`                          // 收款信息（银行/UPI）
	AdminNote   string         `gorm:"type:varchar(255)" json:"admin_note"`                    // 审核备注
	ProcessedBy *uint          `gorm:"index" json:"processed_by"`                              // 处理管理员ID
	ProcessedAt *time.Time     `json:"processed_at"`                                           // 处理时间
	PaidAt      *time.Time     `json:"paid_at"`                                                // 打款时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                             // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                         // 软删除时间

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 申请用户
}

// TableName 指定表名
func (Payout) TableName() string {
	return "payouts"
}
