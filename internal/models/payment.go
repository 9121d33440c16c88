package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付单
// 记录 Razorpay 支付流水，网关回执验签通过后置为 success。
type Payment struct {
	ID             uint           `gorm:"primarykey" json:"id"`                              // 主键
	OrderID        uint           `gorm:"not null;index" json:"order_id"`                    // 订单ID
	Method         string         `gorm:"type:varchar(32);not null" json:"method"`           // 支付方式
	Amount         Money          `gorm:"type:decimal(20,2);not null" json:"amount"`         // 支付金额
	Status         string         `gorm:"type:varchar(32);not null;index" json:"status"`     // 支付状态
	GatewayOrderID string         `gorm:"type:varchar(128);index" json:"gateway_order_id"`   // 网关订单号
	GatewayPayID   string         `gorm:"type:varchar(128);index" json:"gateway_payment_id"` // 网关支付号
	FailureReason  string         `gorm:"type:varchar(255)" json:"failure_reason"`           // 失败原因
	PaidAt         *time.Time     `json:"paid_at"`                                           // 支付完成时间
	CreatedAt      time.Time      `json:"created_at"`                                        // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                        // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间

	Order Order `gorm:"foreignKey:OrderID" json:"order,omitempty"` // 关联订单
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
