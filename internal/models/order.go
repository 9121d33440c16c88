package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单
// CommissionProcessed 标记该订单佣金是否已结算，
// 结算与置位在同一事务内完成，防止重复分佣。
type Order struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo             string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_no"`     // 订单号
	UserID              uint           `gorm:"not null;index" json:"user_id"`                             // 下单用户ID
	Status              string         `gorm:"type:varchar(32);not null;index" json:"status"`             // 订单状态
	Subtotal            Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`     // 商品小计
	ShippingFee         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"` // 运费
	TotalAmount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 应付总额
	CommissionProcessed bool           `gorm:"not null;default:false" json:"commission_processed"`        // 佣金是否已结算
	PaymentMethod       string         `gorm:"type:varchar(32)" json:"payment_method"`                    // 支付方式
	ShippingAddress     JSON           `gorm:"type:json" json:"shipping_address"`                         // 收货地址
	Remark              string         `gorm:"type:varchar(255)" json:"remark"`                           // 订单备注
	PaidAt              *time.Time     `json:"paid_at"`                                                   // 支付时间
	ShippedAt           *time.Time     `json:"shipped_at"`                                                // 发货时间
	DeliveredAt         *time.Time     `json:"delivered_at"`                                              // 签收时间
	CancelledAt         *time.Time     `json:"cancelled_at"`                                              // 取消时间
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt           time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	User  User        `gorm:"foreignKey:UserID" json:"user,omitempty"`   // 下单用户
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单明细
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单明细
// 下单时快照商品名和单价，后续改价不影响历史订单。
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID     uint      `gorm:"not null;index" json:"order_id"`                          // 订单ID
	ProductID   uint      `gorm:"not null;index" json:"product_id"`                        // 商品ID
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`          // 商品名称快照
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 成交单价
	Quantity    int       `gorm:"not null" json:"quantity"`                                // 数量
	Subtotal    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`   // 小计
	CreatedAt   time.Time `json:"created_at"`                                              // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                              // 更新时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
