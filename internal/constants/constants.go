package constants

// 用户角色常量
const (
	RoleAdmin      = "admin"
	RoleMember     = "member"
	RoleWholesaler = "wholesaler"
	RolePartTime   = "part_time"
	RoleCustomer   = "customer"
)

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// 佣金状态常量
const (
	CommissionStatusPending   = "pending"
	CommissionStatusApproved  = "approved"
	CommissionStatusPaid      = "paid"
	CommissionStatusCancelled = "cancelled"
)

// 佣金类型常量
const (
	CommissionTypeDirect = "direct"
	CommissionTypeLevel  = "level"
	CommissionTypeBonus  = "bonus"
)

// 提现申请状态常量
const (
	PayoutStatusPending  = "pending"
	PayoutStatusApproved = "approved"
	PayoutStatusRejected = "rejected"
	PayoutStatusPaid     = "paid"
)

// 提现审核动作常量
const (
	PayoutActionApprove = "approve"
	PayoutActionReject  = "reject"
	PayoutActionPay     = "pay"
)

// 钱包交易类型常量
const (
	WalletTxnTypeCommission         = "commission"
	WalletTxnTypeCommissionReversal = "commission_reversal"
	WalletTxnTypePayoutHold         = "payout_hold"
	WalletTxnTypePayoutRelease      = "payout_release"
	WalletTxnTypePayoutPaid         = "payout_paid"
	WalletTxnTypeAdminAdjust        = "admin_adjust"
)

// 钱包交易方向常量
const (
	WalletTxnDirectionIn  = "in"
	WalletTxnDirectionOut = "out"
)

// 支付记录状态常量
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
)

// 设置键常量
const (
	SettingKeySiteConfig     = "site_config"
	SettingKeyReferralConfig = "referral_config"
	SettingKeyOrderConfig    = "order_config"
)

// 设置字段常量
const (
	SettingFieldMinPayoutAmount      = "min_payout_amount"
	SettingFieldCommissionEnabled    = "commission_enabled"
	SettingFieldPaymentExpireMinutes = "payment_expire_minutes"
	SettingFieldFlatShippingFee      = "flat_shipping_fee"
	SettingFieldFreeShippingOver     = "free_shipping_over"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskWelcomeEmail       = "email:welcome"
	TaskOrderStatusEmail   = "email:order_status"
	TaskPayoutStatusEmail  = "email:payout_status"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
)

// TeamVolumeOrderStatuses 团队业绩计入的订单状态集合
var TeamVolumeOrderStatuses = []string{
	OrderStatusPaid,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// DefaultCommissionTierRates 默认佣金层级比例（level → 百分比），层级表为空时懒初始化写入
var DefaultCommissionTierRates = map[int]float64{
	1: 10,
	2: 5,
	3: 3,
	4: 2,
	5: 1,
}
