package service

import "errors"

// 业务层哨兵错误，handler 层通过 errors.Is 映射为响应码。
var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email already registered")
	ErrUserDisabled        = errors.New("user disabled")
	ErrWeakPassword        = errors.New("password too weak")
	ErrReferralCodeInvalid = errors.New("referral code invalid")
	ErrRoleInvalid         = errors.New("role invalid")

	ErrProductInactive     = errors.New("product inactive")
	ErrProductInvalid      = errors.New("product data invalid")
	ErrCategoryNotEmpty    = errors.New("category still has products")
	ErrProductOutOfStock   = errors.New("product out of stock")
	ErrOrderEmpty          = errors.New("order has no items")
	ErrOrderStatusInvalid  = errors.New("order status invalid")
	ErrOrderNotCancellable = errors.New("order cannot be cancelled")

	ErrPaymentStatusInvalid = errors.New("payment status invalid")
	ErrPaymentVerifyFailed  = errors.New("payment signature verify failed")
	ErrPaymentOrderMismatch = errors.New("payment does not belong to order")

	ErrCommissionStatusInvalid = errors.New("commission status invalid")
	ErrCommissionTierInvalid   = errors.New("commission tier invalid")

	ErrPayoutAmountInvalid  = errors.New("payout amount invalid")
	ErrPayoutBelowMinimum   = errors.New("payout amount below minimum")
	ErrPayoutStatusInvalid  = errors.New("payout status invalid")
	ErrInsufficientBalance  = errors.New("insufficient wallet balance")
	ErrWalletAccountMissing = errors.New("wallet account missing")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
)
