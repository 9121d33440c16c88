package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/payment/razorpay"
	"github.com/padmaaja-rasooi/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const paymentTestKeySecret = "test_key_secret"

func setupPaymentServiceTest(t *testing.T) (*PaymentService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Commission{},
		&models.CommissionTier{},
		&models.WalletAccount{},
		&models.WalletTransaction{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	settingService := NewSettingService(repository.NewSettingRepository(db))
	commissionService := NewCommissionService(
		repository.NewCommissionRepository(db),
		userRepo,
		orderRepo,
		repository.NewWalletRepository(db),
		NewCommissionTierService(repository.NewCommissionTierRepository(db)),
		NewReferralTreeService(userRepo),
		settingService,
		0,
	)
	orderService := NewOrderService(
		orderRepo,
		repository.NewProductRepository(db),
		userRepo,
		settingService,
		commissionService,
		nil,
		30,
	)
	svc := NewPaymentService(
		repository.NewPaymentRepository(db),
		orderRepo,
		orderService,
		commissionService,
		razorpay.New("rzp_test_key", paymentTestKeySecret),
	)
	return svc, db
}

func createPaymentTestUser(t *testing.T, db *gorm.DB, id uint, referrerID *uint) {
	t.Helper()
	user := models.User{
		ID:           id,
		Email:        fmt.Sprintf("pay_user_%d@example.com", id),
		PasswordHash: "hash",
		Role:         constants.RoleMember,
		ReferralCode: fmt.Sprintf("PAYM%04d", id),
		ReferrerID:   referrerID,
		IsActive:     true,
		JoinedAt:     time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
}

func createPendingOrder(t *testing.T, db *gorm.DB, userID uint, total int64) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:     fmt.Sprintf("PRPAY%d%d", userID, time.Now().UnixNano()),
		UserID:      userID,
		Status:      constants.OrderStatusPending,
		Subtotal:    models.NewMoneyFromDecimal(decimal.NewFromInt(total)),
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(total)),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func signCheckout(gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(paymentTestKeySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateCheckout(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	createPaymentTestUser(t, db, 1, nil)
	order := createPendingOrder(t, db, 1, 500)

	session, err := svc.CreateCheckout(1, order.ID, "order_rzp_001")
	if err != nil {
		t.Fatalf("create checkout failed: %v", err)
	}
	if session.KeyID != "rzp_test_key" {
		t.Fatalf("expected gateway key id, got %q", session.KeyID)
	}
	if session.GatewayOrderID != "order_rzp_001" {
		t.Fatalf("expected gateway order id, got %q", session.GatewayOrderID)
	}
	if !session.Amount.Decimal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected amount 500, got %s", session.Amount.Decimal.String())
	}
	if session.Currency != "INR" {
		t.Fatalf("expected INR, got %q", session.Currency)
	}

	var payment models.Payment
	if err := db.First(&payment, session.PaymentID).Error; err != nil {
		t.Fatalf("load payment failed: %v", err)
	}
	if payment.Status != constants.PaymentStatusInitiated {
		t.Fatalf("expected initiated, got %s", payment.Status)
	}
}

func TestCreateCheckoutRejectsPaidOrder(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	createPaymentTestUser(t, db, 1, nil)
	order := createPendingOrder(t, db, 1, 500)
	now := time.Now()
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{"status": constants.OrderStatusPaid, "paid_at": now}).Error; err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	if _, err := svc.CreateCheckout(1, order.ID, "order_rzp_002"); err != ErrOrderStatusInvalid {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}
}

func TestCreateCheckoutOwnership(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	createPaymentTestUser(t, db, 1, nil)
	createPaymentTestUser(t, db, 2, nil)
	order := createPendingOrder(t, db, 1, 500)

	if _, err := svc.CreateCheckout(2, order.ID, "order_rzp_003"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
}

func TestVerifyAndCaptureSuccess(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	uid1 := uint(1)
	createPaymentTestUser(t, db, 1, nil)
	createPaymentTestUser(t, db, 2, &uid1)
	order := createPendingOrder(t, db, 2, 1000)

	if _, err := svc.CreateCheckout(2, order.ID, "order_rzp_100"); err != nil {
		t.Fatalf("create checkout failed: %v", err)
	}

	payment, err := svc.VerifyAndCapture(2, VerifyInput{
		OrderID:          order.ID,
		GatewayOrderID:   "order_rzp_100",
		GatewayPaymentID: "pay_rzp_100",
		Signature:        signCheckout("order_rzp_100", "pay_rzp_100"),
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if payment.Status != constants.PaymentStatusSuccess {
		t.Fatalf("expected success, got %s", payment.Status)
	}
	if payment.GatewayPayID != "pay_rzp_100" {
		t.Fatalf("expected gateway pay id persisted, got %q", payment.GatewayPayID)
	}
	if payment.PaidAt == nil {
		t.Fatalf("expected paid_at set")
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPaid {
		t.Fatalf("expected order paid, got %s", reloaded.Status)
	}

	// 网关验签通过的佣金直接入账
	var commission models.Commission
	if err := db.Where("order_id = ?", order.ID).First(&commission).Error; err != nil {
		t.Fatalf("expected commission created: %v", err)
	}
	if commission.Status != constants.CommissionStatusApproved {
		t.Fatalf("expected approved commission, got %s", commission.Status)
	}
	var account models.WalletAccount
	if err := db.Where("user_id = ?", 1).First(&account).Error; err != nil {
		t.Fatalf("load wallet failed: %v", err)
	}
	// 一级 10%：1000 → 100
	if !account.Balance.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance 100, got %s", account.Balance.Decimal.String())
	}
}

func TestVerifyAndCaptureBadSignature(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	createPaymentTestUser(t, db, 1, nil)
	order := createPendingOrder(t, db, 1, 500)

	session, err := svc.CreateCheckout(1, order.ID, "order_rzp_200")
	if err != nil {
		t.Fatalf("create checkout failed: %v", err)
	}

	if _, err := svc.VerifyAndCapture(1, VerifyInput{
		OrderID:          order.ID,
		GatewayOrderID:   "order_rzp_200",
		GatewayPaymentID: "pay_rzp_200",
		Signature:        "deadbeef",
	}); err != ErrPaymentVerifyFailed {
		t.Fatalf("expected ErrPaymentVerifyFailed, got %v", err)
	}

	var payment models.Payment
	if err := db.First(&payment, session.PaymentID).Error; err != nil {
		t.Fatalf("load payment failed: %v", err)
	}
	if payment.Status != constants.PaymentStatusFailed {
		t.Fatalf("expected failed, got %s", payment.Status)
	}
	if payment.FailureReason == "" {
		t.Fatalf("expected failure reason recorded")
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	// 验签失败订单保持待支付
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("expected order still pending, got %s", reloaded.Status)
	}
}

func TestVerifyAndCaptureReplayReturnsExisting(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	createPaymentTestUser(t, db, 1, nil)
	order := createPendingOrder(t, db, 1, 500)

	if _, err := svc.CreateCheckout(1, order.ID, "order_rzp_300"); err != nil {
		t.Fatalf("create checkout failed: %v", err)
	}
	input := VerifyInput{
		OrderID:          order.ID,
		GatewayOrderID:   "order_rzp_300",
		GatewayPaymentID: "pay_rzp_300",
		Signature:        signCheckout("order_rzp_300", "pay_rzp_300"),
	}
	first, err := svc.VerifyAndCapture(1, input)
	if err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	second, err := svc.VerifyAndCapture(1, input)
	if err != nil {
		t.Fatalf("replay verify failed: %v", err)
	}
	if first.ID != second.ID || second.Status != constants.PaymentStatusSuccess {
		t.Fatalf("expected same successful payment on replay, got %+v", second)
	}

	var count int64
	if err := db.Model(&models.Commission{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count commissions failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("buyer without referrer must yield no commissions, got %d", count)
	}
}
