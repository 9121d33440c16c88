package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	settingService := NewSettingService(repository.NewSettingRepository(db))
	commissionService := NewCommissionService(
		repository.NewCommissionRepository(db),
		userRepo,
		repository.NewOrderRepository(db),
		repository.NewWalletRepository(db),
		NewCommissionTierService(repository.NewCommissionTierRepository(db)),
		NewReferralTreeService(userRepo),
		settingService,
		0,
	)
	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		userRepo,
		settingService,
		commissionService,
		nil,
		30,
	)
	return svc, db
}

func createOrderTestUser(t *testing.T, db *gorm.DB, id uint, referrerID *uint) {
	t.Helper()
	user := models.User{
		ID:           id,
		Email:        fmt.Sprintf("order_user_%d@example.com", id),
		PasswordHash: "hash",
		Role:         constants.RoleMember,
		ReferralCode: fmt.Sprintf("ORDR%04d", id),
		ReferrerID:   referrerID,
		IsActive:     true,
		JoinedAt:     time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
}

func createTestProduct(t *testing.T, db *gorm.DB, id uint, price int64, stock int) {
	t.Helper()
	product := models.Product{
		ID:       id,
		Name:     fmt.Sprintf("Test Rice %d", id),
		Slug:     fmt.Sprintf("test-rice-%d", id),
		Price:    models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Stock:    stock,
		IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.Stock
}

func TestCreateOrderDecrementsStockAndTotals(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createOrderTestUser(t, db, 1, nil)
	createTestProduct(t, db, 1, 185, 10)
	createTestProduct(t, db, 2, 420, 5)

	order, err := svc.Create(1, CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
		ShippingAddress: map[string]interface{}{"city": "Pune", "pincode": "411001"},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending, got %s", order.Status)
	}
	if order.OrderNo == "" {
		t.Fatalf("expected order no assigned")
	}
	// 185*2 + 420 = 790
	if !order.Subtotal.Decimal.Equal(decimal.NewFromInt(790)) {
		t.Fatalf("expected subtotal 790, got %s", order.Subtotal.Decimal.String())
	}
	if productStock(t, db, 1) != 8 {
		t.Fatalf("expected stock 8 for product 1, got %d", productStock(t, db, 1))
	}
	if productStock(t, db, 2) != 4 {
		t.Fatalf("expected stock 4 for product 2, got %d", productStock(t, db, 2))
	}

	var itemCount int64
	if err := db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if itemCount != 2 {
		t.Fatalf("expected 2 order items, got %d", itemCount)
	}
}

func TestCreateOrderShippingFee(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createOrderTestUser(t, db, 1, nil)
	createTestProduct(t, db, 1, 100, 20)

	setting := models.Setting{
		Key: constants.SettingKeyOrderConfig,
		Value: models.JSON{
			constants.SettingFieldFlatShippingFee:  40,
			constants.SettingFieldFreeShippingOver: 500,
		},
	}
	if err := db.Create(&setting).Error; err != nil {
		t.Fatalf("create setting failed: %v", err)
	}

	small, err := svc.Create(1, CreateOrderInput{Items: []OrderItemInput{{ProductID: 1, Quantity: 2}}})
	if err != nil {
		t.Fatalf("create small order failed: %v", err)
	}
	if !small.ShippingFee.Decimal.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected shipping fee 40, got %s", small.ShippingFee.Decimal.String())
	}
	if !small.TotalAmount.Decimal.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("expected total 240, got %s", small.TotalAmount.Decimal.String())
	}

	big, err := svc.Create(1, CreateOrderInput{Items: []OrderItemInput{{ProductID: 1, Quantity: 6}}})
	if err != nil {
		t.Fatalf("create big order failed: %v", err)
	}
	// 满 500 免运费
	if !big.ShippingFee.Decimal.Equal(decimal.Zero) {
		t.Fatalf("expected free shipping, got %s", big.ShippingFee.Decimal.String())
	}
}

func TestCreateOrderOutOfStockRollsBack(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createOrderTestUser(t, db, 1, nil)
	createTestProduct(t, db, 1, 185, 10)
	createTestProduct(t, db, 2, 420, 1)

	_, err := svc.Create(1, CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: 1, Quantity: 3},
			{ProductID: 2, Quantity: 2},
		},
	})
	if err != ErrProductOutOfStock {
		t.Fatalf("expected ErrProductOutOfStock, got %v", err)
	}
	// 整单回滚：已扣的库存也要还原
	if productStock(t, db, 1) != 10 {
		t.Fatalf("expected stock 10 after rollback, got %d", productStock(t, db, 1))
	}
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orders, got %d", count)
	}
}

func TestCreateOrderEmptyItems(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createOrderTestUser(t, db, 1, nil)

	if _, err := svc.Create(1, CreateOrderInput{}); err != ErrOrderEmpty {
		t.Fatalf("expected ErrOrderEmpty, got %v", err)
	}
	if _, err := svc.Create(1, CreateOrderInput{Items: []OrderItemInput{{ProductID: 1, Quantity: 0}}}); err != ErrOrderEmpty {
		t.Fatalf("expected ErrOrderEmpty for zero quantity, got %v", err)
	}
}

func TestConfirmPaidManualSettlesPendingCommission(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	uid1 := uint(1)
	createOrderTestUser(t, db, 1, nil)
	createOrderTestUser(t, db, 2, &uid1)
	createTestProduct(t, db, 1, 500, 10)

	order, err := svc.Create(2, CreateOrderInput{Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	paid, err := svc.ConfirmPaidManual(order.ID, "manual")
	if err != nil {
		t.Fatalf("confirm paid failed: %v", err)
	}
	if paid.Status != constants.OrderStatusPaid {
		t.Fatalf("expected paid, got %s", paid.Status)
	}
	if paid.PaidAt == nil {
		t.Fatalf("expected paid_at set")
	}
	if !paid.CommissionProcessed {
		t.Fatalf("expected commission processed flag")
	}

	var commission models.Commission
	if err := db.Where("order_id = ?", order.ID).First(&commission).Error; err != nil {
		t.Fatalf("expected commission created: %v", err)
	}
	// 人工确认的佣金待管理员审核，但结算时已入账
	if commission.Status != constants.CommissionStatusPending {
		t.Fatalf("expected pending commission, got %s", commission.Status)
	}
	var account models.WalletAccount
	if err := db.Where("user_id = ?", 1).First(&account).Error; err != nil {
		t.Fatalf("load wallet account failed: %v", err)
	}
	if !account.Balance.Decimal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected referrer credited 50 at settlement, got %s", account.Balance.Decimal.String())
	}
}

func TestConfirmPaidManualRejectsNonPending(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createOrderTestUser(t, db, 1, nil)
	createTestProduct(t, db, 1, 100, 10)

	order, err := svc.Create(1, CreateOrderInput{Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.ConfirmPaidManual(order.ID, "manual"); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	if _, err := svc.ConfirmPaidManual(order.ID, "manual"); err != ErrOrderStatusInvalid {
		t.Fatalf("expected ErrOrderStatusInvalid on replay, got %v", err)
	}
}

func TestCancelRestocksAndReversesCommission(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	uid1 := uint(1)
	createOrderTestUser(t, db, 1, nil)
	createOrderTestUser(t, db, 2, &uid1)
	createTestProduct(t, db, 1, 1000, 10)

	order, err := svc.Create(2, CreateOrderInput{Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.ConfirmPaidManual(order.ID, "manual"); err != nil {
		t.Fatalf("confirm paid failed: %v", err)
	}

	cancelled, err := svc.Cancel(order.ID, "customer request")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Fatalf("expected cancelled_at set")
	}
	if productStock(t, db, 1) != 10 {
		t.Fatalf("expected stock restored to 10, got %d", productStock(t, db, 1))
	}

	var commission models.Commission
	if err := db.Where("order_id = ?", order.ID).First(&commission).Error; err != nil {
		t.Fatalf("load commission failed: %v", err)
	}
	if commission.Status != constants.CommissionStatusCancelled {
		t.Fatalf("expected cancelled commission, got %s", commission.Status)
	}
	var account models.WalletAccount
	if err := db.Where("user_id = ?", 1).First(&account).Error; err != nil {
		t.Fatalf("load wallet account failed: %v", err)
	}
	if !account.Balance.Decimal.IsZero() {
		t.Fatalf("expected settled amount reversed, got %s", account.Balance.Decimal.String())
	}
}

func TestCancelShippedNotAllowed(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createOrderTestUser(t, db, 1, nil)
	createTestProduct(t, db, 1, 100, 10)

	order, err := svc.Create(1, CreateOrderInput{Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.ConfirmPaidManual(order.ID, "manual"); err != nil {
		t.Fatalf("confirm paid failed: %v", err)
	}
	if _, err := svc.Ship(order.ID); err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if _, err := svc.Cancel(order.ID, "too late"); err != ErrOrderNotCancellable {
		t.Fatalf("expected ErrOrderNotCancellable, got %v", err)
	}
}

func TestShipDeliverTransitions(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createOrderTestUser(t, db, 1, nil)
	createTestProduct(t, db, 1, 100, 10)

	order, err := svc.Create(1, CreateOrderInput{Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	// 未支付不可发货
	if _, err := svc.Ship(order.ID); err != ErrOrderStatusInvalid {
		t.Fatalf("expected ErrOrderStatusInvalid for ship on pending, got %v", err)
	}
	if _, err := svc.ConfirmPaidManual(order.ID, "manual"); err != nil {
		t.Fatalf("confirm paid failed: %v", err)
	}
	shipped, err := svc.Ship(order.ID)
	if err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if shipped.Status != constants.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", shipped.Status)
	}
	delivered, err := svc.Deliver(order.ID)
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if delivered.Status != constants.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", delivered.Status)
	}
}

func TestCancelExpiredPending(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createOrderTestUser(t, db, 1, nil)
	createTestProduct(t, db, 1, 100, 10)

	stale, err := svc.Create(1, CreateOrderInput{Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}})
	if err != nil {
		t.Fatalf("create stale order failed: %v", err)
	}
	fresh, err := svc.Create(1, CreateOrderInput{Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}})
	if err != nil {
		t.Fatalf("create fresh order failed: %v", err)
	}

	backdated := time.Now().Add(-2 * time.Hour)
	if err := db.Model(&models.Order{}).Where("id = ?", stale.ID).Update("created_at", backdated).Error; err != nil {
		t.Fatalf("backdate order failed: %v", err)
	}

	cancelled, err := svc.CancelExpiredPending(30)
	if err != nil {
		t.Fatalf("cancel expired failed: %v", err)
	}
	if cancelled != 1 {
		t.Fatalf("expected 1 cancelled, got %d", cancelled)
	}

	got, err := svc.GetByID(stale.ID, 0)
	if err != nil {
		t.Fatalf("load stale order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected stale order cancelled, got %s", got.Status)
	}
	got, err = svc.GetByID(fresh.ID, 0)
	if err != nil {
		t.Fatalf("load fresh order failed: %v", err)
	}
	if got.Status != constants.OrderStatusPending {
		t.Fatalf("fresh order must stay pending, got %s", got.Status)
	}
}

func TestGetByIDOwnership(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createOrderTestUser(t, db, 1, nil)
	createOrderTestUser(t, db, 2, nil)
	createTestProduct(t, db, 1, 100, 10)

	order, err := svc.Create(1, CreateOrderInput{Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.GetByID(order.ID, 2); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if _, err := svc.GetByID(order.ID, 1); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
}
