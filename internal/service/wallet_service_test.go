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

func setupWalletServiceTest(t *testing.T) (*WalletService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:wallet_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.WalletAccount{},
		&models.WalletTransaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewWalletService(
		repository.NewWalletRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func createWalletTestUser(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	user := models.User{
		ID:           id,
		Email:        fmt.Sprintf("wallet_user_%d@example.com", id),
		PasswordHash: "hash",
		Role:         constants.RoleMember,
		ReferralCode: fmt.Sprintf("WLLT%04d", id),
		IsActive:     true,
		JoinedAt:     time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
}

func TestGetOrCreateAccountIdempotent(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	createWalletTestUser(t, db, 1)

	first, err := svc.GetOrCreateAccount(1)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := svc.GetOrCreateAccount(1)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same account, got %d and %d", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&models.WalletAccount{}).Count(&count).Error; err != nil {
		t.Fatalf("count accounts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 account, got %d", count)
	}
}

func TestAdminAdjustCredit(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	createWalletTestUser(t, db, 1)

	account, err := svc.AdminAdjust(1, decimal.NewFromInt(250), "活动奖励补发")
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if !account.Balance.Decimal.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected balance 250, got %s", account.Balance.Decimal.String())
	}
	// 手工入账不计入累计收益
	if !account.TotalEarnings.Decimal.Equal(decimal.Zero) {
		t.Fatalf("expected zero earnings, got %s", account.TotalEarnings.Decimal.String())
	}

	var txn models.WalletTransaction
	if err := db.Where("type = ?", constants.WalletTxnTypeAdminAdjust).First(&txn).Error; err != nil {
		t.Fatalf("expected adjust transaction: %v", err)
	}
	if txn.Direction != constants.WalletTxnDirectionIn {
		t.Fatalf("expected incoming direction, got %s", txn.Direction)
	}
	if txn.Remark != "活动奖励补发" {
		t.Fatalf("expected remark persisted, got %q", txn.Remark)
	}
}

func TestAdminAdjustDebit(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	createWalletTestUser(t, db, 1)

	if _, err := svc.AdminAdjust(1, decimal.NewFromInt(300), "seed"); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	account, err := svc.AdminAdjust(1, decimal.NewFromInt(-120), "扣回重复佣金")
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if !account.Balance.Decimal.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("expected balance 180, got %s", account.Balance.Decimal.String())
	}
}

func TestAdminAdjustDebitInsufficient(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	createWalletTestUser(t, db, 1)

	if _, err := svc.AdminAdjust(1, decimal.NewFromInt(-50), "nope"); err != ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestAdminAdjustZeroAmount(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	createWalletTestUser(t, db, 1)

	if _, err := svc.AdminAdjust(1, decimal.Zero, "noop"); err != ErrPayoutAmountInvalid {
		t.Fatalf("expected ErrPayoutAmountInvalid, got %v", err)
	}
}

func TestListTransactionsFilterByUser(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	createWalletTestUser(t, db, 1)
	createWalletTestUser(t, db, 2)

	if _, err := svc.AdminAdjust(1, decimal.NewFromInt(100), "a"); err != nil {
		t.Fatalf("adjust user 1 failed: %v", err)
	}
	if _, err := svc.AdminAdjust(2, decimal.NewFromInt(200), "b"); err != nil {
		t.Fatalf("adjust user 2 failed: %v", err)
	}

	txns, total, err := svc.ListTransactions(repository.WalletTransactionListFilter{UserID: 1, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(txns) != 1 {
		t.Fatalf("expected 1 transaction for user 1, got total=%d len=%d", total, len(txns))
	}
	if txns[0].UserID != 1 {
		t.Fatalf("unexpected user id %d", txns[0].UserID)
	}
}
