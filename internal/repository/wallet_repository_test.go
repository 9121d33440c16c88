package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/padmaaja-rasooi/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupWalletRepositoryTest(t *testing.T) (*GormWalletRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:wallet_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	return NewWalletRepository(db), db
}

func createRepoAccount(t *testing.T, repo *GormWalletRepository, userID uint, balance string) *models.WalletAccount {
	t.Helper()
	account := &models.WalletAccount{
		UserID:  userID,
		Balance: models.NewMoneyFromDecimal(decimal.RequireFromString(balance)),
	}
	if err := repo.CreateAccount(account); err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	return account
}

func reloadAccount(t *testing.T, db *gorm.DB, id uint) models.WalletAccount {
	t.Helper()
	var account models.WalletAccount
	if err := db.First(&account, id).Error; err != nil {
		t.Fatalf("reload account failed: %v", err)
	}
	return account
}

func TestCreditBalanceWithEarnings(t *testing.T) {
	repo, db := setupWalletRepositoryTest(t)
	account := createRepoAccount(t, repo, 1, "100.00")

	if err := repo.CreditBalance(account.ID, models.NewMoneyFromDecimal(decimal.RequireFromString("25.50")), true); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	got := reloadAccount(t, db, account.ID)
	if !got.Balance.Decimal.Equal(decimal.RequireFromString("125.50")) {
		t.Fatalf("balance want 125.50 got %s", got.Balance.Decimal.String())
	}
	if !got.TotalEarnings.Decimal.Equal(decimal.RequireFromString("25.50")) {
		t.Fatalf("earnings want 25.50 got %s", got.TotalEarnings.Decimal.String())
	}

	if err := repo.CreditBalance(account.ID, models.NewMoneyFromDecimal(decimal.NewFromInt(10)), false); err != nil {
		t.Fatalf("credit without earnings failed: %v", err)
	}
	got = reloadAccount(t, db, account.ID)
	if !got.TotalEarnings.Decimal.Equal(decimal.RequireFromString("25.50")) {
		t.Fatalf("earnings must stay 25.50, got %s", got.TotalEarnings.Decimal.String())
	}
}

func TestDebitBalanceConditional(t *testing.T) {
	repo, db := setupWalletRepositoryTest(t)
	account := createRepoAccount(t, repo, 1, "50.00")

	ok, err := repo.DebitBalance(account.ID, models.NewMoneyFromDecimal(decimal.NewFromInt(30)))
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected debit to succeed")
	}

	// 余额不足：不执行且返回 false
	ok, err = repo.DebitBalance(account.ID, models.NewMoneyFromDecimal(decimal.NewFromInt(30)))
	if err != nil {
		t.Fatalf("second debit failed: %v", err)
	}
	if ok {
		t.Fatalf("expected debit rejected on insufficient balance")
	}
	got := reloadAccount(t, db, account.ID)
	if !got.Balance.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("balance want 20 got %s", got.Balance.Decimal.String())
	}
}

func TestDebitBalanceWithEarningsAllowsNegative(t *testing.T) {
	repo, db := setupWalletRepositoryTest(t)
	account := createRepoAccount(t, repo, 1, "10.00")
	if err := repo.CreditBalance(account.ID, models.NewMoneyFromDecimal(decimal.NewFromInt(10)), true); err != nil {
		t.Fatalf("seed earnings failed: %v", err)
	}

	if err := repo.DebitBalanceWithEarnings(account.ID, models.NewMoneyFromDecimal(decimal.NewFromInt(30))); err != nil {
		t.Fatalf("debit with earnings failed: %v", err)
	}
	got := reloadAccount(t, db, account.ID)
	if !got.Balance.Decimal.Equal(decimal.NewFromInt(-10)) {
		t.Fatalf("balance want -10 got %s", got.Balance.Decimal.String())
	}
	if !got.TotalEarnings.Decimal.Equal(decimal.NewFromInt(-20)) {
		t.Fatalf("earnings want -20 got %s", got.TotalEarnings.Decimal.String())
	}
}

func TestAddWithdrawn(t *testing.T) {
	repo, db := setupWalletRepositoryTest(t)
	account := createRepoAccount(t, repo, 1, "0")

	if err := repo.AddWithdrawn(account.ID, models.NewMoneyFromDecimal(decimal.NewFromInt(200))); err != nil {
		t.Fatalf("add withdrawn failed: %v", err)
	}
	if err := repo.AddWithdrawn(account.ID, models.NewMoneyFromDecimal(decimal.NewFromInt(100))); err != nil {
		t.Fatalf("second add withdrawn failed: %v", err)
	}
	got := reloadAccount(t, db, account.ID)
	if !got.TotalWithdrawn.Decimal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("withdrawn want 300 got %s", got.TotalWithdrawn.Decimal.String())
	}
}

func TestGetTransactionByReference(t *testing.T) {
	repo, _ := setupWalletRepositoryTest(t)
	createRepoAccount(t, repo, 1, "0")

	txn := &models.WalletTransaction{
		UserID:    1,
		Type:      "commission",
		Direction: "in",
		Amount:    models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		Reference: "commission:1:order:2",
	}
	if err := repo.CreateTransaction(txn); err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}

	got, err := repo.GetTransactionByReference("commission:1:order:2")
	if err != nil {
		t.Fatalf("get by reference failed: %v", err)
	}
	if got == nil || got.ID != txn.ID {
		t.Fatalf("expected transaction found, got %+v", got)
	}

	missing, err := repo.GetTransactionByReference("commission:9:order:9")
	if err != nil {
		t.Fatalf("missing lookup failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown reference, got %+v", missing)
	}
	blank, err := repo.GetTransactionByReference("  ")
	if err != nil {
		t.Fatalf("blank lookup failed: %v", err)
	}
	if blank != nil {
		t.Fatalf("expected nil for blank reference")
	}
}

func TestGetAccountByUserIDMissing(t *testing.T) {
	repo, _ := setupWalletRepositoryTest(t)

	account, err := repo.GetAccountByUserID(42)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if account != nil {
		t.Fatalf("expected nil for missing account, got %+v", account)
	}
	account, err = repo.GetAccountByUserID(0)
	if err != nil || account != nil {
		t.Fatalf("zero user id must return nil, got %+v err=%v", account, err)
	}
}
