package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletService 钱包业务服务
type WalletService struct {
	walletRepo repository.WalletRepository
	userRepo   repository.UserRepository
}

// NewWalletService 创建钱包服务
func NewWalletService(walletRepo repository.WalletRepository, userRepo repository.UserRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo, userRepo: userRepo}
}

// GetOrCreateAccount 获取用户钱包账户，不存在则创建
func (s *WalletService) GetOrCreateAccount(userID uint) (*models.WalletAccount, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	account, err := s.walletRepo.GetAccountByUserID(userID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}

	account = &models.WalletAccount{UserID: userID}
	if err := s.walletRepo.CreateAccount(account); err != nil {
		if isUniqueViolation(err) {
			return s.walletRepo.GetAccountByUserID(userID)
		}
		return nil, err
	}
	return account, nil
}

// ListTransactions 分页查询钱包流水
func (s *WalletService) ListTransactions(filter repository.WalletTransactionListFilter) ([]models.WalletTransaction, int64, error) {
	return s.walletRepo.ListTransactions(filter)
}

// AdminAdjust 管理员手工调整余额（正数入账、负数扣减），留痕到流水
func (s *WalletService) AdminAdjust(userID uint, amount decimal.Decimal, remark string) (*models.WalletAccount, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	amount = amount.Round(2)
	if amount.IsZero() {
		return nil, ErrPayoutAmountInvalid
	}
	remark = strings.TrimSpace(remark)

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		walletRepoTx := s.walletRepo.WithTx(tx)
		account, err := walletRepoTx.GetAccountByUserIDForUpdate(userID)
		if err != nil {
			return err
		}
		if account == nil {
			account = &models.WalletAccount{UserID: userID}
			if err := walletRepoTx.CreateAccount(account); err != nil {
				return err
			}
		}

		direction := constants.WalletTxnDirectionIn
		magnitude := amount
		if amount.IsNegative() {
			direction = constants.WalletTxnDirectionOut
			magnitude = amount.Neg()
			ok, err := walletRepoTx.DebitBalance(account.ID, models.NewMoneyFromDecimal(magnitude))
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientBalance
			}
		} else {
			if err := walletRepoTx.CreditBalance(account.ID, models.NewMoneyFromDecimal(magnitude), false); err != nil {
				return err
			}
		}

		txn := &models.WalletTransaction{
			UserID:        userID,
			Type:          constants.WalletTxnTypeAdminAdjust,
			Direction:     direction,
			Amount:        models.NewMoneyFromDecimal(magnitude),
			BalanceBefore: account.Balance,
			BalanceAfter:  models.NewMoneyFromDecimal(account.Balance.Decimal.Add(amount)),
			Reference:     fmt.Sprintf("adjust:user:%d:%d", userID, time.Now().UnixNano()),
			Remark:        remark,
		}
		return walletRepoTx.CreateTransaction(txn)
	})
	if err != nil {
		return nil, err
	}
	return s.walletRepo.GetAccountByUserID(userID)
}
