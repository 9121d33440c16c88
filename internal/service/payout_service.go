package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/logger"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/queue"
	"github.com/padmaaja-rasooi/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// defaultMinPayoutAmount 未配置时的最低提现额
var defaultMinPayoutAmount = decimal.NewFromInt(100)

// PayoutService 提现业务服务
// 申请即冻结：余额条件扣减成功才建单，拒绝时原额退回，
// 打款只追加已提现累计，不再动余额。
type PayoutService struct {
	payoutRepo      repository.PayoutRepository
	walletRepo      repository.WalletRepository
	userRepo        repository.UserRepository
	settingService  *SettingService
	queueClient     *queue.Client
	minPayoutAmount decimal.Decimal
}

// NewPayoutService 创建提现服务
// minPayoutAmount 为配置层兜底的最低提现额，小于等于 0 时用内置默认值。
func NewPayoutService(
	payoutRepo repository.PayoutRepository,
	walletRepo repository.WalletRepository,
	userRepo repository.UserRepository,
	settingService *SettingService,
	queueClient *queue.Client,
	minPayoutAmount decimal.Decimal,
) *PayoutService {
	if minPayoutAmount.LessThanOrEqual(decimal.Zero) {
		minPayoutAmount = defaultMinPayoutAmount
	}
	return &PayoutService{
		payoutRepo:      payoutRepo,
		walletRepo:      walletRepo,
		userRepo:        userRepo,
		settingService:  settingService,
		queueClient:     queueClient,
		minPayoutAmount: minPayoutAmount,
	}
}

// notifyPayoutStatus 投递提现状态邮件任务，队列不可用时仅记日志
func (s *PayoutService) notifyPayoutStatus(payoutID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueuePayoutStatusEmail(queue.PayoutStatusEmailPayload{PayoutID: payoutID, Status: status}); err != nil {
		logger.Warnw("enqueue payout status email failed", "payout_id", payoutID, "status", status, "error", err)
	}
}

// PayoutApplyInput 提现申请参数
type PayoutApplyInput struct {
	Amount      decimal.Decimal
	BankDetails map[string]interface{}
}

// Apply 用户发起提现申请
func (s *PayoutService) Apply(userID uint, input PayoutApplyInput) (*models.Payout, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	amount := input.Amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrPayoutAmountInvalid
	}
	minAmount, err := s.settingService.GetMinPayoutAmount(s.minPayoutAmount)
	if err != nil {
		return nil, err
	}
	if amount.LessThan(minAmount) {
		return nil, ErrPayoutBelowMinimum
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	payoutNo, err := generateBusinessNo("PO")
	if err != nil {
		return nil, err
	}

	var createdID uint
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		walletRepoTx := s.walletRepo.WithTx(tx)
		account, err := walletRepoTx.GetAccountByUserIDForUpdate(userID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrInsufficientBalance
		}

		money := models.NewMoneyFromDecimal(amount)
		ok, err := walletRepoTx.DebitBalance(account.ID, money)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientBalance
		}

		payout := &models.Payout{
			PayoutNo:    payoutNo,
			UserID:      userID,
			Amount:      money,
			Status:      constants.PayoutStatusPending,
			BankDetails: models.JSON(input.BankDetails),
		}
		payoutRepoTx := s.payoutRepo.WithTx(tx)
		if err := payoutRepoTx.Create(payout); err != nil {
			return err
		}

		payoutID := payout.ID
		txn := &models.WalletTransaction{
			UserID:        userID,
			PayoutID:      &payoutID,
			Type:          constants.WalletTxnTypePayoutHold,
			Direction:     constants.WalletTxnDirectionOut,
			Amount:        money,
			BalanceBefore: account.Balance,
			BalanceAfter:  models.NewMoneyFromDecimal(account.Balance.Decimal.Sub(amount)),
			Reference:     fmt.Sprintf("payout:%d:hold", payout.ID),
		}
		if err := walletRepoTx.CreateTransaction(txn); err != nil {
			return err
		}
		createdID = payout.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.payoutRepo.GetByID(createdID)
}

// Review 管理员处理提现申请（approve/reject/pay）
func (s *PayoutService) Review(adminID, payoutID uint, action, note string) (*models.Payout, error) {
	if payoutID == 0 {
		return nil, ErrNotFound
	}
	act := strings.ToLower(strings.TrimSpace(action))
	if act != constants.PayoutActionApprove && act != constants.PayoutActionReject && act != constants.PayoutActionPay {
		return nil, ErrPayoutStatusInvalid
	}
	note = strings.TrimSpace(note)

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		payoutRepoTx := s.payoutRepo.WithTx(tx)
		payout, err := payoutRepoTx.GetByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrNotFound
		}

		now := time.Now()
		switch act {
		case constants.PayoutActionApprove:
			if payout.Status != constants.PayoutStatusPending {
				return ErrPayoutStatusInvalid
			}
			payout.Status = constants.PayoutStatusApproved
		case constants.PayoutActionReject:
			if payout.Status != constants.PayoutStatusPending {
				return ErrPayoutStatusInvalid
			}
			if err := s.releaseHoldTx(tx, payout); err != nil {
				return err
			}
			payout.Status = constants.PayoutStatusRejected
		case constants.PayoutActionPay:
			if payout.Status != constants.PayoutStatusApproved {
				return ErrPayoutStatusInvalid
			}
			if err := s.markPaidTx(tx, payout); err != nil {
				return err
			}
			payout.Status = constants.PayoutStatusPaid
			payout.PaidAt = &now
		}
		payout.AdminNote = note
		payout.ProcessedBy = &adminID
		payout.ProcessedAt = &now
		return payoutRepoTx.Update(payout)
	})
	if err != nil {
		return nil, err
	}
	updated, err := s.payoutRepo.GetByID(payoutID)
	if err != nil {
		return nil, err
	}
	if updated != nil {
		s.notifyPayoutStatus(updated.ID, updated.Status)
	}
	return updated, nil
}

// releaseHoldTx 拒绝提现时解冻余额
func (s *PayoutService) releaseHoldTx(tx *gorm.DB, payout *models.Payout) error {
	walletRepoTx := s.walletRepo.WithTx(tx)
	account, err := walletRepoTx.GetAccountByUserIDForUpdate(payout.UserID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrWalletAccountMissing
	}
	if err := walletRepoTx.CreditBalance(account.ID, payout.Amount, false); err != nil {
		return err
	}
	payoutID := payout.ID
	txn := &models.WalletTransaction{
		UserID:        payout.UserID,
		PayoutID:      &payoutID,
		Type:          constants.WalletTxnTypePayoutRelease,
		Direction:     constants.WalletTxnDirectionIn,
		Amount:        payout.Amount,
		BalanceBefore: account.Balance,
		BalanceAfter:  models.NewMoneyFromDecimal(account.Balance.Decimal.Add(payout.Amount.Decimal)),
		Reference:     fmt.Sprintf("payout:%d:release", payout.ID),
	}
	return walletRepoTx.CreateTransaction(txn)
}

// markPaidTx 打款完成：余额在冻结时已扣，只累加已提现并留痕
func (s *PayoutService) markPaidTx(tx *gorm.DB, payout *models.Payout) error {
	walletRepoTx := s.walletRepo.WithTx(tx)
	account, err := walletRepoTx.GetAccountByUserIDForUpdate(payout.UserID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrWalletAccountMissing
	}
	if err := walletRepoTx.AddWithdrawn(account.ID, payout.Amount); err != nil {
		return err
	}
	payoutID := payout.ID
	txn := &models.WalletTransaction{
		UserID:        payout.UserID,
		PayoutID:      &payoutID,
		Type:          constants.WalletTxnTypePayoutPaid,
		Direction:     constants.WalletTxnDirectionOut,
		Amount:        payout.Amount,
		BalanceBefore: account.Balance,
		BalanceAfter:  account.Balance,
		Reference:     fmt.Sprintf("payout:%d:paid", payout.ID),
	}
	return walletRepoTx.CreateTransaction(txn)
}

// List 分页查询提现申请
func (s *PayoutService) List(filter repository.PayoutListFilter) ([]models.Payout, int64, error) {
	return s.payoutRepo.List(filter)
}

// GetByID 获取提现详情（用户侧校验归属）
func (s *PayoutService) GetByID(payoutID, userID uint) (*models.Payout, error) {
	payout, err := s.payoutRepo.GetByID(payoutID)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, ErrNotFound
	}
	if userID != 0 && payout.UserID != userID {
		return nil, ErrNotFound
	}
	return payout, nil
}
