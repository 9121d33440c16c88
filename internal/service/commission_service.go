package service

import (
	"fmt"
	"time"

	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/logger"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionService 分销佣金业务服务
// 结算与冲正都在单事务内完成：订单行加锁后检查 commission_processed 标记，
// 同一订单无论并发或重放都只会结算一次。
type CommissionService struct {
	commissionRepo repository.CommissionRepository
	userRepo       repository.UserRepository
	orderRepo      repository.OrderRepository
	walletRepo     repository.WalletRepository
	tierService    *CommissionTierService
	treeService    *ReferralTreeService
	settingService *SettingService
	maxLevels      int
}

// NewCommissionService 创建佣金服务
// maxLevels 是配置层给的分佣层级上限，小于等于 0 时只受层级配置表约束。
func NewCommissionService(
	commissionRepo repository.CommissionRepository,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	walletRepo repository.WalletRepository,
	tierService *CommissionTierService,
	treeService *ReferralTreeService,
	settingService *SettingService,
	maxLevels int,
) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
		userRepo:       userRepo,
		orderRepo:      orderRepo,
		walletRepo:     walletRepo,
		tierService:    tierService,
		treeService:    treeService,
		settingService: settingService,
		maxLevels:      maxLevels,
	}
}

// CommissionSummary 用户佣金汇总
type CommissionSummary struct {
	TotalEarned   models.Money `json:"total_earned"`
	PendingAmount models.Money `json:"pending_amount"`
	TotalCount    int64        `json:"total_count"`
}

// CalculateForOrder 为已支付订单结算推荐链佣金
// initialStatus 取决于支付路径：网关验签确认的订单记 approved，人工确认的记
// pending 等管理员审核。钱包在结算事务内一次性入账，之后的状态流转不再动钱，
// 取消时整单冲正。订单已结算过时幂等返回。
func (s *CommissionService) CalculateForOrder(orderID uint, initialStatus string) error {
	if orderID == 0 {
		return ErrNotFound
	}
	if initialStatus != constants.CommissionStatusPending && initialStatus != constants.CommissionStatusApproved {
		return ErrCommissionStatusInvalid
	}

	enabled, err := s.settingService.GetCommissionEnabled()
	if err != nil {
		return err
	}

	rates, err := s.tierService.ActiveRateMap()
	if err != nil {
		return err
	}
	maxLevel := 0
	for level := range rates {
		if level > maxLevel {
			maxLevel = level
		}
	}
	if s.maxLevels > 0 && maxLevel > s.maxLevels {
		maxLevel = s.maxLevels
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepoTx := s.orderRepo.WithTx(tx)
		order, err := orderRepoTx.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrNotFound
		}
		if order.CommissionProcessed {
			logger.Infow("commission already processed, skip", "order_id", orderID)
			return nil
		}
		if order.Status != constants.OrderStatusPaid &&
			order.Status != constants.OrderStatusShipped &&
			order.Status != constants.OrderStatusDelivered {
			return ErrOrderStatusInvalid
		}

		order.CommissionProcessed = true
		if err := orderRepoTx.Update(order); err != nil {
			return err
		}
		if !enabled || maxLevel == 0 {
			return nil
		}

		userRepoTx := s.userRepo.WithTx(tx)
		ancestors, err := s.treeService.WalkUpWith(userRepoTx, order.UserID, maxLevel)
		if err != nil {
			return err
		}
		if len(ancestors) == 0 {
			return nil
		}

		commissionRepoTx := s.commissionRepo.WithTx(tx)
		walletRepoTx := s.walletRepo.WithTx(tx)
		now := time.Now()
		for _, ancestor := range ancestors {
			rate, ok := rates[ancestor.Level]
			if !ok {
				// 层级比例断档即截断，更高层不再分佣
				break
			}
			amount := order.TotalAmount.Decimal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
			if amount.LessThanOrEqual(decimal.Zero) {
				continue
			}

			commissionType := constants.CommissionTypeLevel
			if ancestor.Level == 1 {
				commissionType = constants.CommissionTypeDirect
			}
			commission := &models.Commission{
				UserID:      ancestor.User.ID,
				FromUserID:  order.UserID,
				OrderID:     order.ID,
				Level:       ancestor.Level,
				Type:        commissionType,
				BaseAmount:  order.TotalAmount,
				RatePercent: models.NewMoneyFromDecimal(rate),
				Amount:      models.NewMoneyFromDecimal(amount),
				Status:      initialStatus,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := commissionRepoTx.Create(commission); err != nil {
				return err
			}
			if err := s.creditCommissionTx(walletRepoTx, commission); err != nil {
				return err
			}
		}
		return nil
	})
}

// creditCommissionTx 佣金入账：钱包余额与累计收益同步增加并记账
// 必须在持有钱包行锁的事务中调用，流水的前后余额依赖锁内读数。
func (s *CommissionService) creditCommissionTx(walletRepoTx *repository.GormWalletRepository, commission *models.Commission) error {
	account, err := walletRepoTx.GetAccountByUserIDForUpdate(commission.UserID)
	if err != nil {
		return err
	}
	if account == nil {
		account = &models.WalletAccount{UserID: commission.UserID}
		if err := walletRepoTx.CreateAccount(account); err != nil {
			return err
		}
	}

	if err := walletRepoTx.CreditBalance(account.ID, commission.Amount, true); err != nil {
		return err
	}
	orderID := commission.OrderID
	txn := &models.WalletTransaction{
		UserID:        commission.UserID,
		OrderID:       &orderID,
		Type:          constants.WalletTxnTypeCommission,
		Direction:     constants.WalletTxnDirectionIn,
		Amount:        commission.Amount,
		BalanceBefore: account.Balance,
		BalanceAfter:  models.NewMoneyFromDecimal(account.Balance.Decimal.Add(commission.Amount.Decimal)),
		Reference:     commissionReference(commission),
		Remark:        fmt.Sprintf("level %d commission for order %d", commission.Level, commission.OrderID),
	}
	return walletRepoTx.CreateTransaction(txn)
}

// ReverseForOrderTx 订单取消时冲正佣金
// 钱包在结算时已入账，订单下全部未取消佣金都按原额从余额和累计收益中扣回，
// 冲正允许余额为负；随后统一置为 cancelled。必须在取消订单的同一事务中调用。
func (s *CommissionService) ReverseForOrderTx(tx *gorm.DB, orderID uint, reason string) error {
	if orderID == 0 {
		return ErrNotFound
	}
	commissionRepoTx := s.commissionRepo.WithTx(tx)
	walletRepoTx := s.walletRepo.WithTx(tx)

	commissions, err := commissionRepoTx.ListByOrderID(orderID)
	if err != nil {
		return err
	}
	for _, commission := range commissions {
		if commission.Status == constants.CommissionStatusCancelled {
			continue
		}
		account, err := walletRepoTx.GetAccountByUserIDForUpdate(commission.UserID)
		if err != nil {
			return err
		}
		if account == nil {
			logger.Warnw("wallet account missing on commission reversal",
				"order_id", orderID, "user_id", commission.UserID)
			continue
		}
		if err := walletRepoTx.DebitBalanceWithEarnings(account.ID, commission.Amount); err != nil {
			return err
		}
		oid := commission.OrderID
		txn := &models.WalletTransaction{
			UserID:        commission.UserID,
			OrderID:       &oid,
			Type:          constants.WalletTxnTypeCommissionReversal,
			Direction:     constants.WalletTxnDirectionOut,
			Amount:        commission.Amount,
			BalanceBefore: account.Balance,
			BalanceAfter:  models.NewMoneyFromDecimal(account.Balance.Decimal.Sub(commission.Amount.Decimal)),
			Reference:     commissionReference(&commission) + ":reversal",
			Remark:        reason,
		}
		if err := walletRepoTx.CreateTransaction(txn); err != nil {
			return err
		}
	}

	_, err = commissionRepoTx.UpdateStatusByOrderID(orderID, []string{
		constants.CommissionStatusPending,
		constants.CommissionStatusApproved,
		constants.CommissionStatusPaid,
	}, constants.CommissionStatusCancelled, reason)
	return err
}

// ApproveCommission 管理员审核通过 pending 佣金
// 钱包在结算时已入账，这里只改状态不动钱。
func (s *CommissionService) ApproveCommission(commissionID uint) (*models.Commission, error) {
	return s.updateStatus(commissionID, constants.CommissionStatusPending, constants.CommissionStatusApproved)
}

// PayCommission 管理员标记 approved 佣金已发放，纯状态流转
func (s *CommissionService) PayCommission(commissionID uint) (*models.Commission, error) {
	return s.updateStatus(commissionID, constants.CommissionStatusApproved, constants.CommissionStatusPaid)
}

func (s *CommissionService) updateStatus(commissionID uint, fromStatus, toStatus string) (*models.Commission, error) {
	if commissionID == 0 {
		return nil, ErrNotFound
	}
	commission, err := s.commissionRepo.GetByID(commissionID)
	if err != nil {
		return nil, err
	}
	if commission == nil {
		return nil, ErrNotFound
	}
	if commission.Status != fromStatus {
		return nil, ErrCommissionStatusInvalid
	}
	commission.Status = toStatus
	if err := s.commissionRepo.Update(commission); err != nil {
		return nil, err
	}
	return commission, nil
}

// CancelCommission 管理员取消单条佣金，已入账的同步冲正
func (s *CommissionService) CancelCommission(commissionID uint, reason string) (*models.Commission, error) {
	if commissionID == 0 {
		return nil, ErrNotFound
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		commissionRepoTx := s.commissionRepo.WithTx(tx)
		commission, err := commissionRepoTx.GetByID(commissionID)
		if err != nil {
			return err
		}
		if commission == nil {
			return ErrNotFound
		}
		if commission.Status == constants.CommissionStatusCancelled {
			return ErrCommissionStatusInvalid
		}
		// 结算时已入账，任何未取消状态都要扣回
		walletRepoTx := s.walletRepo.WithTx(tx)
		account, err := walletRepoTx.GetAccountByUserIDForUpdate(commission.UserID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrWalletAccountMissing
		}
		if err := walletRepoTx.DebitBalanceWithEarnings(account.ID, commission.Amount); err != nil {
			return err
		}
		oid := commission.OrderID
		txn := &models.WalletTransaction{
			UserID:        commission.UserID,
			OrderID:       &oid,
			Type:          constants.WalletTxnTypeCommissionReversal,
			Direction:     constants.WalletTxnDirectionOut,
			Amount:        commission.Amount,
			BalanceBefore: account.Balance,
			BalanceAfter:  models.NewMoneyFromDecimal(account.Balance.Decimal.Sub(commission.Amount.Decimal)),
			Reference:     commissionReference(commission) + ":reversal",
			Remark:        reason,
		}
		if err := walletRepoTx.CreateTransaction(txn); err != nil {
			return err
		}
		commission.Status = constants.CommissionStatusCancelled
		commission.Remark = reason
		return commissionRepoTx.Update(commission)
	})
	if err != nil {
		return nil, err
	}
	return s.commissionRepo.GetByID(commissionID)
}

// List 分页查询佣金记录
func (s *CommissionService) List(filter repository.CommissionListFilter) ([]models.Commission, int64, error) {
	return s.commissionRepo.List(filter)
}

// SummaryForUser 用户佣金汇总（收益总额、待审金额、总条数）
func (s *CommissionService) SummaryForUser(userID uint) (*CommissionSummary, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	earned, err := s.commissionRepo.SumAmountByUser(userID, []string{
		constants.CommissionStatusApproved,
		constants.CommissionStatusPaid,
	})
	if err != nil {
		return nil, err
	}
	pending, err := s.commissionRepo.SumAmountByUser(userID, []string{
		constants.CommissionStatusPending,
	})
	if err != nil {
		return nil, err
	}
	count, err := s.commissionRepo.CountByUser(userID, nil)
	if err != nil {
		return nil, err
	}
	return &CommissionSummary{
		TotalEarned:   models.NewMoneyFromDecimal(earned),
		PendingAmount: models.NewMoneyFromDecimal(pending),
		TotalCount:    count,
	}, nil
}

func commissionReference(commission *models.Commission) string {
	return fmt.Sprintf("commission:order:%d:user:%d:level:%d",
		commission.OrderID, commission.UserID, commission.Level)
}
