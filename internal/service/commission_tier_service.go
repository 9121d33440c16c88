package service

import (
	"sort"

	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"
	"github.com/shopspring/decimal"
)

// CommissionTierService 佣金层级配置业务服务
type CommissionTierService struct {
	repo repository.CommissionTierRepository
}

// NewCommissionTierService 创建佣金层级配置服务
func NewCommissionTierService(repo repository.CommissionTierRepository) *CommissionTierService {
	return &CommissionTierService{repo: repo}
}

// CommissionTierInput 层级配置写入参数
type CommissionTierInput struct {
	Level       int
	RatePercent decimal.Decimal
	IsActive    bool
	Remark      string
}

// EnsureDefaults 层级表为空时写入默认比例
func (s *CommissionTierService) EnsureDefaults() error {
	total, err := s.repo.Count()
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	levels := make([]int, 0, len(constants.DefaultCommissionTierRates))
	for level := range constants.DefaultCommissionTierRates {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	for _, level := range levels {
		rate := decimal.NewFromFloat(constants.DefaultCommissionTierRates[level])
		tier := &models.CommissionTier{
			Level:       level,
			RatePercent: models.NewMoneyFromDecimal(rate),
			IsActive:    true,
		}
		if err := s.repo.Create(tier); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return err
		}
	}
	return nil
}

// ListAll 获取全部层级配置
func (s *CommissionTierService) ListAll() ([]models.CommissionTier, error) {
	if err := s.EnsureDefaults(); err != nil {
		return nil, err
	}
	return s.repo.ListAll()
}

// ActiveRateMap 获取启用层级的比例表（level → 比例），分佣计算使用
func (s *CommissionTierService) ActiveRateMap() (map[int]decimal.Decimal, error) {
	if err := s.EnsureDefaults(); err != nil {
		return nil, err
	}
	tiers, err := s.repo.ListActive()
	if err != nil {
		return nil, err
	}
	rates := make(map[int]decimal.Decimal, len(tiers))
	for _, tier := range tiers {
		rates[tier.Level] = tier.RatePercent.Decimal
	}
	return rates, nil
}

// Upsert 创建或更新层级配置
func (s *CommissionTierService) Upsert(input CommissionTierInput) (*models.CommissionTier, error) {
	if input.Level <= 0 || input.Level > referralDepthHardLimit {
		return nil, ErrCommissionTierInvalid
	}
	if input.RatePercent.LessThan(decimal.Zero) || input.RatePercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrCommissionTierInvalid
	}

	existing, err := s.repo.GetByLevel(input.Level)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		tier := &models.CommissionTier{
			Level:       input.Level,
			RatePercent: models.NewMoneyFromDecimal(input.RatePercent),
			IsActive:    input.IsActive,
			Remark:      input.Remark,
		}
		if err := s.repo.Create(tier); err != nil {
			return nil, err
		}
		return tier, nil
	}

	existing.RatePercent = models.NewMoneyFromDecimal(input.RatePercent)
	existing.IsActive = input.IsActive
	existing.Remark = input.Remark
	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// UpdateByID 按主键更新层级配置（层级号不可变更）
func (s *CommissionTierService) UpdateByID(id uint, input CommissionTierInput) (*models.CommissionTier, error) {
	tier, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, ErrNotFound
	}
	if input.RatePercent.LessThan(decimal.Zero) || input.RatePercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrCommissionTierInvalid
	}
	tier.RatePercent = models.NewMoneyFromDecimal(input.RatePercent)
	tier.IsActive = input.IsActive
	tier.Remark = input.Remark
	if err := s.repo.Update(tier); err != nil {
		return nil, err
	}
	return tier, nil
}

// Delete 删除层级配置
func (s *CommissionTierService) Delete(id uint) error {
	tier, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if tier == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}
