package repository

import (
	"errors"

	"github.com/padmaaja-rasooi/internal/models"

	"gorm.io/gorm"
)

// CommissionTierRepository 佣金层级配置数据访问接口
type CommissionTierRepository interface {
	Create(tier *models.CommissionTier) error
	Update(tier *models.CommissionTier) error
	Delete(id uint) error
	GetByID(id uint) (*models.CommissionTier, error)
	GetByLevel(level int) (*models.CommissionTier, error)
	ListAll() ([]models.CommissionTier, error)
	ListActive() ([]models.CommissionTier, error)
	Count() (int64, error)
	WithTx(tx *gorm.DB) *GormCommissionTierRepository
}

// GormCommissionTierRepository GORM 佣金层级配置仓储实现
type GormCommissionTierRepository struct {
	db *gorm.DB
}

// NewCommissionTierRepository 创建佣金层级配置仓储
func NewCommissionTierRepository(db *gorm.DB) *GormCommissionTierRepository {
	return &GormCommissionTierRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCommissionTierRepository) WithTx(tx *gorm.DB) *GormCommissionTierRepository {
	if tx == nil {
		return r
	}
	return &GormCommissionTierRepository{db: tx}
}

// Create 创建层级配置
func (r *GormCommissionTierRepository) Create(tier *models.CommissionTier) error {
	return r.db.Create(tier).Error
}

// Update 更新层级配置
func (r *GormCommissionTierRepository) Update(tier *models.CommissionTier) error {
	return r.db.Save(tier).Error
}

// Delete 删除层级配置
func (r *GormCommissionTierRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.CommissionTier{}, id).Error
}

// GetByID 按ID获取层级配置
func (r *GormCommissionTierRepository) GetByID(id uint) (*models.CommissionTier, error) {
	if id == 0 {
		return nil, nil
	}
	var tier models.CommissionTier
	if err := r.db.First(&tier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tier, nil
}

// GetByLevel 按层级获取配置
func (r *GormCommissionTierRepository) GetByLevel(level int) (*models.CommissionTier, error) {
	if level <= 0 {
		return nil, nil
	}
	var tier models.CommissionTier
	if err := r.db.Where("level = ?", level).First(&tier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tier, nil
}

// ListAll 获取全部层级配置
func (r *GormCommissionTierRepository) ListAll() ([]models.CommissionTier, error) {
	var tiers []models.CommissionTier
	if err := r.db.Order("level asc").Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

// ListActive 获取启用的层级配置
func (r *GormCommissionTierRepository) ListActive() ([]models.CommissionTier, error) {
	var tiers []models.CommissionTier
	if err := r.db.Where("is_active = ?", true).Order("level asc").Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

// Count 统计层级配置条数
func (r *GormCommissionTierRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&models.CommissionTier{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
