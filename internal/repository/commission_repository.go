package repository

import (
	"errors"

	"github.com/padmaaja-rasooi/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// CommissionRepository 佣金数据访问接口
type CommissionRepository interface {
	Create(commission *models.Commission) error
	CreateBatch(commissions []models.Commission) error
	Update(commission *models.Commission) error
	GetByID(id uint) (*models.Commission, error)
	ListByOrderID(orderID uint) ([]models.Commission, error)
	List(filter CommissionListFilter) ([]models.Commission, int64, error)
	SumAmountByUser(userID uint, statuses []string) (decimal.Decimal, error)
	CountByUser(userID uint, statuses []string) (int64, error)
	UpdateStatusByOrderID(orderID uint, fromStatuses []string, toStatus, remark string) (int64, error)
	WithTx(tx *gorm.DB) *GormCommissionRepository
}

// GormCommissionRepository GORM 佣金仓储实现
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository 创建佣金仓储
func NewCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCommissionRepository) WithTx(tx *gorm.DB) *GormCommissionRepository {
	if tx == nil {
		return r
	}
	return &GormCommissionRepository{db: tx}
}

// Create 创建佣金记录
func (r *GormCommissionRepository) Create(commission *models.Commission) error {
	return r.db.Create(commission).Error
}

// CreateBatch 批量创建佣金记录
func (r *GormCommissionRepository) CreateBatch(commissions []models.Commission) error {
	if len(commissions) == 0 {
		return nil
	}
	return r.db.Create(&commissions).Error
}

// Update 更新佣金记录
func (r *GormCommissionRepository) Update(commission *models.Commission) error {
	return r.db.Save(commission).Error
}

// GetByID 按ID获取佣金记录
func (r *GormCommissionRepository) GetByID(id uint) (*models.Commission, error) {
	if id == 0 {
		return nil, nil
	}
	var commission models.Commission
	if err := r.db.First(&commission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// ListByOrderID 按订单获取全部佣金记录
func (r *GormCommissionRepository) ListByOrderID(orderID uint) ([]models.Commission, error) {
	if orderID == 0 {
		return []models.Commission{}, nil
	}
	var commissions []models.Commission
	if err := r.db.Where("order_id = ?", orderID).Order("level asc").Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}

// List 分页查询佣金记录
func (r *GormCommissionRepository) List(filter CommissionListFilter) ([]models.Commission, int64, error) {
	query := r.db.Model(&models.Commission{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.FromUserID != 0 {
		query = query.Where("from_user_id = ?", filter.FromUserID)
	}
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Level != 0 {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var commissions []models.Commission
	if err := query.Order("id desc").Find(&commissions).Error; err != nil {
		return nil, 0, err
	}
	return commissions, total, nil
}

// SumAmountByUser 按状态汇总某用户的佣金金额
func (r *GormCommissionRepository) SumAmountByUser(userID uint, statuses []string) (decimal.Decimal, error) {
	if userID == 0 {
		return decimal.Zero, nil
	}
	query := r.db.Model(&models.Commission{}).Where("user_id = ?", userID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var total decimal.NullDecimal
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// CountByUser 按状态统计某用户的佣金条数
func (r *GormCommissionRepository) CountByUser(userID uint, statuses []string) (int64, error) {
	if userID == 0 {
		return 0, nil
	}
	query := r.db.Model(&models.Commission{}).Where("user_id = ?", userID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateStatusByOrderID 按订单批量迁移佣金状态，返回受影响行数
func (r *GormCommissionRepository) UpdateStatusByOrderID(orderID uint, fromStatuses []string, toStatus, remark string) (int64, error) {
	if orderID == 0 {
		return 0, nil
	}
	query := r.db.Model(&models.Commission{}).Where("order_id = ?", orderID)
	if len(fromStatuses) > 0 {
		query = query.Where("status IN ?", fromStatuses)
	}
	updates := map[string]interface{}{"status": toStatus}
	if remark != "" {
		updates["remark"] = remark
	}
	result := query.Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
