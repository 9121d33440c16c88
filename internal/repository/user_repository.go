package repository

import (
	"errors"
	"strings"

	"github.com/padmaaja-rasooi/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByIDs(ids []uint) ([]models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByReferralCode(code string) (*models.User, error)
	ListByReferrerID(referrerID uint) ([]models.User, error)
	ListByReferrerIDs(referrerIDs []uint) ([]models.User, error)
	CountByReferrerID(referrerID uint) (int64, error)
	CountByReferrerIDs(referrerIDs []uint) (map[uint]int64, error)
	List(filter UserListFilter) ([]models.User, int64, error)
	WithTx(tx *gorm.DB) *GormUserRepository
}

// GormUserRepository GORM 用户仓储实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) *GormUserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// GetByID 按ID获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByIDs 批量获取用户
func (r *GormUserRepository) GetByIDs(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetByEmail 按邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, nil
	}
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByReferralCode 按推荐码获取用户
func (r *GormUserRepository) GetByReferralCode(code string) (*models.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var user models.User
	if err := r.db.Where("referral_code = ?", code).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListByReferrerID 获取某用户的直接下级
func (r *GormUserRepository) ListByReferrerID(referrerID uint) ([]models.User, error) {
	if referrerID == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := r.db.Where("referrer_id = ?", referrerID).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListByReferrerIDs 批量获取一组用户的直接下级（团队遍历按层取数）
func (r *GormUserRepository) ListByReferrerIDs(referrerIDs []uint) ([]models.User, error) {
	if len(referrerIDs) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := r.db.Where("referrer_id IN ?", referrerIDs).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountByReferrerID 统计某用户的直接下级数量
func (r *GormUserRepository) CountByReferrerID(referrerID uint) (int64, error) {
	if referrerID == 0 {
		return 0, nil
	}
	var total int64
	if err := r.db.Model(&models.User{}).Where("referrer_id = ?", referrerID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountByReferrerIDs 批量统计一组用户各自的直接下级数量，族谱树按层补数用
func (r *GormUserRepository) CountByReferrerIDs(referrerIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(referrerIDs))
	if len(referrerIDs) == 0 {
		return counts, nil
	}
	type row struct {
		ReferrerID uint
		Total      int64
	}
	var rows []row
	err := r.db.Model(&models.User{}).
		Select("referrer_id, COUNT(*) AS total").
		Where("referrer_id IN ?", referrerIDs).
		Group("referrer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, item := range rows {
		counts[item.ReferrerID] = item.Total
	}
	return counts, nil
}

// List 分页查询用户
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("(email LIKE ? OR name LIKE ? OR phone LIKE ? OR referral_code LIKE ?)", like, like, like, like)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.ReferrerID != 0 {
		query = query.Where("referrer_id = ?", filter.ReferrerID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var users []models.User
	if err := query.Order("id desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
