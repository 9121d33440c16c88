package repository

import (
	"errors"
	"strings"

	"github.com/padmaaja-rasooi/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository 系统配置数据访问接口
type SettingRepository interface {
	GetByKey(key string) (*models.Setting, error)
	ListAll() ([]models.Setting, error)
	Upsert(setting *models.Setting) error
	WithTx(tx *gorm.DB) *GormSettingRepository
}

// GormSettingRepository GORM 系统配置仓储实现
type GormSettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 创建系统配置仓储
func NewSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSettingRepository) WithTx(tx *gorm.DB) *GormSettingRepository {
	if tx == nil {
		return r
	}
	return &GormSettingRepository{db: tx}
}

// GetByKey 按键获取配置
func (r *GormSettingRepository) GetByKey(key string) (*models.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var setting models.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// ListAll 获取全部配置
func (r *GormSettingRepository) ListAll() ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.Order("key asc").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Upsert 按键写入或更新配置
func (r *GormSettingRepository) Upsert(setting *models.Setting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "remark", "updated_at"}),
	}).Create(setting).Error
}
