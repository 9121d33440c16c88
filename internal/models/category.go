package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 商品分类
type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`             // 分类名称
	Slug        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"` // URL标识
	Description string         `gorm:"type:varchar(500)" json:"description"`               // 分类描述
	SortOrder   int            `gorm:"not null;default:0" json:"sort_order"`               // 排序权重
	IsActive    bool           `gorm:"not null" json:"is_active"`                          // 是否启用，创建方必须显式赋值
	CreatedAt   time.Time      `json:"created_at"`                                         // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"` // 分类下商品
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
