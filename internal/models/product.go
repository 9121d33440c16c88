package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品
// Stock 只通过库存扣减/回补的原子更新语句修改，不做读改写。
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	CategoryID  *uint          `gorm:"index" json:"category_id"`                           // 分类ID
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`             // 商品名称
	Slug        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"` // URL标识
	Description string         `gorm:"type:text" json:"description"`                       // 商品描述
	Price       Money          `gorm:"type:decimal(20,2);not null" json:"price"`           // 售价
	WeightGrams int            `gorm:"not null;default:0" json:"weight_grams"`             // 规格重量（克）
	Stock       int            `gorm:"not null;default:0" json:"stock"`                    // 库存
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url"`                 // 图片地址
	IsActive    bool           `gorm:"not null;index" json:"is_active"`                    // 是否上架，创建方必须显式赋值
	SortOrder   int            `gorm:"not null;default:0" json:"sort_order"`               // 排序权重
	CreatedAt   time.Time      `json:"created_at"`                                         // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 所属分类
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
