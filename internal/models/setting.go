package models

import "time"

// Setting 系统配置
// 按 Key 分组存 JSON 值（站点信息、分销参数、订单参数），读取走缓存。
type Setting struct {
	ID        uint      `gorm:"primarykey" json:"id"`                             // 主键
	Key       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"key"` // 配置键
	Value     JSON      `gorm:"type:json" json:"value"`                           // 配置值
	Remark    string    `gorm:"type:varchar(255)" json:"remark"`                  // 备注
	CreatedAt time.Time `json:"created_at"`                                       // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                       // 更新时间
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}
