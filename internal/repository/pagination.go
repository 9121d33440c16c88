package repository

import "gorm.io/gorm"

const maxPageSize = 200

// applyPagination 统一分页：页码从 1 起算，页大小封顶防止全表拉取。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
