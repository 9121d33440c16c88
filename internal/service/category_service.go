package service

import (
	"strings"

	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CategoryInput 分类写入参数
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	SortOrder   int
	IsActive    bool
}

// ListPublic 前台分类列表（仅启用）
func (s *CategoryService) ListPublic() ([]models.Category, error) {
	categories, _, err := s.categoryRepo.List(repository.CategoryListFilter{OnlyActive: true})
	return categories, err
}

// ListAdmin 管理端分类列表
func (s *CategoryService) ListAdmin(filter repository.CategoryListFilter) ([]models.Category, int64, error) {
	return s.categoryRepo.List(filter)
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	slug := strings.TrimSpace(input.Slug)
	if name == "" || slug == "" {
		return nil, ErrNotFound
	}
	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		SortOrder:   input.SortOrder,
		IsActive:    input.IsActive,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		category.Slug = slug
	}
	category.Description = strings.TrimSpace(input.Description)
	category.SortOrder = input.SortOrder
	category.IsActive = input.IsActive
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类（分类下仍有商品时拒绝）
func (s *CategoryService) Delete(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}
	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}
	return s.categoryRepo.Delete(id)
}
