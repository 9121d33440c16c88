package service

import (
	"strings"

	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"
)

// UserAdminService 管理端用户管理服务
type UserAdminService struct {
	userRepo repository.UserRepository
}

// NewUserAdminService 创建用户管理服务
func NewUserAdminService(userRepo repository.UserRepository) *UserAdminService {
	return &UserAdminService{userRepo: userRepo}
}

// UserAdminUpdateInput 用户管理更新参数
type UserAdminUpdateInput struct {
	Role     string
	IsActive *bool
}

// List 分页查询用户
func (s *UserAdminService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// GetByID 获取用户
func (s *UserAdminService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Update 更新用户角色与启用状态
func (s *UserAdminService) Update(id uint, input UserAdminUpdateInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if role := strings.TrimSpace(input.Role); role != "" {
		if !isAssignableRole(role) {
			return nil, ErrRoleInvalid
		}
		user.Role = role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func isAssignableRole(role string) bool {
	switch role {
	case constants.RoleMember, constants.RoleWholesaler, constants.RolePartTime, constants.RoleCustomer:
		return true
	default:
		return false
	}
}
