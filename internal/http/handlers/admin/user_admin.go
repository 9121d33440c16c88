package admin

import (
	"strconv"

	handlershared "github.com/padmaaja-rasooi/internal/http/handlers/shared"
	"github.com/padmaaja-rasooi/internal/http/response"
	"github.com/padmaaja-rasooi/internal/repository"
	"github.com/padmaaja-rasooi/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateUserRequest 用户更新请求
type UpdateUserRequest struct {
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// ListUsers 管理端用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	referrerID, _ := strconv.ParseUint(c.Query("referrer_id"), 10, 64)
	filter := repository.UserListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		Role:       c.Query("role"),
		ReferrerID: uint(referrerID),
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}
	users, total, err := h.UserAdminService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, users, handlershared.BuildPagination(page, pageSize, total))
}

// GetUser 管理端用户详情
func (h *Handler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		respondError(c, response.CodeBadRequest, "invalid user id", nil)
		return
	}
	user, err := h.UserAdminService.GetByID(uint(userID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateUser 管理端更新用户角色与启用状态
func (h *Handler) UpdateUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		respondError(c, response.CodeBadRequest, "invalid user id", nil)
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	user, err := h.UserAdminService.Update(uint(userID), service.UserAdminUpdateInput{
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}
