package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/padmaaja-rasooi/internal/http/handlers/shared"
	"github.com/padmaaja-rasooi/internal/http/response"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"
	"github.com/padmaaja-rasooi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CommissionActionRequest 佣金状态变更请求（approve/pay/cancel）
type CommissionActionRequest struct {
	Action string `json:"action" binding:"required"`
	Reason string `json:"reason"`
}

// CommissionTierRequest 佣金层级配置请求
type CommissionTierRequest struct {
	Level       int    `json:"level"`
	RatePercent string `json:"rate_percent" binding:"required"`
	IsActive    bool   `json:"is_active"`
	Remark      string `json:"remark"`
}

// ListCommissions 管理端佣金列表
func (h *Handler) ListCommissions(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	orderID, _ := strconv.ParseUint(c.Query("order_id"), 10, 64)
	level, _ := strconv.Atoi(c.Query("level"))
	commissions, total, err := h.CommissionService.List(repository.CommissionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		OrderID:  uint(orderID),
		Level:    level,
		Type:     c.Query("type"),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, commissions, handlershared.BuildPagination(page, pageSize, total))
}

// UpdateCommission 管理端佣金状态流转：approve/pay 只改状态，cancel 冲正已入账金额
func (h *Handler) UpdateCommission(c *gin.Context) {
	commissionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || commissionID == 0 {
		respondError(c, response.CodeBadRequest, "invalid commission id", nil)
		return
	}
	var req CommissionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	var commission *models.Commission
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "approve":
		commission, err = h.CommissionService.ApproveCommission(uint(commissionID))
	case "pay":
		commission, err = h.CommissionService.PayCommission(uint(commissionID))
	case "cancel":
		commission, err = h.CommissionService.CancelCommission(uint(commissionID), req.Reason)
	default:
		respondError(c, response.CodeBadRequest, "unknown commission action", nil)
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, commission)
}

// ListCommissionTiers 佣金层级配置列表
func (h *Handler) ListCommissionTiers(c *gin.Context) {
	if err := h.CommissionTierService.EnsureDefaults(); err != nil {
		respondServiceError(c, err)
		return
	}
	tiers, err := h.CommissionTierService.ListAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, tiers)
}

// UpsertCommissionTier 新建或按层级覆盖佣金比例
func (h *Handler) UpsertCommissionTier(c *gin.Context) {
	var req CommissionTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	rate, err := decimal.NewFromString(req.RatePercent)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid rate", nil)
		return
	}
	tier, err := h.CommissionTierService.Upsert(service.CommissionTierInput{
		Level:       req.Level,
		RatePercent: rate,
		IsActive:    req.IsActive,
		Remark:      req.Remark,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, tier)
}

// UpdateCommissionTier 按主键更新佣金层级配置
func (h *Handler) UpdateCommissionTier(c *gin.Context) {
	tierID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || tierID == 0 {
		respondError(c, response.CodeBadRequest, "invalid tier id", nil)
		return
	}
	var req CommissionTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	rate, err := decimal.NewFromString(req.RatePercent)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid rate", nil)
		return
	}
	tier, err := h.CommissionTierService.UpdateByID(uint(tierID), service.CommissionTierInput{
		RatePercent: rate,
		IsActive:    req.IsActive,
		Remark:      req.Remark,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, tier)
}

// DeleteCommissionTier 删除佣金层级配置
func (h *Handler) DeleteCommissionTier(c *gin.Context) {
	tierID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || tierID == 0 {
		respondError(c, response.CodeBadRequest, "invalid tier id", nil)
		return
	}
	if err := h.CommissionTierService.Delete(uint(tierID)); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
