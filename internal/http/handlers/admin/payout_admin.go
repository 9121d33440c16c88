package admin

import (
	"strconv"

	handlershared "github.com/padmaaja-rasooi/internal/http/handlers/shared"
	"github.com/padmaaja-rasooi/internal/http/response"
	"github.com/padmaaja-rasooi/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ReviewPayoutRequest 提现审核请求（approve/reject/pay）
type ReviewPayoutRequest struct {
	Action string `json:"action" binding:"required"`
	Note   string `json:"note"`
}

// WalletAdjustRequest 钱包人工调整请求，amount 为带符号金额
type WalletAdjustRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Amount string `json:"amount" binding:"required"`
	Remark string `json:"remark"`
}

// ListPayouts 管理端提现列表
func (h *Handler) ListPayouts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	payouts, total, err := h.PayoutService.List(repository.PayoutListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		Status:   c.Query("status"),
		PayoutNo: c.Query("payout_no"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, payouts, handlershared.BuildPagination(page, pageSize, total))
}

// ReviewPayout 审核提现：批准、拒绝（解冻余额）或打款（累计已提现）
func (h *Handler) ReviewPayout(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	payoutID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || payoutID == 0 {
		respondError(c, response.CodeBadRequest, "invalid payout id", nil)
		return
	}
	var req ReviewPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	payout, err := h.PayoutService.Review(adminID, uint(payoutID), req.Action, req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, payout)
}

// AdjustWallet 管理端人工调整钱包余额
func (h *Handler) AdjustWallet(c *gin.Context) {
	var req WalletAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsZero() {
		respondError(c, response.CodeBadRequest, "invalid amount", nil)
		return
	}
	account, err := h.WalletService.AdminAdjust(req.UserID, amount, req.Remark)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, account)
}
