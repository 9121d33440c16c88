package public

import (
	"strconv"

	handlershared "github.com/padmaaja-rasooi/internal/http/handlers/shared"
	"github.com/padmaaja-rasooi/internal/http/response"
	"github.com/padmaaja-rasooi/internal/repository"
	"github.com/padmaaja-rasooi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ApplyPayoutRequest 提现申请请求
type ApplyPayoutRequest struct {
	Amount      string                 `json:"amount" binding:"required"`
	BankDetails map[string]interface{} `json:"bank_details"`
}

// ApplyPayout 会员发起提现申请（申请即冻结余额）
func (h *Handler) ApplyPayout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ApplyPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid amount", nil)
		return
	}
	payout, err := h.PayoutService.Apply(userID, service.PayoutApplyInput{
		Amount:      amount,
		BankDetails: req.BankDetails,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, payout)
}

// ListPayouts 会员提现记录
func (h *Handler) ListPayouts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	payouts, total, err := h.PayoutService.List(repository.PayoutListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, payouts, handlershared.BuildPagination(page, pageSize, total))
}

// GetPayout 会员提现详情
func (h *Handler) GetPayout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	payoutID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || payoutID == 0 {
		respondError(c, response.CodeBadRequest, "invalid payout id", nil)
		return
	}
	payout, err := h.PayoutService.GetByID(uint(payoutID), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, payout)
}
