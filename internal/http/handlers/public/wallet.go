package public

import (
	handlershared "github.com/padmaaja-rasooi/internal/http/handlers/shared"
	"github.com/padmaaja-rasooi/internal/http/response"
	"github.com/padmaaja-rasooi/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetWallet 会员钱包账户
func (h *Handler) GetWallet(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	account, err := h.WalletService.GetOrCreateAccount(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, account)
}

// ListWalletTransactions 会员钱包流水
func (h *Handler) ListWalletTransactions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	transactions, total, err := h.WalletService.ListTransactions(repository.WalletTransactionListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    userID,
		Type:      c.Query("type"),
		Direction: c.Query("direction"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, transactions, handlershared.BuildPagination(page, pageSize, total))
}
