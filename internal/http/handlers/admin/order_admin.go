package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/padmaaja-rasooi/internal/http/handlers/shared"
	"github.com/padmaaja-rasooi/internal/http/response"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"

	"github.com/gin-gonic/gin"
)

// OrderActionRequest 订单状态变更请求
type OrderActionRequest struct {
	Action string `json:"action" binding:"required"`
	Method string `json:"method"`
	Reason string `json:"reason"`
}

// ListOrders 管理端订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    uint(userID),
		Status:    c.Query("status"),
		OrderNo:   c.Query("order_no"),
		WithItems: true,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, handlershared.BuildPagination(page, pageSize, total))
}

// GetOrder 管理端订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}
	order, err := h.OrderService.GetByID(uint(orderID), 0)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateOrder 管理端订单状态流转（confirm_paid/ship/deliver/cancel）
func (h *Handler) UpdateOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}
	var req OrderActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	var order *models.Order
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "confirm_paid":
		method := req.Method
		if method == "" {
			method = "manual"
		}
		order, err = h.OrderService.ConfirmPaidManual(uint(orderID), method)
	case "ship":
		order, err = h.OrderService.Ship(uint(orderID))
	case "deliver":
		order, err = h.OrderService.Deliver(uint(orderID))
	case "cancel":
		order, err = h.OrderService.Cancel(uint(orderID), req.Reason)
	default:
		respondError(c, response.CodeBadRequest, "unknown order action", nil)
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// ListPayments 管理端支付流水列表
func (h *Handler) ListPayments(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	orderID, _ := strconv.ParseUint(c.Query("order_id"), 10, 64)
	payments, total, err := h.PaymentService.List(repository.PaymentListFilter{
		Page:     page,
		PageSize: pageSize,
		OrderID:  uint(orderID),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, payments, handlershared.BuildPagination(page, pageSize, total))
}
