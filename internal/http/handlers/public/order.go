package public

import (
	"strconv"

	handlershared "github.com/padmaaja-rasooi/internal/http/handlers/shared"
	"github.com/padmaaja-rasooi/internal/http/response"
	"github.com/padmaaja-rasooi/internal/repository"
	"github.com/padmaaja-rasooi/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 下单明细
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required"`
	ShippingAddress map[string]interface{} `json:"shipping_address"`
	Remark          string                 `json:"remark"`
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Reason  string `json:"reason"`
}

// CreateOrder 会员下单
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	order, err := h.OrderService.Create(userID, service.CreateOrderInput{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		Remark:          req.Remark,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 会员订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    userID,
		Status:    c.Query("status"),
		WithItems: true,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, handlershared.BuildPagination(page, pageSize, total))
}

// GetOrder 会员订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}
	order, err := h.OrderService.GetByID(uint(orderID), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// ConfirmOrder 会员线下付款确认：订单转已支付，佣金按待审核入账
func (h *Handler) ConfirmOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}
	// 归属校验
	if _, err := h.OrderService.GetByID(uint(orderID), userID); err != nil {
		respondServiceError(c, err)
		return
	}
	order, err := h.OrderService.ConfirmPaidManual(uint(orderID), "manual")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 会员取消订单：回补库存，已结算佣金整单冲正
func (h *Handler) CancelOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if _, err := h.OrderService.GetByID(req.OrderID, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	order, err := h.OrderService.Cancel(req.OrderID, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
