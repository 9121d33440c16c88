package public

import (
	"github.com/padmaaja-rasooi/internal/http/response"
	"github.com/padmaaja-rasooi/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 创建支付单请求
// 网关订单由前端 SDK 调用 Razorpay Orders API 创建后回传
type CheckoutRequest struct {
	OrderID        uint   `json:"order_id" binding:"required"`
	GatewayOrderID string `json:"gateway_order_id"`
}

// VerifyPaymentRequest 支付回执验签请求
type VerifyPaymentRequest struct {
	OrderID         uint   `json:"order_id" binding:"required"`
	RazorpayOrderID string `json:"razorpay_order_id" binding:"required"`
	RazorpayPayID   string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySign    string `json:"razorpay_signature" binding:"required"`
}

// CreateCheckout 为待支付订单创建支付单
func (h *Handler) CreateCheckout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	session, err := h.PaymentService.CreateCheckout(userID, req.OrderID, req.GatewayOrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, session)
}

// VerifyPayment 校验 Razorpay 支付回执：验签通过订单转已支付并结算佣金
func (h *Handler) VerifyPayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	payment, err := h.PaymentService.VerifyAndCapture(userID, service.VerifyInput{
		OrderID:          req.OrderID,
		GatewayOrderID:   req.RazorpayOrderID,
		GatewayPaymentID: req.RazorpayPayID,
		Signature:        req.RazorpaySign,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, payment)
}
