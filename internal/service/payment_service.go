package service

import (
	"strings"
	"time"

	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/logger"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/payment/razorpay"
	"github.com/padmaaja-rasooi/internal/repository"
	"gorm.io/gorm"
)

// PaymentService 支付业务服务（Razorpay 收银台）
type PaymentService struct {
	paymentRepo       repository.PaymentRepository
	orderRepo         repository.OrderRepository
	orderService      *OrderService
	commissionService *CommissionService
	gateway           *razorpay.Client
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	orderService *OrderService,
	commissionService *CommissionService,
	gateway *razorpay.Client,
) *PaymentService {
	return &PaymentService{
		paymentRepo:       paymentRepo,
		orderRepo:         orderRepo,
		orderService:      orderService,
		commissionService: commissionService,
		gateway:           gateway,
	}
}

// CheckoutSession 前端拉起收银台所需数据
type CheckoutSession struct {
	PaymentID      uint         `json:"payment_id"`
	KeyID          string       `json:"key_id"`
	GatewayOrderID string       `json:"gateway_order_id"`
	Amount         models.Money `json:"amount"`
	Currency       string       `json:"currency"`
}

// VerifyInput 支付回执验签参数
type VerifyInput struct {
	OrderID          uint
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// CreateCheckout 为待支付订单创建支付单
// 网关订单由前端 SDK 调用 Razorpay Orders API 创建后回填，这里先落本地支付单。
func (s *PaymentService) CreateCheckout(userID, orderID uint, gatewayOrderID string) (*CheckoutSession, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || (userID != 0 && order.UserID != userID) {
		return nil, ErrNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderStatusInvalid
	}

	payment := &models.Payment{
		OrderID:        order.ID,
		Method:         "razorpay",
		Amount:         order.TotalAmount,
		Status:         constants.PaymentStatusInitiated,
		GatewayOrderID: strings.TrimSpace(gatewayOrderID),
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	return &CheckoutSession{
		PaymentID:      payment.ID,
		KeyID:          s.gateway.KeyID(),
		GatewayOrderID: payment.GatewayOrderID,
		Amount:         payment.Amount,
		Currency:       "INR",
	}, nil
}

// VerifyAndCapture 校验支付回执并完成订单
// 验签通过：支付单 success、订单转已支付、佣金按 approved 直接入账。
// 验签失败：支付单标记 failed 并返回错误，订单保持待支付。
func (s *PaymentService) VerifyAndCapture(userID uint, input VerifyInput) (*models.Payment, error) {
	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil || (userID != 0 && order.UserID != userID) {
		return nil, ErrNotFound
	}

	payment, err := s.paymentRepo.GetByGatewayOrderID(input.GatewayOrderID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		payment, err = s.paymentRepo.GetLatestByOrderID(order.ID)
		if err != nil {
			return nil, err
		}
	}
	if payment == nil {
		return nil, ErrNotFound
	}
	if payment.OrderID != order.ID {
		return nil, ErrPaymentOrderMismatch
	}
	if payment.Status == constants.PaymentStatusSuccess {
		return payment, nil
	}
	if payment.Status != constants.PaymentStatusInitiated {
		return nil, ErrPaymentStatusInvalid
	}

	if !s.gateway.VerifyPaymentSignature(input.GatewayOrderID, input.GatewayPaymentID, input.Signature) {
		payment.Status = constants.PaymentStatusFailed
		payment.FailureReason = "signature mismatch"
		if updateErr := s.paymentRepo.Update(payment); updateErr != nil {
			logger.Errorw("mark payment failed error", "payment_id", payment.ID, "error", updateErr)
		}
		return nil, ErrPaymentVerifyFailed
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		paymentRepoTx := s.paymentRepo.WithTx(tx)
		locked, err := paymentRepoTx.GetByIDForUpdate(payment.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrNotFound
		}
		if locked.Status == constants.PaymentStatusSuccess {
			return nil
		}
		now := time.Now()
		locked.Status = constants.PaymentStatusSuccess
		locked.GatewayOrderID = strings.TrimSpace(input.GatewayOrderID)
		locked.GatewayPayID = strings.TrimSpace(input.GatewayPaymentID)
		locked.PaidAt = &now
		return paymentRepoTx.Update(locked)
	})
	if err != nil {
		return nil, err
	}

	if err := s.orderService.MarkPaidForPayment(order.ID, "razorpay"); err != nil && err != ErrOrderStatusInvalid {
		return nil, err
	}
	if err := s.commissionService.CalculateForOrder(order.ID, constants.CommissionStatusApproved); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByID(payment.ID)
}

// List 分页查询支付单
func (s *PaymentService) List(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.List(filter)
}
