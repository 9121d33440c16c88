package service

import (
	"strings"
	"time"

	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/logger"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/queue"
	"github.com/padmaaja-rasooi/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单业务服务
type OrderService struct {
	orderRepo         repository.OrderRepository
	productRepo       repository.ProductRepository
	userRepo          repository.UserRepository
	settingService    *SettingService
	commissionService *CommissionService
	queueClient       *queue.Client

	paymentExpireMinutes int
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	settingService *SettingService,
	commissionService *CommissionService,
	queueClient *queue.Client,
	paymentExpireMinutes int,
) *OrderService {
	return &OrderService{
		orderRepo:            orderRepo,
		productRepo:          productRepo,
		userRepo:             userRepo,
		settingService:       settingService,
		commissionService:    commissionService,
		queueClient:          queueClient,
		paymentExpireMinutes: paymentExpireMinutes,
	}
}

// notifyOrderStatus 投递订单状态邮件任务，队列不可用时仅记日志
func (s *OrderService) notifyOrderStatus(orderID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{OrderID: orderID, Status: status}); err != nil {
		logger.Warnw("enqueue order status email failed", "order_id", orderID, "status", status, "error", err)
	}
}

// scheduleTimeoutCancel 投递延迟关单任务
func (s *OrderService) scheduleTimeoutCancel(orderID uint) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	minutes, err := s.settingService.GetOrderPaymentExpireMinutes(s.paymentExpireMinutes)
	if err != nil || minutes <= 0 {
		return
	}
	payload := queue.OrderTimeoutCancelPayload{OrderID: orderID}
	if err := s.queueClient.EnqueueOrderTimeoutCancel(payload, time.Duration(minutes)*time.Minute); err != nil {
		logger.Warnw("enqueue order timeout cancel failed", "order_id", orderID, "error", err)
	}
}

// OrderItemInput 下单明细参数
type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

// CreateOrderInput 下单参数
type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress map[string]interface{}
	Remark          string
}

// Create 创建订单：逐件原子扣库存，任一商品不足则整单回滚
func (s *OrderService) Create(userID uint, input CreateOrderInput) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	if len(input.Items) == 0 {
		return nil, ErrOrderEmpty
	}

	productIDs := make([]uint, 0, len(input.Items))
	quantityByProduct := make(map[uint]int, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrOrderEmpty
		}
		if _, ok := quantityByProduct[item.ProductID]; !ok {
			productIDs = append(productIDs, item.ProductID)
		}
		quantityByProduct[item.ProductID] += item.Quantity
	}

	orderNo, err := generateBusinessNo("PR")
	if err != nil {
		return nil, err
	}

	shippingFee, freeOver, err := s.shippingConfig()
	if err != nil {
		return nil, err
	}

	var createdID uint
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		productRepoTx := s.productRepo.WithTx(tx)
		products, err := productRepoTx.GetByIDs(productIDs)
		if err != nil {
			return err
		}
		productByID := make(map[uint]models.Product, len(products))
		for _, product := range products {
			productByID[product.ID] = product
		}

		subtotal := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(productIDs))
		for _, productID := range productIDs {
			product, ok := productByID[productID]
			if !ok {
				return ErrNotFound
			}
			if !product.IsActive {
				return ErrProductInactive
			}
			quantity := quantityByProduct[productID]
			ok, err := productRepoTx.DecrementStock(productID, quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrProductOutOfStock
			}
			lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
			subtotal = subtotal.Add(lineTotal)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   productID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    quantity,
				Subtotal:    models.NewMoneyFromDecimal(lineTotal),
			})
		}

		fee := shippingFee
		if freeOver.GreaterThan(decimal.Zero) && subtotal.GreaterThanOrEqual(freeOver) {
			fee = decimal.Zero
		}
		order := &models.Order{
			OrderNo:         orderNo,
			UserID:          userID,
			Status:          constants.OrderStatusPending,
			Subtotal:        models.NewMoneyFromDecimal(subtotal),
			ShippingFee:     models.NewMoneyFromDecimal(fee),
			TotalAmount:     models.NewMoneyFromDecimal(subtotal.Add(fee)),
			ShippingAddress: models.JSON(input.ShippingAddress),
			Remark:          strings.TrimSpace(input.Remark),
			Items:           orderItems,
		}
		orderRepoTx := s.orderRepo.WithTx(tx)
		if err := orderRepoTx.Create(order); err != nil {
			return err
		}
		createdID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.scheduleTimeoutCancel(createdID)
	return s.orderRepo.GetByID(createdID)
}

// ConfirmPaidManual 管理员人工确认收款：订单转已支付并按 pending 结算佣金
func (s *OrderService) ConfirmPaidManual(orderID uint, method string) (*models.Order, error) {
	if err := s.markPaid(orderID, method); err != nil {
		return nil, err
	}
	if err := s.commissionService.CalculateForOrder(orderID, constants.CommissionStatusPending); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(orderID)
}

// markPaid 订单置为已支付
func (s *OrderService) markPaid(orderID uint, method string) error {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepoTx := s.orderRepo.WithTx(tx)
		order, err := orderRepoTx.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrNotFound
		}
		if order.Status != constants.OrderStatusPending {
			return ErrOrderStatusInvalid
		}
		now := time.Now()
		order.Status = constants.OrderStatusPaid
		order.PaidAt = &now
		if method != "" {
			order.PaymentMethod = method
		}
		return orderRepoTx.Update(order)
	})
	if err != nil {
		return err
	}
	s.notifyOrderStatus(orderID, constants.OrderStatusPaid)
	return nil
}

// MarkPaidForPayment 网关回执确认后置为已支付（供支付服务在事务外调用）
func (s *OrderService) MarkPaidForPayment(orderID uint, method string) error {
	return s.markPaid(orderID, method)
}

// Ship 发货
func (s *OrderService) Ship(orderID uint) (*models.Order, error) {
	return s.transition(orderID, constants.OrderStatusPaid, constants.OrderStatusShipped)
}

// Deliver 签收
func (s *OrderService) Deliver(orderID uint) (*models.Order, error) {
	return s.transition(orderID, constants.OrderStatusShipped, constants.OrderStatusDelivered)
}

func (s *OrderService) transition(orderID uint, from, to string) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrNotFound
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepoTx := s.orderRepo.WithTx(tx)
		order, err := orderRepoTx.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrNotFound
		}
		if order.Status != from {
			return ErrOrderStatusInvalid
		}
		now := time.Now()
		order.Status = to
		switch to {
		case constants.OrderStatusShipped:
			order.ShippedAt = &now
		case constants.OrderStatusDelivered:
			order.DeliveredAt = &now
		}
		return orderRepoTx.Update(order)
	})
	if err != nil {
		return nil, err
	}
	s.notifyOrderStatus(orderID, to)
	return s.orderRepo.GetByID(orderID)
}

// Cancel 取消订单：回补库存、冲正佣金、退佣金记录，整体一个事务
// 已发货及之后的订单不可取消。
func (s *OrderService) Cancel(orderID uint, reason string) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrNotFound
	}
	reason = strings.TrimSpace(reason)

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepoTx := s.orderRepo.WithTx(tx)
		order, err := orderRepoTx.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrNotFound
		}
		if order.Status != constants.OrderStatusPending && order.Status != constants.OrderStatusPaid {
			return ErrOrderNotCancellable
		}

		items, err := orderRepoTx.GetItems(orderID)
		if err != nil {
			return err
		}
		productRepoTx := s.productRepo.WithTx(tx)
		for _, item := range items {
			if err := productRepoTx.IncrementStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if order.CommissionProcessed {
			if err := s.commissionService.ReverseForOrderTx(tx, orderID, reason); err != nil {
				return err
			}
		}

		now := time.Now()
		order.Status = constants.OrderStatusCancelled
		order.CancelledAt = &now
		if reason != "" {
			order.Remark = reason
		}
		return orderRepoTx.Update(order)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("order cancelled", "order_id", orderID, "reason", reason)
	s.notifyOrderStatus(orderID, constants.OrderStatusCancelled)
	return s.orderRepo.GetByID(orderID)
}

// CancelExpiredPending 取消超时未支付订单，返回处理条数（超时关单任务调用）
func (s *OrderService) CancelExpiredPending(defaultExpireMinutes int) (int, error) {
	minutes, err := s.settingService.GetOrderPaymentExpireMinutes(defaultExpireMinutes)
	if err != nil {
		return 0, err
	}
	if minutes <= 0 {
		return 0, nil
	}
	orders, err := s.orderRepo.ListExpiredPending(minutes * 60)
	if err != nil {
		return 0, err
	}
	cancelled := 0
	for _, order := range orders {
		if _, err := s.Cancel(order.ID, "payment timeout"); err != nil {
			logger.Warnw("cancel expired order failed", "order_id", order.ID, "error", err)
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

// GetByID 获取订单（userID 非 0 时校验归属）
func (s *OrderService) GetByID(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if userID != 0 && order.UserID != userID {
		return nil, ErrNotFound
	}
	return order, nil
}

// List 分页查询订单
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// shippingConfig 读取运费配置
func (s *OrderService) shippingConfig() (fee decimal.Decimal, freeOver decimal.Decimal, err error) {
	fee = decimal.Zero
	freeOver = decimal.Zero
	value, err := s.settingService.GetByKey(constants.SettingKeyOrderConfig)
	if err != nil {
		return fee, freeOver, err
	}
	if value == nil {
		return fee, freeOver, nil
	}
	if raw, ok := value[constants.SettingFieldFlatShippingFee]; ok {
		if parsed, parseErr := parseSettingDecimal(raw); parseErr == nil && parsed.GreaterThan(decimal.Zero) {
			fee = parsed.Round(2)
		}
	}
	if raw, ok := value[constants.SettingFieldFreeShippingOver]; ok {
		if parsed, parseErr := parseSettingDecimal(raw); parseErr == nil && parsed.GreaterThan(decimal.Zero) {
			freeOver = parsed.Round(2)
		}
	}
	return fee, freeOver, nil
}
