package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/padmaaja-rasooi/internal/logger"
	"github.com/padmaaja-rasooi/internal/provider"
	"github.com/padmaaja-rasooi/internal/queue"
	"github.com/padmaaja-rasooi/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskWelcomeEmail, c.handleWelcomeEmail)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskPayoutStatusEmail, c.handlePayoutStatusEmail)
	mux.HandleFunc(queue.TaskOrderTimeoutCancel, c.handleOrderTimeoutCancel)
}

func (c *Consumer) handleWelcomeEmail(_ context.Context, task *asynq.Task) error {
	var payload queue.WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_welcome_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 {
		return nil
	}
	user, err := c.UserRepo.GetByID(payload.UserID)
	if err != nil {
		logger.Warnw("worker_welcome_email_fetch_user_failed", "user_id", payload.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return nil
	}
	if err := c.EmailService.SendWelcome(user.Email, user.Name, user.ReferralCode); err != nil {
		if isEmailConfigError(err) {
			logger.Debugw("worker_welcome_email_skip_service_unavailable", "user_id", user.ID, "error", err)
			return nil
		}
		logger.Warnw("worker_welcome_email_send_failed", "user_id", user.ID, "error", err)
		return err
	}
	logger.Infow("worker_welcome_email_sent", "user_id", user.ID)
	return nil
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		return nil
	}
	user, err := c.UserRepo.GetByID(order.UserID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return nil
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}
	input := service.OrderStatusEmailInput{
		OrderNo: order.OrderNo,
		Status:  status,
		Amount:  order.TotalAmount,
	}
	if err := c.EmailService.SendOrderStatus(user.Email, input); err != nil {
		if isEmailConfigError(err) {
			logger.Debugw("worker_order_status_email_skip_service_unavailable", "order_id", order.ID, "error", err)
			return nil
		}
		logger.Warnw("worker_order_status_email_send_failed", "order_id", order.ID, "error", err)
		return err
	}
	logger.Infow("worker_order_status_email_sent", "order_id", order.ID, "order_no", order.OrderNo, "status", status)
	return nil
}

func (c *Consumer) handlePayoutStatusEmail(_ context.Context, task *asynq.Task) error {
	var payload queue.PayoutStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payout_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.PayoutID == 0 {
		return nil
	}
	payout, err := c.PayoutRepo.GetByID(payload.PayoutID)
	if err != nil {
		logger.Warnw("worker_payout_status_email_fetch_payout_failed", "payout_id", payload.PayoutID, "error", err)
		return err
	}
	if payout == nil {
		return nil
	}
	user, err := c.UserRepo.GetByID(payout.UserID)
	if err != nil {
		logger.Warnw("worker_payout_status_email_fetch_user_failed", "payout_id", payout.ID, "user_id", payout.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return nil
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = payout.Status
	}
	input := service.PayoutStatusEmailInput{
		PayoutNo: payout.PayoutNo,
		Status:   status,
		Amount:   payout.Amount,
	}
	if err := c.EmailService.SendPayoutStatus(user.Email, input); err != nil {
		if isEmailConfigError(err) {
			logger.Debugw("worker_payout_status_email_skip_service_unavailable", "payout_id", payout.ID, "error", err)
			return nil
		}
		logger.Warnw("worker_payout_status_email_send_failed", "payout_id", payout.ID, "error", err)
		return err
	}
	logger.Infow("worker_payout_status_email_sent", "payout_id", payout.ID, "payout_no", payout.PayoutNo, "status", status)
	return nil
}

// handleOrderTimeoutCancel 超时关单：仍处于待支付的订单取消并回补库存
func (c *Consumer) handleOrderTimeoutCancel(_ context.Context, task *asynq.Task) error {
	var payload queue.OrderTimeoutCancelPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_timeout_cancel_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}
	if _, err := c.OrderService.Cancel(payload.OrderID, "payment timeout"); err != nil {
		// 已支付或已取消的订单到期属于正常情况
		if errors.Is(err, service.ErrOrderNotCancellable) || errors.Is(err, service.ErrNotFound) {
			logger.Debugw("worker_order_timeout_cancel_skip", "order_id", payload.OrderID, "error", err)
			return nil
		}
		logger.Warnw("worker_order_timeout_cancel_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	logger.Infow("worker_order_timeout_cancelled", "order_id", payload.OrderID)
	return nil
}

func isEmailConfigError(err error) bool {
	return errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured)
}
