package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/padmaaja-rasooi/internal/config"
	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/models"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendWelcome 发送注册欢迎邮件
func (s *EmailService) SendWelcome(toEmail, name, referralCode string) error {
	display := strings.TrimSpace(name)
	if display == "" {
		display = toEmail
	}
	subject := "Welcome to Padmaaja Rasooi"
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to Padmaaja Rasooi. Your account is ready.\n\nYour referral code is %s. Share it with friends and earn commission on their orders.\n",
		display, referralCode)
	return s.sendTextEmail(toEmail, subject, body)
}

// OrderStatusEmailInput 订单状态邮件输入
type OrderStatusEmailInput struct {
	OrderNo string
	Status  string
	Amount  models.Money
}

// SendOrderStatus 发送订单状态通知
func (s *EmailService) SendOrderStatus(toEmail string, input OrderStatusEmailInput) error {
	subject := fmt.Sprintf("Order %s update", input.OrderNo)
	var body string
	switch input.Status {
	case constants.OrderStatusPaid:
		body = fmt.Sprintf("Your order %s (INR %s) has been paid. We will ship it soon.", input.OrderNo, input.Amount.String())
	case constants.OrderStatusShipped:
		body = fmt.Sprintf("Your order %s is on its way.", input.OrderNo)
	case constants.OrderStatusDelivered:
		body = fmt.Sprintf("Your order %s has been delivered. Enjoy!", input.OrderNo)
	case constants.OrderStatusCancelled:
		body = fmt.Sprintf("Your order %s has been cancelled.", input.OrderNo)
	default:
		body = fmt.Sprintf("Your order %s status is now %s.", input.OrderNo, input.Status)
	}
	return s.sendTextEmail(toEmail, subject, body)
}

// PayoutStatusEmailInput 提现状态邮件输入
type PayoutStatusEmailInput struct {
	PayoutNo string
	Status   string
	Amount   models.Money
}

// SendPayoutStatus 发送提现状态通知
func (s *EmailService) SendPayoutStatus(toEmail string, input PayoutStatusEmailInput) error {
	subject := fmt.Sprintf("Payout %s update", input.PayoutNo)
	var body string
	switch input.Status {
	case constants.PayoutStatusApproved:
		body = fmt.Sprintf("Your payout request %s (INR %s) has been approved and will be paid shortly.", input.PayoutNo, input.Amount.String())
	case constants.PayoutStatusRejected:
		body = fmt.Sprintf("Your payout request %s was rejected. The amount has been returned to your wallet.", input.PayoutNo)
	case constants.PayoutStatusPaid:
		body = fmt.Sprintf("Your payout %s (INR %s) has been transferred.", input.PayoutNo, input.Amount.String())
	default:
		body = fmt.Sprintf("Your payout request %s status is now %s.", input.PayoutNo, input.Status)
	}
	return s.sendTextEmail(toEmail, subject, body)
}

// SendCustomEmail 发送测试邮件或自定义邮件
func (s *EmailService) SendCustomEmail(toEmail, subject, body string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "SMTP test email"
	}
	body = strings.TrimSpace(body)
	if body == "" {
		body = "This is a test email from Padmaaja Rasooi. Your SMTP configuration works."
	}
	return s.sendTextEmail(toEmail, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
