package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Client Razorpay 验签客户端
// Checkout 回执签名为 HMAC-SHA256(order_id + "|" + payment_id, key_secret) 的十六进制值。
type Client struct {
	keyID     string
	keySecret string
}

// New 创建客户端
func New(keyID, keySecret string) *Client {
	return &Client{
		keyID:     strings.TrimSpace(keyID),
		keySecret: strings.TrimSpace(keySecret),
	}
}

// KeyID 返回公开的 key_id（前端拉起收银台使用）
func (c *Client) KeyID() string {
	return c.keyID
}

// Enabled 是否配置完整
func (c *Client) Enabled() bool {
	return c != nil && c.keyID != "" && c.keySecret != ""
}

// VerifyPaymentSignature 校验支付回执签名
func (c *Client) VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if !c.Enabled() {
		return false
	}
	gatewayOrderID = strings.TrimSpace(gatewayOrderID)
	gatewayPaymentID = strings.TrimSpace(gatewayPaymentID)
	signature = strings.TrimSpace(signature)
	if gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" {
		return false
	}
	expected := signPayload(gatewayOrderID+"|"+gatewayPaymentID, c.keySecret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// VerifyWebhookSignature 校验 webhook 原始报文签名
func (c *Client) VerifyWebhookSignature(body []byte, signature, webhookSecret string) bool {
	secret := strings.TrimSpace(webhookSecret)
	signature = strings.TrimSpace(signature)
	if secret == "" || signature == "" || len(body) == 0 {
		return false
	}
	expected := signPayload(string(body), secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func signPayload(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
