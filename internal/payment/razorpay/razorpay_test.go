package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func hmacHex(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestEnabled(t *testing.T) {
	if New("key", "secret").Enabled() != true {
		t.Fatalf("expected enabled with full config")
	}
	if New("key", "").Enabled() {
		t.Fatalf("expected disabled without secret")
	}
	if New("", "secret").Enabled() {
		t.Fatalf("expected disabled without key id")
	}
	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatalf("nil client must report disabled")
	}
}

func TestVerifyPaymentSignature(t *testing.T) {
	client := New("rzp_test_key", "s3cr3t")
	sig := hmacHex("order_abc|pay_xyz", "s3cr3t")

	if !client.VerifyPaymentSignature("order_abc", "pay_xyz", sig) {
		t.Fatalf("expected valid signature accepted")
	}
	// Razorpay 返回的签名大小写不敏感
	if !client.VerifyPaymentSignature("order_abc", "pay_xyz", strings.ToUpper(sig)) {
		t.Fatalf("expected uppercase signature accepted")
	}
	if !client.VerifyPaymentSignature(" order_abc ", " pay_xyz ", " "+sig+" ") {
		t.Fatalf("expected trimmed inputs accepted")
	}

	if client.VerifyPaymentSignature("order_abc", "pay_xyz", hmacHex("order_abc|pay_xyz", "wrong")) {
		t.Fatalf("expected wrong-secret signature rejected")
	}
	if client.VerifyPaymentSignature("order_other", "pay_xyz", sig) {
		t.Fatalf("expected mismatched order rejected")
	}
	if client.VerifyPaymentSignature("order_abc", "pay_xyz", "") {
		t.Fatalf("expected empty signature rejected")
	}
	if client.VerifyPaymentSignature("", "pay_xyz", sig) {
		t.Fatalf("expected empty order id rejected")
	}
}

func TestVerifyPaymentSignatureDisabledClient(t *testing.T) {
	client := New("", "")
	sig := hmacHex("order_abc|pay_xyz", "")
	if client.VerifyPaymentSignature("order_abc", "pay_xyz", sig) {
		t.Fatalf("disabled client must reject everything")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := New("rzp_test_key", "s3cr3t")
	body := []byte(`{"event":"payment.captured","payload":{}}`)
	sig := hmacHex(string(body), "wh_secret")

	if !client.VerifyWebhookSignature(body, sig, "wh_secret") {
		t.Fatalf("expected valid webhook signature accepted")
	}
	if client.VerifyWebhookSignature(body, sig, "other_secret") {
		t.Fatalf("expected wrong webhook secret rejected")
	}
	if client.VerifyWebhookSignature([]byte{}, sig, "wh_secret") {
		t.Fatalf("expected empty body rejected")
	}
	if client.VerifyWebhookSignature(body, "", "wh_secret") {
		t.Fatalf("expected empty signature rejected")
	}
	if client.VerifyWebhookSignature(body, sig, "") {
		t.Fatalf("expected empty secret rejected")
	}

	tampered := []byte(`{"event":"payment.captured","payload":{"x":1}}`)
	if client.VerifyWebhookSignature(tampered, sig, "wh_secret") {
		t.Fatalf("expected tampered body rejected")
	}
}
