package pay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"ayurkart/models"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "test_secret"
	orderID := "order_ABC123"
	paymentID := "pay_XYZ789"

	good := sign(orderID, paymentID, secret)
	if !VerifySignature(orderID, paymentID, good, secret) {
		t.Fatal("expected valid signature to verify")
	}

	if VerifySignature(orderID, paymentID, good, "wrong_secret") {
		t.Fatal("signature verified against wrong secret")
	}
	if VerifySignature(orderID, "pay_other", good, secret) {
		t.Fatal("signature verified for different payment id")
	}
	if VerifySignature(orderID, paymentID, "deadbeef", secret) {
		t.Fatal("garbage signature verified")
	}
	if VerifySignature(orderID, paymentID, "", secret) {
		t.Fatal("empty signature verified")
	}
}

func TestMinorUnits(t *testing.T) {
	cases := map[float64]int64{
		0:        0,
		600:      60000,
		522.00:   52200,
		167.99:   16799, // 167.99*100 is 16798.999... in float64
		10000.00: 1000000,
	}
	for amount, want := range cases {
		if got := MinorUnits(amount); got != want {
			t.Errorf("MinorUnits(%v) = %d, want %d", amount, got, want)
		}
	}
}

func TestPaymentCoversTotal(t *testing.T) {
	// A 1-rupee payment must never settle a 10,000-rupee order.
	small := models.PendingPayment{Amount: 100, Currency: "INR", Status: models.PendingPaymentVerified}
	if paymentCoversTotal(small, MinorUnits(10000.00)) {
		t.Fatal("underpaid payment accepted against a larger total")
	}

	exact := models.PendingPayment{Amount: 1000000, Currency: "INR"}
	if !paymentCoversTotal(exact, MinorUnits(10000.00)) {
		t.Fatal("exact payment rejected")
	}

	wrongCurrency := models.PendingPayment{Amount: 1000000, Currency: "USD"}
	if paymentCoversTotal(wrongCurrency, 1000000) {
		t.Fatal("foreign-currency payment accepted")
	}
}

func TestReplayedVerification(t *testing.T) {
	p := models.PendingPayment{Status: models.PendingPaymentVerified, PaymentID: "pay_123"}

	if !isReplayedVerification(p, "pay_123") {
		t.Fatal("duplicate callback for a verified payment should be idempotent")
	}
	if isReplayedVerification(p, "pay_999") {
		t.Fatal("different payment id must not count as a replay")
	}

	p.Status = models.PendingPaymentCreated
	if isReplayedVerification(p, "pay_123") {
		t.Fatal("unverified payment must not count as a replay")
	}

	p.Status = models.PendingPaymentConsumed
	if isReplayedVerification(p, "pay_123") {
		t.Fatal("consumed payment must not count as a replay")
	}
}
