package checkout

import (
	"testing"
	"time"

	"ayurkart/models"
)

func items(price float64, qty int) []models.OrderItem {
	return []models.OrderItem{{ProductID: "prd_1", Name: "Triphala Churna", Price: price, Quantity: qty}}
}

func TestQuoteFreeShippingAbove500(t *testing.T) {
	// subtotal 600, no coupon, tax disabled -> fee 0, tax 0, total 600
	q, err := computeQuote(items(600, 1), nil, nil, false, 0, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ShippingFee != 0 {
		t.Errorf("expected free shipping, got %v", q.ShippingFee)
	}
	if q.TaxAmount != 0 {
		t.Errorf("expected no tax, got %v", q.TaxAmount)
	}
	if q.TotalAmount != 600 {
		t.Errorf("expected total 600, got %v", q.TotalAmount)
	}
}

func TestQuoteShippingFeeAndTax(t *testing.T) {
	// subtotal 400, tax 18% -> fee 50, tax 72, total 522
	q, err := computeQuote(items(400, 1), nil, nil, true, 18, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ShippingFee != 50 {
		t.Errorf("expected fee 50, got %v", q.ShippingFee)
	}
	if q.TaxAmount != 72 {
		t.Errorf("expected tax 72, got %v", q.TaxAmount)
	}
	if q.TotalAmount != 522 {
		t.Errorf("expected total 522, got %v", q.TotalAmount)
	}
}

func TestQuoteThresholdBoundary(t *testing.T) {
	// exactly 500 still pays the flat fee; free shipping needs strictly more
	q, err := computeQuote(items(500, 1), nil, nil, false, 0, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ShippingFee != 50 {
		t.Errorf("expected fee 50 at threshold, got %v", q.ShippingFee)
	}
	if q.TotalAmount != 550 {
		t.Errorf("expected total 550, got %v", q.TotalAmount)
	}
}

func TestQuotePercentCoupon(t *testing.T) {
	coupon := &models.Coupon{
		Code:      "herb10",
		Type:      models.CouponTypePercent,
		Value:     10,
		Active:    true,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	// 800 - 10% = 720 discounted; free shipping; total 720
	q, err := computeQuote(items(800, 1), coupon, nil, false, 0, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.DiscountAmount != 80 {
		t.Errorf("expected discount 80, got %v", q.DiscountAmount)
	}
	if q.TotalAmount != 720 {
		t.Errorf("expected total 720, got %v", q.TotalAmount)
	}
}

func TestQuoteDiscountCanDropBelowFreeShipping(t *testing.T) {
	coupon := &models.Coupon{
		Code:      "flat100",
		Type:      models.CouponTypeFlat,
		Value:     100,
		Active:    true,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	// 550 - 100 = 450 discounted, below threshold, so the fee applies
	q, err := computeQuote(items(550, 1), coupon, nil, false, 0, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ShippingFee != 50 {
		t.Errorf("expected fee 50 after discount, got %v", q.ShippingFee)
	}
	if q.TotalAmount != 500 {
		t.Errorf("expected total 500, got %v", q.TotalAmount)
	}
}

func TestQuoteCouponValidation(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name   string
		coupon models.Coupon
		want   error
	}{
		{"inactive", models.Coupon{Code: "x", Type: "percent", Value: 5, ExpiresAt: now.Add(time.Hour)}, ErrCouponInvalid},
		{"expired", models.Coupon{Code: "x", Type: "percent", Value: 5, Active: true, ExpiresAt: now.Add(-time.Hour)}, ErrCouponExpired},
		{"min spend", models.Coupon{Code: "x", Type: "percent", Value: 5, Active: true, ExpiresAt: now.Add(time.Hour), MinSpend: 1000}, ErrCouponMinSpend},
		{"exhausted", models.Coupon{Code: "x", Type: "percent", Value: 5, Active: true, ExpiresAt: now.Add(time.Hour), UsageLimit: 3, UsedCount: 3}, ErrCouponExhausted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := computeQuote(items(400, 1), &tc.coupon, nil, false, 0, now)
			if err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestQuoteGiftCardPartialRedemption(t *testing.T) {
	gift := &models.GiftCard{
		Code:      "GC-500",
		Balance:   500,
		Active:    true,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	// total 600, gift covers 500, customer pays 100
	q, err := computeQuote(items(600, 1), nil, gift, false, 0, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.GiftCardApplied != 500 {
		t.Errorf("expected 500 applied, got %v", q.GiftCardApplied)
	}
	if q.TotalAmount != 100 {
		t.Errorf("expected total 100, got %v", q.TotalAmount)
	}
}

func TestQuoteGiftCardExpiryUsesQuoteClock(t *testing.T) {
	expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	gift := &models.GiftCard{Code: "GC-500", Balance: 500, Active: true, ExpiresAt: expiry}

	// Valid one minute before expiry.
	q, err := computeQuote(items(600, 1), nil, gift, false, 0, expiry.Add(-time.Minute))
	if err != nil {
		t.Fatalf("unexpected error before expiry: %v", err)
	}
	if q.GiftCardApplied != 500 {
		t.Errorf("expected 500 applied, got %v", q.GiftCardApplied)
	}

	// Rejected one minute after.
	if _, err := computeQuote(items(600, 1), nil, gift, false, 0, expiry.Add(time.Minute)); err != ErrGiftCardInvalid {
		t.Fatalf("expected ErrGiftCardInvalid after expiry, got %v", err)
	}
}

func TestQuoteRounding(t *testing.T) {
	// 3 x 33.33 = 99.99, 18% tax = 18.00 (17.9982 rounded), fee 50
	q, err := computeQuote(items(33.33, 3), nil, nil, true, 18, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Subtotal != 99.99 {
		t.Errorf("expected subtotal 99.99, got %v", q.Subtotal)
	}
	if q.TaxAmount != 18.00 {
		t.Errorf("expected tax 18.00, got %v", q.TaxAmount)
	}
	if q.TotalAmount != 167.99 {
		t.Errorf("expected total 167.99, got %v", q.TotalAmount)
	}
}
