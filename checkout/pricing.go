package checkout

import (
	"errors"
	"time"

	"ayurkart/models"

	"github.com/shopspring/decimal"
)

// Orders above this discounted subtotal ship free; below it a flat fee applies.
const (
	FreeShippingThreshold = 500
	FlatShippingFee       = 50
)

var (
	ErrCouponInvalid   = errors.New("coupon is not valid")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponMinSpend  = errors.New("cart subtotal below coupon minimum spend")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrGiftCardInvalid = errors.New("gift card is not valid")
)

// Quote is the server-computed financial breakdown for a cart. Client-supplied
// totals are never trusted; this is the only source persisted onto orders.
type Quote struct {
	Items           []models.OrderItem `json:"items"`
	Subtotal        float64            `json:"subtotal"`
	DiscountAmount  float64            `json:"discountAmount"`
	CouponCode      string             `json:"couponCode,omitempty"`
	ShippingFee     float64            `json:"shippingFee"`
	TaxAmount       float64            `json:"taxAmount"`
	GiftCardCode    string             `json:"giftCardCode,omitempty"`
	GiftCardApplied float64            `json:"giftCardApplied"`
	TotalAmount     float64            `json:"totalAmount"`
}

func validateCoupon(c *models.Coupon, subtotal decimal.Decimal, now time.Time) error {
	if c == nil {
		return nil
	}
	if !c.Active {
		return ErrCouponInvalid
	}
	if now.After(c.ExpiresAt) {
		return ErrCouponExpired
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return ErrCouponExhausted
	}
	if c.MinSpend > 0 && subtotal.LessThan(decimal.NewFromFloat(c.MinSpend)) {
		return ErrCouponMinSpend
	}
	return nil
}

// computeQuote derives every financial figure from item snapshots and ledger
// records. Rules: discount applies to the subtotal; shipping is free only when
// the discounted subtotal exceeds the threshold; tax applies to the discounted
// subtotal; gift card balance offsets the final total.
func computeQuote(items []models.OrderItem, coupon *models.Coupon, gift *models.GiftCard, taxEnabled bool, taxPercent float64, now time.Time) (Quote, error) {
	subtotal := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line)
	}

	if err := validateCoupon(coupon, subtotal, now); err != nil {
		return Quote{}, err
	}

	discount := decimal.Zero
	couponCode := ""
	if coupon != nil {
		couponCode = coupon.Code
		switch coupon.Type {
		case models.CouponTypePercent:
			discount = subtotal.Mul(decimal.NewFromFloat(coupon.Value)).Div(decimal.NewFromInt(100))
		case models.CouponTypeFlat:
			discount = decimal.NewFromFloat(coupon.Value)
		default:
			return Quote{}, ErrCouponInvalid
		}
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
	}

	discounted := subtotal.Sub(discount)

	shipping := decimal.NewFromInt(FlatShippingFee)
	if discounted.GreaterThan(decimal.NewFromInt(FreeShippingThreshold)) {
		shipping = decimal.Zero
	}

	tax := decimal.Zero
	if taxEnabled && taxPercent > 0 {
		tax = discounted.Mul(decimal.NewFromFloat(taxPercent)).Div(decimal.NewFromInt(100))
	}

	total := discounted.Add(shipping).Add(tax)

	giftApplied := decimal.Zero
	giftCode := ""
	if gift != nil {
		if !gift.Active || now.After(gift.ExpiresAt) || gift.Balance <= 0 {
			return Quote{}, ErrGiftCardInvalid
		}
		giftCode = gift.Code
		giftApplied = decimal.NewFromFloat(gift.Balance)
		if giftApplied.GreaterThan(total) {
			giftApplied = total
		}
		total = total.Sub(giftApplied)
	}

	round := func(d decimal.Decimal) float64 { f, _ := d.Round(2).Float64(); return f }
	return Quote{
		Items:           items,
		Subtotal:        round(subtotal),
		DiscountAmount:  round(discount),
		CouponCode:      couponCode,
		ShippingFee:     round(shipping),
		TaxAmount:       round(tax),
		GiftCardCode:    giftCode,
		GiftCardApplied: round(giftApplied),
		TotalAmount:     round(total),
	}, nil
}
