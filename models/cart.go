package models

import "time"

type CartItem struct {
	UserID    string    `json:"userId,omitempty" bson:"userId"`
	ProductID string    `json:"productId" bson:"productId"`
	Name      string    `json:"name" bson:"name"`
	Price     float64   `json:"price" bson:"price"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	IsFree    bool      `json:"isFree,omitempty" bson:"isFree,omitempty"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

type Coupon struct {
	Code       string    `json:"code" bson:"code"`
	Type       string    `json:"type" bson:"type"` // "percent" or "flat"
	Value      float64   `json:"value" bson:"value"`
	MinSpend   float64   `json:"minSpend,omitempty" bson:"minSpend,omitempty"`
	ExpiresAt  time.Time `json:"expiresAt" bson:"expiresAt"`
	Active     bool      `json:"active" bson:"active"`
	UsageLimit int       `json:"usageLimit,omitempty" bson:"usageLimit,omitempty"`
	UsedCount  int       `json:"usedCount" bson:"usedCount"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

const (
	CouponTypePercent = "percent"
	CouponTypeFlat    = "flat"
)

type GiftCard struct {
	Code      string    `json:"code" bson:"code"`
	Balance   float64   `json:"balance" bson:"balance"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
