package models

import "time"

// Order statuses form a closed set; transitions are enforced in the orders
// package, never by writing free-form strings.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
	PaymentMethodCOD  = "cod"
)

const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

const (
	ShipmentStatusNone      = "none"
	ShipmentStatusQueued    = "queued"
	ShipmentStatusCreated   = "created"
	ShipmentStatusFailed    = "failed"
	ShipmentStatusCancelled = "cancelled"
)

// Address is the billing or shipping block on an order.
type Address struct {
	Name    string `json:"name" bson:"name"`
	Address string `json:"address" bson:"address"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone" bson:"phone"`
}

// PackageDims are the physical attributes the carrier requires. Orders that
// never collected them fall back to 10x10x10 cm at 0.5 kg.
type PackageDims struct {
	Length  float64 `json:"length" bson:"length"`
	Breadth float64 `json:"breadth" bson:"breadth"`
	Height  float64 `json:"height" bson:"height"`
	Weight  float64 `json:"weight" bson:"weight"`
}

// OrderItem is a frozen snapshot of a product at purchase time.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

type Order struct {
	OrderID         string      `json:"orderId" bson:"orderid"`
	UserID          string      `json:"userId" bson:"userId"`
	Items           []OrderItem `json:"items" bson:"items"`
	Subtotal        float64     `json:"subtotal" bson:"subtotal"`
	DiscountAmount  float64     `json:"discountAmount" bson:"discountAmount"`
	CouponCode      string      `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	GiftCardCode    string      `json:"giftCardCode,omitempty" bson:"giftCardCode,omitempty"`
	GiftCardApplied float64     `json:"giftCardApplied,omitempty" bson:"giftCardApplied,omitempty"`
	ShippingFee     float64     `json:"shippingFee" bson:"shippingFee"`
	TaxAmount       float64     `json:"taxAmount" bson:"taxAmount"`
	TotalAmount     float64     `json:"totalAmount" bson:"totalAmount"`

	Status          string `json:"status" bson:"status"`
	PaymentMethod   string `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus   string `json:"paymentStatus" bson:"paymentStatus"`
	PaymentID       string `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	ProviderOrderID string `json:"providerOrderId,omitempty" bson:"providerOrderId,omitempty"`

	Billing           Address     `json:"billing" bson:"billing"`
	Shipping          Address     `json:"shipping" bson:"shipping"`
	ShippingIsBilling bool        `json:"shippingIsBilling" bson:"shippingIsBilling"`
	Package           PackageDims `json:"package" bson:"package"`

	ShipmentStatus    string `json:"shipmentStatus" bson:"shipmentStatus"`
	CarrierOrderID    string `json:"carrierOrderId,omitempty" bson:"carrierOrderId,omitempty"`
	CarrierShipmentID string `json:"carrierShipmentId,omitempty" bson:"carrierShipmentId,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
