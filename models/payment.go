package models

import "time"

const (
	PendingPaymentCreated  = "created"
	PendingPaymentVerified = "verified"
	PendingPaymentFailed   = "failed"
	PendingPaymentConsumed = "consumed"
)

// PendingPayment tracks a provider order between creation and verification.
// An Order is only persisted once the matching record reaches "verified".
type PendingPayment struct {
	ProviderOrderID string    `json:"providerOrderId" bson:"providerOrderId"`
	UserID          string    `json:"userId" bson:"userId"`
	Amount          int64     `json:"amount" bson:"amount"` // minor currency units
	Currency        string    `json:"currency" bson:"currency"`
	Status          string    `json:"status" bson:"status"`
	PaymentID       string    `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}
