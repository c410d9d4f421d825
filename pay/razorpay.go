package pay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"ayurkart/db"
	"ayurkart/models"
	"ayurkart/settings"
	"ayurkart/utils"

	"github.com/julienschmidt/httprouter"
	razorpay "github.com/razorpay/razorpay-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrPaymentMismatch means the provider payment exists and verified, but was
// made for a different amount than the order being settled.
var ErrPaymentMismatch = errors.New("payment amount does not match order total")

// MinorUnits converts a rupee amount to integer paise.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// paymentCoversTotal reports whether the provider payment was made for exactly
// the server-computed total in paise.
func paymentCoversTotal(p models.PendingPayment, amountMinor int64) bool {
	return p.Amount == amountMinor && p.Currency == "INR"
}

// isReplayedVerification reports whether a verify callback repeats one that
// already succeeded for the same payment id.
func isReplayedVerification(p models.PendingPayment, paymentID string) bool {
	return p.Status == models.PendingPaymentVerified && p.PaymentID == paymentID
}

type CreateOrderRequest struct {
	Amount   int64  `json:"amount"` // minor currency units (paise)
	Currency string `json:"currency"`
}

type VerifyRequest struct {
	RazorpayOrderID string `json:"razorpayOrderId"`
	PaymentID       string `json:"paymentId"`
	Signature       string `json:"signature"`
}

// VerifySignature checks the provider callback signature: HMAC-SHA256 of
// "orderId|paymentId" keyed with the key secret, compared in constant time.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// CreateProviderOrder creates a Razorpay order and records a pending payment.
// The storefront opens the hosted checkout with the returned order id.
func CreateProviderOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.Amount <= 0 {
		http.Error(w, "Amount must be positive", http.StatusBadRequest)
		return
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	keyID, keySecret, err := settings.ResolvePayment(ctx)
	if err != nil {
		log.Println("CreateProviderOrder settings error:", err)
		http.Error(w, "Payment provider not configured", http.StatusInternalServerError)
		return
	}

	client := razorpay.NewClient(keyID, keySecret)
	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  "rcpt_" + utils.GetUUID(),
	}
	providerOrder, err := client.Order.Create(data, nil)
	if err != nil {
		log.Println("CreateProviderOrder provider error:", err)
		http.Error(w, "Failed to create payment order", http.StatusInternalServerError)
		return
	}

	providerOrderID, _ := providerOrder["id"].(string)
	now := time.Now()
	pending := models.PendingPayment{
		ProviderOrderID: providerOrderID,
		UserID:          userID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Status:          models.PendingPaymentCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := db.PendingPaymentsCollection.InsertOne(ctx, pending); err != nil {
		log.Println("CreateProviderOrder InsertOne error:", err)
		http.Error(w, "Failed to record payment", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orderId":  providerOrderID,
		"amount":   req.Amount,
		"currency": req.Currency,
		"keyId":    keyID,
	})
}

// VerifyPayment validates the checkout callback signature. Only a verified
// pending payment can later be consumed by order creation; an invalid
// signature leaves no order behind and the client may retry.
func VerifyPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.RazorpayOrderID == "" || req.PaymentID == "" || req.Signature == "" {
		http.Error(w, "Missing payment fields", http.StatusBadRequest)
		return
	}

	_, keySecret, err := settings.ResolvePayment(ctx)
	if err != nil {
		log.Println("VerifyPayment settings error:", err)
		http.Error(w, "Payment provider not configured", http.StatusInternalServerError)
		return
	}

	if !VerifySignature(req.RazorpayOrderID, req.PaymentID, req.Signature, keySecret) {
		_, _ = db.PendingPaymentsCollection.UpdateOne(ctx,
			bson.M{"providerOrderId": req.RazorpayOrderID, "userId": userID},
			bson.M{"$set": bson.M{"status": models.PendingPaymentFailed, "updatedAt": time.Now()}},
		)
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"valid": false, "error": "Payment failed"})
		return
	}

	res, err := db.PendingPaymentsCollection.UpdateOne(ctx,
		bson.M{"providerOrderId": req.RazorpayOrderID, "userId": userID, "status": models.PendingPaymentCreated},
		bson.M{"$set": bson.M{
			"status":    models.PendingPaymentVerified,
			"paymentId": req.PaymentID,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		log.Println("VerifyPayment UpdateOne error:", err)
		http.Error(w, "Failed to record verification", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		// Duplicate callback for a payment that already verified: idempotent.
		var existing models.PendingPayment
		if err := db.PendingPaymentsCollection.FindOne(ctx,
			bson.M{"providerOrderId": req.RazorpayOrderID, "userId": userID},
		).Decode(&existing); err == nil && isReplayedVerification(existing, req.PaymentID) {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"valid": true})
			return
		}
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"valid": false, "error": "Unknown payment order"})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"valid": true})
}

// ConsumeVerifiedPayment atomically flips a verified pending payment to
// consumed and returns it. The filter includes the server-computed total in
// paise, so a payment made for any other amount can never settle an order.
func ConsumeVerifiedPayment(ctx context.Context, providerOrderID, userID string, amountMinor int64) (models.PendingPayment, error) {
	var pending models.PendingPayment
	err := db.PendingPaymentsCollection.FindOneAndUpdate(ctx,
		bson.M{
			"providerOrderId": providerOrderID,
			"userId":          userID,
			"status":          models.PendingPaymentVerified,
			"amount":          amountMinor,
			"currency":        "INR",
		},
		bson.M{"$set": bson.M{"status": models.PendingPaymentConsumed, "updatedAt": time.Now()}},
	).Decode(&pending)
	if err == mongo.ErrNoDocuments {
		// Distinguish a wrong amount from a missing or unverified payment.
		var existing models.PendingPayment
		if e := db.PendingPaymentsCollection.FindOne(ctx,
			bson.M{"providerOrderId": providerOrderID, "userId": userID, "status": models.PendingPaymentVerified},
		).Decode(&existing); e == nil && !paymentCoversTotal(existing, amountMinor) {
			return pending, ErrPaymentMismatch
		}
	}
	return pending, err
}

// ReleasePayment returns a consumed payment to verified so order creation can
// be retried after a persistence failure.
func ReleasePayment(ctx context.Context, providerOrderID, userID string) error {
	_, err := db.PendingPaymentsCollection.UpdateOne(ctx,
		bson.M{"providerOrderId": providerOrderID, "userId": userID, "status": models.PendingPaymentConsumed},
		bson.M{"$set": bson.M{"status": models.PendingPaymentVerified, "updatedAt": time.Now()}},
	)
	return err
}
