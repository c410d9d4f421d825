package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ayurkart/checkout"
	"ayurkart/coupons"
	"ayurkart/db"
	"ayurkart/giftcards"
	"ayurkart/models"
	"ayurkart/outbox"
	"ayurkart/pay"
	"ayurkart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateOrderRequest struct {
	Items             []checkout.QuoteItem `json:"items"`
	CouponCode        string               `json:"couponCode,omitempty"`
	GiftCardCode      string               `json:"giftCardCode,omitempty"`
	PaymentMethod     string               `json:"paymentMethod"`
	RazorpayOrderID   string               `json:"razorpayOrderId,omitempty"`
	Billing           models.Address       `json:"billing"`
	Shipping          models.Address       `json:"shipping"`
	ShippingIsBilling bool                 `json:"shippingIsBilling"`
}

func validateAddress(a models.Address) error {
	if len(strings.TrimSpace(a.Name)) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	if !strings.Contains(a.Email, "@") {
		return fmt.Errorf("invalid email")
	}
	digits := 0
	for _, r := range a.Phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 10 {
		return fmt.Errorf("phone must have at least 10 digits")
	}
	if len(strings.TrimSpace(a.Address)) < 5 {
		return fmt.Errorf("address must be at least 5 characters")
	}
	if len(strings.TrimSpace(a.City)) < 2 || len(strings.TrimSpace(a.State)) < 2 {
		return fmt.Errorf("city and state are required")
	}
	if len(strings.TrimSpace(a.Pincode)) < 5 {
		return fmt.Errorf("pincode must be at least 5 characters")
	}
	return nil
}

// CreateOrder persists an order after recomputing its totals server-side.
// COD orders persist immediately as unpaid; online orders require a verified
// provider payment first, so no order ever exists for a failed payment.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

	switch req.PaymentMethod {
	case models.PaymentMethodCard, models.PaymentMethodUPI, models.PaymentMethodCOD:
	default:
		http.Error(w, "Unsupported payment method", http.StatusBadRequest)
		return
	}

	if err := validateAddress(req.Billing); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "billing: "+err.Error())
		return
	}
	if !req.ShippingIsBilling {
		if err := validateAddress(req.Shipping); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "shipping: "+err.Error())
			return
		}
	}

	quote, err := checkout.PriceCart(ctx, checkout.QuoteRequest{
		Items:        req.Items,
		CouponCode:   req.CouponCode,
		GiftCardCode: req.GiftCardCode,
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	paymentStatus := models.PaymentStatusUnpaid
	paymentID := ""
	if req.PaymentMethod != models.PaymentMethodCOD {
		if req.RazorpayOrderID == "" {
			http.Error(w, "Missing payment order reference", http.StatusBadRequest)
			return
		}
		pending, err := pay.ConsumeVerifiedPayment(ctx, req.RazorpayOrderID, userID, pay.MinorUnits(quote.TotalAmount))
		if err == pay.ErrPaymentMismatch {
			utils.RespondWithError(w, http.StatusPaymentRequired, "Payment amount does not match order total")
			return
		}
		if err != nil {
			log.Println("CreateOrder payment not verified:", err)
			http.Error(w, "Payment not verified", http.StatusPaymentRequired)
			return
		}
		paymentStatus = models.PaymentStatusPaid
		paymentID = pending.PaymentID
	}

	shipping := req.Shipping
	if req.ShippingIsBilling {
		shipping = req.Billing
	}

	now := time.Now()
	order := models.Order{
		OrderID:           utils.NewID("ord"),
		UserID:            userID,
		Items:             quote.Items,
		Subtotal:          quote.Subtotal,
		DiscountAmount:    quote.DiscountAmount,
		CouponCode:        quote.CouponCode,
		GiftCardCode:      quote.GiftCardCode,
		GiftCardApplied:   quote.GiftCardApplied,
		ShippingFee:       quote.ShippingFee,
		TaxAmount:         quote.TaxAmount,
		TotalAmount:       quote.TotalAmount,
		Status:            models.OrderStatusPending,
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     paymentStatus,
		PaymentID:         paymentID,
		ProviderOrderID:   req.RazorpayOrderID,
		Billing:           req.Billing,
		Shipping:          shipping,
		ShippingIsBilling: req.ShippingIsBilling,
		ShipmentStatus:    models.ShipmentStatusQueued,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := db.OrdersCollection.InsertOne(ctx, order); err != nil {
		log.Println("CreateOrder InsertOne error:", err)
		// Hand the payment back so a retry does not strand a settled charge.
		if paymentStatus == models.PaymentStatusPaid {
			if rerr := pay.ReleasePayment(ctx, req.RazorpayOrderID, userID); rerr != nil {
				log.Println("CreateOrder payment release error:", rerr)
			}
		}
		http.Error(w, "Order creation failed", http.StatusInternalServerError)
		return
	}

	// Ledger side effects after the order exists.
	if err := coupons.Redeem(ctx, order.CouponCode); err != nil {
		log.Println("CreateOrder coupon redeem error:", err)
	}
	if err := giftcards.Debit(ctx, order.GiftCardCode, order.GiftCardApplied); err != nil {
		log.Println("CreateOrder gift card debit error:", err)
	}

	// Clear the server-side cart; failure is logged, not fatal.
	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		log.Println("CreateOrder cart cleanup error:", err)
	}

	// Shipment creation is decoupled; the carrier never blocks this response.
	if err := outbox.Enqueue(ctx, order.OrderID); err != nil {
		log.Println("CreateOrder outbox enqueue error:", err)
		_, _ = db.OrdersCollection.UpdateOne(ctx,
			bson.M{"orderid": order.OrderID},
			bson.M{"$set": bson.M{"shipmentStatus": models.ShipmentStatusFailed}},
		)
	}

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetOrder returns one order scoped to its owner.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": ps.ByName("id"), "userId": userID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("GetOrder error:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// ListOrders returns the user's orders, newest first, optional status filter.
func ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"userId": userID}
	if status := r.URL.Query().Get("status"); status != "" {
		if !ValidStatus(status) {
			http.Error(w, "Unknown status filter", http.StatusBadRequest)
			return
		}
		filter["status"] = status
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	findOptions := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := db.OrdersCollection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("ListOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("ListOrders cursor.All error:", err)
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// CancelOrder lets a customer cancel before shipping. Any carrier-side
// shipment is cancelled too; carrier failure surfaces, it is not swallowed.
func CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": ps.ByName("id"), "userId": userID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("CancelOrder lookup error:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := Transition(order.Status, models.OrderStatusCancelled); err != nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	set := bson.M{"status": models.OrderStatusCancelled, "updatedAt": time.Now()}
	if order.CarrierOrderID != "" {
		if err := outbox.Carrier.CancelShipment(ctx, order.CarrierOrderID, body.Reason); err != nil {
			log.Println("CancelOrder carrier error:", err)
			utils.RespondWithError(w, http.StatusBadGateway, "Failed to cancel shipment: "+err.Error())
			return
		}
		set["shipmentStatus"] = models.ShipmentStatusCancelled
	}

	if _, err := db.OrdersCollection.UpdateOne(ctx, bson.M{"orderid": order.OrderID}, bson.M{"$set": set}); err != nil {
		log.Println("CancelOrder update error:", err)
		http.Error(w, "Failed to cancel order", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": models.OrderStatusCancelled})
}

// TrackOrder proxies the carrier's tracking payload verbatim.
func TrackOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": ps.ByName("id"), "userId": userID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("TrackOrder lookup error:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if order.CarrierOrderID == "" {
		http.Error(w, "No shipment for this order yet", http.StatusNotFound)
		return
	}

	raw, err := outbox.Carrier.TrackShipment(ctx, order.CarrierOrderID)
	if err != nil {
		log.Println("TrackOrder carrier error:", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Tracking unavailable: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}
