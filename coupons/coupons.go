package coupons

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"ayurkart/db"
	"ayurkart/models"
	"ayurkart/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ValidateRequest struct {
	Code string  `json:"code"`
	Cart float64 `json:"cart"` // cart subtotal, for min-spend rules
}

type ValidateResponse struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"` // absolute amount, not %
	Message  string  `json:"message"`
}

// Validate checks a coupon against a cart subtotal. Advisory only: order
// creation re-applies the ledger authoritatively through the checkout quote.
func Validate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	code := strings.TrimSpace(strings.ToLower(req.Code))
	if code == "" {
		utils.RespondWithJSON(w, http.StatusOK, ValidateResponse{Valid: false, Message: "No coupon provided"})
		return
	}

	var coupon models.Coupon
	err := db.CouponsCollection.FindOne(ctx, bson.M{"code": code}).Decode(&coupon)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, ValidateResponse{Valid: false, Message: "Coupon not found"})
		return
	}

	switch {
	case !coupon.Active:
		utils.RespondWithJSON(w, http.StatusOK, ValidateResponse{Valid: false, Message: "Coupon inactive"})
		return
	case time.Now().After(coupon.ExpiresAt):
		utils.RespondWithJSON(w, http.StatusOK, ValidateResponse{Valid: false, Message: "Coupon expired"})
		return
	case coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit:
		utils.RespondWithJSON(w, http.StatusOK, ValidateResponse{Valid: false, Message: "Coupon usage limit reached"})
		return
	case coupon.MinSpend > 0 && req.Cart < coupon.MinSpend:
		utils.RespondWithJSON(w, http.StatusOK, ValidateResponse{Valid: false, Message: "Cart below minimum spend"})
		return
	}

	discount := decimal.NewFromFloat(coupon.Value)
	if coupon.Type == models.CouponTypePercent {
		discount = decimal.NewFromFloat(req.Cart).Mul(discount).Div(decimal.NewFromInt(100))
	}
	amount, _ := discount.Round(2).Float64()

	utils.RespondWithJSON(w, http.StatusOK, ValidateResponse{
		Valid:    true,
		Discount: amount,
		Message:  "Coupon applied successfully",
	})
}

// Redeem increments a coupon's usage counter at order creation.
func Redeem(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	_, err := db.CouponsCollection.UpdateOne(ctx,
		bson.M{"code": strings.ToLower(code)},
		bson.M{"$inc": bson.M{"usedCount": 1}},
	)
	return err
}

// --- Admin CRUD ---

func CreateCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var coupon models.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	coupon.Code = strings.ToLower(strings.TrimSpace(coupon.Code))
	if coupon.Code == "" || coupon.Value <= 0 {
		http.Error(w, "Code and a positive value are required", http.StatusBadRequest)
		return
	}
	if coupon.Type != models.CouponTypePercent && coupon.Type != models.CouponTypeFlat {
		http.Error(w, "Type must be percent or flat", http.StatusBadRequest)
		return
	}
	if coupon.Type == models.CouponTypePercent && coupon.Value > 100 {
		http.Error(w, "Percent value cannot exceed 100", http.StatusBadRequest)
		return
	}
	coupon.UsedCount = 0
	coupon.CreatedAt = time.Now()

	if _, err := db.CouponsCollection.InsertOne(ctx, coupon); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "Coupon code already exists", http.StatusConflict)
			return
		}
		log.Println("CreateCoupon InsertOne error:", err)
		http.Error(w, "Failed to create coupon", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, coupon)
}

func ListCoupons(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.CouponsCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Println("ListCoupons Find error:", err)
		http.Error(w, "Could not retrieve coupons", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		log.Println("ListCoupons cursor.All error:", err)
		http.Error(w, "Error reading coupons", http.StatusInternalServerError)
		return
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}

	utils.RespondWithJSON(w, http.StatusOK, coupons)
}

func UpdateCoupon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	code := strings.ToLower(ps.ByName("code"))

	var patch struct {
		Value      *float64   `json:"value"`
		MinSpend   *float64   `json:"minSpend"`
		ExpiresAt  *time.Time `json:"expiresAt"`
		Active     *bool      `json:"active"`
		UsageLimit *int       `json:"usageLimit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{}
	if patch.Value != nil {
		set["value"] = *patch.Value
	}
	if patch.MinSpend != nil {
		set["minSpend"] = *patch.MinSpend
	}
	if patch.ExpiresAt != nil {
		set["expiresAt"] = *patch.ExpiresAt
	}
	if patch.Active != nil {
		set["active"] = *patch.Active
	}
	if patch.UsageLimit != nil {
		set["usageLimit"] = *patch.UsageLimit
	}
	if len(set) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	res, err := db.CouponsCollection.UpdateOne(ctx, bson.M{"code": code}, bson.M{"$set": set})
	if err != nil {
		log.Println("UpdateCoupon error:", err)
		http.Error(w, "Failed to update coupon", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Coupon not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeleteCoupon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	code := strings.ToLower(ps.ByName("code"))
	res, err := db.CouponsCollection.DeleteOne(ctx, bson.M{"code": code})
	if err != nil {
		log.Println("DeleteCoupon error:", err)
		http.Error(w, "Failed to delete coupon", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Coupon not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
