package giftcards

import (
	"context"
	"encoding/json"
	"fmt"
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

// Debit subtracts a redeemed amount from a gift card's balance. The filter
// guards the balance so a concurrent redemption cannot drive it negative.
func Debit(ctx context.Context, code string, amount float64) error {
	if code == "" || amount <= 0 {
		return nil
	}
	res, err := db.GiftCardsCollection.UpdateOne(ctx,
		bson.M{"code": code, "active": true, "balance": bson.M{"$gte": amount}},
		bson.M{"$inc": bson.M{"balance": -amount}},
	)
	if err != nil {
		return fmt.Errorf("debit gift card %s: %w", code, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("gift card %s has insufficient balance", code)
	}
	return nil
}

// CheckBalance returns the remaining balance for a gift card code.
func CheckBalance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	code := strings.TrimSpace(ps.ByName("code"))
	var gc models.GiftCard
	err := db.GiftCardsCollection.FindOne(ctx, bson.M{"code": code}).Decode(&gc)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Gift card not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("CheckBalance error:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	valid := gc.Active && time.Now().Before(gc.ExpiresAt) && gc.Balance > 0
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"code":    gc.Code,
		"balance": gc.Balance,
		"valid":   valid,
	})
}

// CreateGiftCard issues a new card with a generated code.
func CreateGiftCard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Amount    float64    `json:"amount"`
		ExpiresAt *time.Time `json:"expiresAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.Amount <= 0 {
		http.Error(w, "Amount must be positive", http.StatusBadRequest)
		return
	}

	amount, _ := decimal.NewFromFloat(req.Amount).Round(2).Float64()
	expires := time.Now().AddDate(1, 0, 0)
	if req.ExpiresAt != nil {
		expires = *req.ExpiresAt
	}

	gc := models.GiftCard{
		Code:      "GC-" + utils.GenerateRandomDigitString(12),
		Balance:   amount,
		ExpiresAt: expires,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if _, err := db.GiftCardsCollection.InsertOne(ctx, gc); err != nil {
		log.Println("CreateGiftCard InsertOne error:", err)
		http.Error(w, "Failed to create gift card", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, gc)
}

func ListGiftCards(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.GiftCardsCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Println("ListGiftCards Find error:", err)
		http.Error(w, "Could not retrieve gift cards", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var cards []models.GiftCard
	if err := cursor.All(ctx, &cards); err != nil {
		log.Println("ListGiftCards cursor.All error:", err)
		http.Error(w, "Error reading gift cards", http.StatusInternalServerError)
		return
	}
	if cards == nil {
		cards = []models.GiftCard{}
	}

	utils.RespondWithJSON(w, http.StatusOK, cards)
}

// DeactivateGiftCard disables a card without deleting its history.
func DeactivateGiftCard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	code := strings.TrimSpace(ps.ByName("code"))
	res, err := db.GiftCardsCollection.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"active": false}},
	)
	if err != nil {
		log.Println("DeactivateGiftCard error:", err)
		http.Error(w, "Failed to deactivate gift card", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Gift card not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
