package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"ayurkart/db"
	"ayurkart/models"
	"ayurkart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const singletonID = "store"

var ErrNotConfigured = errors.New("store settings not configured")

// Resolve reads the settings singleton fresh; credentials are rotated through
// the admin UI, so no in-process caching here.
func Resolve(ctx context.Context) (models.StoreSettings, error) {
	var s models.StoreSettings
	err := db.SettingsCollection.FindOne(ctx, bson.M{"_id": singletonID}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return s, ErrNotConfigured
	}
	if err != nil {
		return s, err
	}
	return s, nil
}

// ResolvePayment returns Razorpay credentials, failing hard when blank.
func ResolvePayment(ctx context.Context) (keyID, keySecret string, err error) {
	s, err := Resolve(ctx)
	if err != nil {
		return "", "", err
	}
	if s.RazorpayKeyID == "" || s.RazorpayKeySecret == "" {
		return "", "", ErrNotConfigured
	}
	return s.RazorpayKeyID, s.RazorpayKeySecret, nil
}

// ResolveCarrier returns Shiprocket credentials plus pickup configuration.
func ResolveCarrier(ctx context.Context) (models.StoreSettings, error) {
	s, err := Resolve(ctx)
	if err != nil {
		return s, err
	}
	if s.ShiprocketEmail == "" || s.ShiprocketPassword == "" {
		return s, ErrNotConfigured
	}
	return s, nil
}

// GetSettings returns the singleton for the admin UI.
func GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	s, err := Resolve(ctx)
	if err == ErrNotConfigured {
		utils.RespondWithJSON(w, http.StatusOK, models.StoreSettings{ID: singletonID})
		return
	}
	if err != nil {
		log.Println("GetSettings error:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, s)
}

// UpdateSettings upserts the singleton document.
func UpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var s models.StoreSettings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if s.TaxEnabled && (s.TaxPercent < 0 || s.TaxPercent > 100) {
		http.Error(w, "Tax percentage must be between 0 and 100", http.StatusBadRequest)
		return
	}

	s.ID = singletonID
	s.UpdatedAt = time.Now()

	opts := options.Replace().SetUpsert(true)
	if _, err := db.SettingsCollection.ReplaceOne(ctx, bson.M{"_id": singletonID}, s, opts); err != nil {
		log.Println("UpdateSettings error:", err)
		http.Error(w, "Failed to update settings", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
