package shipping

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"ayurkart/outbox"
	"ayurkart/settings"
	"ayurkart/utils"

	"github.com/julienschmidt/httprouter"
)

// CheckServiceability proxies courier availability between the store's pickup
// pincode and the customer's delivery pincode.
func CheckServiceability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	delivery := r.URL.Query().Get("pincode")
	if delivery == "" {
		http.Error(w, "Delivery pincode is required", http.StatusBadRequest)
		return
	}

	weight := 0.5
	if wq := r.URL.Query().Get("weight"); wq != "" {
		if parsed, err := strconv.ParseFloat(wq, 64); err == nil && parsed > 0 {
			weight = parsed
		}
	}
	cod := r.URL.Query().Get("cod") == "1"

	s, err := settings.ResolveCarrier(ctx)
	if err == settings.ErrNotConfigured {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Shipping is not configured")
		return
	}
	if err != nil {
		log.Println("CheckServiceability settings error:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if s.PickupPincode == "" {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Pickup pincode is not configured")
		return
	}

	raw, err := outbox.Carrier.CheckServiceability(ctx, s.PickupPincode, delivery, weight, cod)
	if err != nil {
		log.Println("CheckServiceability carrier error:", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to check serviceability")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}
