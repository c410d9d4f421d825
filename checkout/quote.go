package checkout

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
	"ayurkart/settings"
	"ayurkart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuoteItem is what the client sends: a product reference and a quantity.
// Prices come from the catalog, never from the request.
type QuoteItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type QuoteRequest struct {
	Items        []QuoteItem `json:"items"`
	CouponCode   string      `json:"couponCode,omitempty"`
	GiftCardCode string      `json:"giftCardCode,omitempty"`
}

// snapshotItems resolves each requested product to a frozen price snapshot.
func snapshotItems(ctx context.Context, reqItems []QuoteItem) ([]models.OrderItem, error) {
	if len(reqItems) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	items := make([]models.OrderItem, 0, len(reqItems))
	for _, ri := range reqItems {
		if ri.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity for product %s", ri.ProductID)
		}
		var p models.Product
		err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": ri.ProductID, "active": true}).Decode(&p)
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("product %s not available", ri.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if p.Stock > 0 && ri.Quantity > p.Stock {
			return nil, fmt.Errorf("insufficient stock for %s", p.Name)
		}
		items = append(items, models.OrderItem{
			ProductID: p.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  ri.Quantity,
		})
	}
	return items, nil
}

func loadCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	if code == "" {
		return nil, nil
	}
	var c models.Coupon
	err := db.CouponsCollection.FindOne(ctx, bson.M{"code": strings.ToLower(strings.TrimSpace(code))}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrCouponInvalid
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func loadGiftCard(ctx context.Context, code string) (*models.GiftCard, error) {
	if code == "" {
		return nil, nil
	}
	var g models.GiftCard
	err := db.GiftCardsCollection.FindOne(ctx, bson.M{"code": strings.TrimSpace(code)}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, ErrGiftCardInvalid
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// PriceCart computes the authoritative quote for a cart. Used both by the
// quote endpoint and by order creation, so the persisted totals always match
// this formula.
func PriceCart(ctx context.Context, req QuoteRequest) (Quote, error) {
	items, err := snapshotItems(ctx, req.Items)
	if err != nil {
		return Quote{}, err
	}
	coupon, err := loadCoupon(ctx, req.CouponCode)
	if err != nil {
		return Quote{}, err
	}
	gift, err := loadGiftCard(ctx, req.GiftCardCode)
	if err != nil {
		return Quote{}, err
	}

	s, err := settings.Resolve(ctx)
	if err != nil && err != settings.ErrNotConfigured {
		return Quote{}, err
	}

	return computeQuote(items, coupon, gift, s.TaxEnabled, s.TaxPercent, time.Now())
}

// QuoteHandler prices a cart without side effects.
func QuoteHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	quote, err := PriceCart(ctx, req)
	if err != nil {
		log.Println("QuoteHandler pricing error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, quote)
}
