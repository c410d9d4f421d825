package cart

import (
	"context"
	"encoding/json"
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

// AddToCart increments quantity if the item exists, or inserts a new CartItem.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var item models.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	item.UserID = userID

	if item.ProductID == "" || item.Quantity <= 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	// Snapshot the price from the catalog, never from the client.
	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": item.ProductID, "active": true}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Product not available", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Println("AddToCart product lookup error:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	filter := bson.M{"userId": userID, "productId": item.ProductID}
	update := bson.M{
		"$inc": bson.M{"quantity": item.Quantity},
		"$setOnInsert": bson.M{
			"name":    product.Name,
			"price":   product.Price,
			"addedAt": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := db.CartCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Println("AddToCart UpdateOne error:", err)
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// GetCart returns all cart items for the user.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		log.Println("GetCart Find error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetCart cursor.All error:", err)
		http.Error(w, "Error reading cart data", http.StatusInternalServerError)
		return
	}
	if len(items) == 0 {
		items = []models.CartItem{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// UpdateCart replaces the user's cart contents wholesale.
func UpdateCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Items []models.CartItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("UpdateCart decode error:", err)
		http.Error(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		log.Println("UpdateCart DeleteMany error:", err)
		http.Error(w, "Failed to clear existing cart items", http.StatusInternalServerError)
		return
	}

	if len(payload.Items) > 0 {
		now := time.Now()
		docs := make([]interface{}, 0, len(payload.Items))
		for _, it := range payload.Items {
			it.UserID = userID
			it.AddedAt = now
			docs = append(docs, it)
		}
		if _, err := db.CartCollection.InsertMany(ctx, docs); err != nil {
			log.Println("UpdateCart InsertMany error:", err)
			http.Error(w, "Failed to update cart", http.StatusInternalServerError)
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "updated"})
}

// ClearCart empties the user's cart.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		log.Println("ClearCart DeleteMany error:", err)
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
