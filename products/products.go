package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ayurkart/db"
	"ayurkart/models"
	"ayurkart/rdx"
	"ayurkart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cacheTTL = 5 * time.Minute

func cacheKey(id string) string { return "product:" + id }

// ListProducts returns active products, optionally filtered by category or
// collection. The unfiltered listing is served read-through from Redis.
func ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	category := r.URL.Query().Get("category")
	collection := r.URL.Query().Get("collection")

	cacheable := category == "" && collection == ""
	if cacheable {
		var cached []models.Product
		if rdx.CacheGet(ctx, "products:all", &cached) {
			utils.RespondWithJSON(w, http.StatusOK, cached)
			return
		}
	}

	filter := bson.M{"active": true}
	if category != "" {
		filter["category"] = category
	}
	if collection != "" {
		filter["collections"] = collection
	}

	cursor, err := db.ProductsCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		log.Println("ListProducts Find error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Product
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("ListProducts cursor.All error:", err)
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Product{}
	}

	if cacheable {
		rdx.CacheSet(ctx, "products:all", list, cacheTTL)
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetProduct returns one product by id, read-through cached.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")
	var product models.Product
	if rdx.CacheGet(ctx, cacheKey(id), &product) {
		utils.RespondWithJSON(w, http.StatusOK, product)
		return
	}

	err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("GetProduct error:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rdx.CacheSet(ctx, cacheKey(id), product, cacheTTL)
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct adds a catalog entry (admin only).
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if product.Name == "" || product.Price <= 0 {
		http.Error(w, "Name and a positive price are required", http.StatusBadRequest)
		return
	}

	product.ProductID = utils.NewID("prd")
	if product.Slug == "" {
		product.Slug = utils.Slugify(product.Name)
	}
	product.Active = true
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	rdx.CacheDel(ctx, "products:all")
	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct replaces mutable fields on a product (admin only).
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")
	var patch models.Product
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Name != "" {
		set["name"] = patch.Name
		set["slug"] = utils.Slugify(patch.Name)
	}
	if patch.Description != "" {
		set["description"] = patch.Description
	}
	if patch.Price > 0 {
		set["price"] = patch.Price
	}
	if patch.Stock >= 0 {
		set["stock"] = patch.Stock
	}
	if patch.Category != "" {
		set["category"] = patch.Category
	}
	if patch.Collections != nil {
		set["collections"] = patch.Collections
	}
	if patch.Images != nil {
		set["images"] = patch.Images
	}
	if patch.Benefits != nil {
		set["benefits"] = patch.Benefits
	}
	if patch.Ingredients != nil {
		set["ingredients"] = patch.Ingredients
	}
	if patch.Dosage != "" {
		set["dosage"] = patch.Dosage
	}

	res, err := db.ProductsCollection.UpdateOne(ctx, bson.M{"productid": id}, bson.M{"$set": set})
	if err != nil {
		log.Println("UpdateProduct error:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	rdx.CacheDel(ctx, "products:all", cacheKey(id))
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteProduct soft-deletes by marking the product inactive.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")
	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productid": id},
		bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Println("DeleteProduct error:", err)
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	rdx.CacheDel(ctx, "products:all", cacheKey(id))
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
