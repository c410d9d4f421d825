package catalog

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
)

// Categories and collections share the same shallow CRUD shape, so they live
// together here.

func ListCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var cached []models.Category
	if rdx.CacheGet(ctx, "categories:all", &cached) {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	cursor, err := db.CategoriesCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Println("ListCategories Find error:", err)
		http.Error(w, "Could not retrieve categories", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Category
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("ListCategories cursor.All error:", err)
		http.Error(w, "Error reading categories", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Category{}
	}

	rdx.CacheSet(ctx, "categories:all", list, 10*time.Minute)
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var cat models.Category
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if cat.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	cat.CategoryID = utils.NewID("cat")
	cat.Slug = utils.Slugify(cat.Name)
	cat.CreatedAt = time.Now()

	if _, err := db.CategoriesCollection.InsertOne(ctx, cat); err != nil {
		log.Println("CreateCategory InsertOne error:", err)
		http.Error(w, "Failed to create category", http.StatusInternalServerError)
		return
	}

	rdx.CacheDel(ctx, "categories:all")
	utils.RespondWithJSON(w, http.StatusCreated, cat)
}

func DeleteCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.CategoriesCollection.DeleteOne(ctx, bson.M{"categoryid": ps.ByName("id")})
	if err != nil {
		log.Println("DeleteCategory error:", err)
		http.Error(w, "Failed to delete category", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}

	rdx.CacheDel(ctx, "categories:all")
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func ListCollections(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.CollectionsCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Println("ListCollections Find error:", err)
		http.Error(w, "Could not retrieve collections", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Collection
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("ListCollections cursor.All error:", err)
		http.Error(w, "Error reading collections", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Collection{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func CreateCollection(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var col models.Collection
	if err := json.NewDecoder(r.Body).Decode(&col); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if col.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	col.CollectionID = utils.NewID("col")
	col.Slug = utils.Slugify(col.Name)
	col.CreatedAt = time.Now()

	if _, err := db.CollectionsCollection.InsertOne(ctx, col); err != nil {
		log.Println("CreateCollection InsertOne error:", err)
		http.Error(w, "Failed to create collection", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, col)
}

// UpdateCollection replaces the product membership of a collection.
func UpdateCollection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var patch struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		ProductIDs  []string `json:"productIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{}
	if patch.Name != "" {
		set["name"] = patch.Name
		set["slug"] = utils.Slugify(patch.Name)
	}
	if patch.Description != "" {
		set["description"] = patch.Description
	}
	if patch.ProductIDs != nil {
		set["productIds"] = patch.ProductIDs
	}
	if len(set) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	res, err := db.CollectionsCollection.UpdateOne(ctx, bson.M{"collectionid": ps.ByName("id")}, bson.M{"$set": set})
	if err != nil {
		log.Println("UpdateCollection error:", err)
		http.Error(w, "Failed to update collection", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Collection not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeleteCollection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.CollectionsCollection.DeleteOne(ctx, bson.M{"collectionid": ps.ByName("id")})
	if err != nil {
		log.Println("DeleteCollection error:", err)
		http.Error(w, "Failed to delete collection", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Collection not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
