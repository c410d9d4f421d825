package content

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

// Banners and blog posts: the storefront's editorial surface.

func ListBanners(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var cached []models.Banner
	if rdx.CacheGet(ctx, "banners:active", &cached) {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	cursor, err := db.BannersCollection.Find(ctx, bson.M{"active": true},
		options.Find().SetSort(bson.M{"position": 1}))
	if err != nil {
		log.Println("ListBanners Find error:", err)
		http.Error(w, "Could not retrieve banners", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Banner
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("ListBanners cursor.All error:", err)
		http.Error(w, "Error reading banners", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Banner{}
	}

	rdx.CacheSet(ctx, "banners:active", list, 5*time.Minute)
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func CreateBanner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var banner models.Banner
	if err := json.NewDecoder(r.Body).Decode(&banner); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if banner.Title == "" || banner.Image == "" {
		http.Error(w, "Title and image are required", http.StatusBadRequest)
		return
	}

	banner.BannerID = utils.NewID("bnr")
	banner.CreatedAt = time.Now()

	if _, err := db.BannersCollection.InsertOne(ctx, banner); err != nil {
		log.Println("CreateBanner InsertOne error:", err)
		http.Error(w, "Failed to create banner", http.StatusInternalServerError)
		return
	}

	rdx.CacheDel(ctx, "banners:active")
	utils.RespondWithJSON(w, http.StatusCreated, banner)
}

func DeleteBanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.BannersCollection.DeleteOne(ctx, bson.M{"bannerid": ps.ByName("id")})
	if err != nil {
		log.Println("DeleteBanner error:", err)
		http.Error(w, "Failed to delete banner", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Banner not found", http.StatusNotFound)
		return
	}

	rdx.CacheDel(ctx, "banners:active")
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func ListBlogs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.BlogsCollection.Find(ctx, bson.M{"published": true},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		log.Println("ListBlogs Find error:", err)
		http.Error(w, "Could not retrieve blogs", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Blog
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("ListBlogs cursor.All error:", err)
		http.Error(w, "Error reading blogs", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Blog{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func GetBlog(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var blog models.Blog
	err := db.BlogsCollection.FindOne(ctx, bson.M{"slug": ps.ByName("slug"), "published": true}).Decode(&blog)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Blog not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("GetBlog error:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, blog)
}

func CreateBlog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var blog models.Blog
	if err := json.NewDecoder(r.Body).Decode(&blog); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if blog.Title == "" || blog.Body == "" {
		http.Error(w, "Title and body are required", http.StatusBadRequest)
		return
	}

	blog.BlogID = utils.NewID("blg")
	blog.Slug = utils.Slugify(blog.Title)
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = blog.CreatedAt

	if _, err := db.BlogsCollection.InsertOne(ctx, blog); err != nil {
		log.Println("CreateBlog InsertOne error:", err)
		http.Error(w, "Failed to create blog", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, blog)
}

func UpdateBlog(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var patch struct {
		Title     *string  `json:"title"`
		Body      *string  `json:"body"`
		Tags      []string `json:"tags"`
		Published *bool    `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
		set["slug"] = utils.Slugify(*patch.Title)
	}
	if patch.Body != nil {
		set["body"] = *patch.Body
	}
	if patch.Tags != nil {
		set["tags"] = patch.Tags
	}
	if patch.Published != nil {
		set["published"] = *patch.Published
	}

	res, err := db.BlogsCollection.UpdateOne(ctx, bson.M{"blogid": ps.ByName("id")}, bson.M{"$set": set})
	if err != nil {
		log.Println("UpdateBlog error:", err)
		http.Error(w, "Failed to update blog", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Blog not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeleteBlog(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.BlogsCollection.DeleteOne(ctx, bson.M{"blogid": ps.ByName("id")})
	if err != nil {
		log.Println("DeleteBlog error:", err)
		http.Error(w, "Failed to delete blog", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Blog not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
