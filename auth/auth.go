package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"ayurkart/db"
	"ayurkart/globals"
	"ayurkart/middleware"
	"ayurkart/models"
	"ayurkart/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 12 * time.Hour

func generateAccessToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// Register creates a customer account.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Username == "" || input.Email == "" || len(input.Password) < 8 {
		http.Error(w, "Username, email and a password of 8+ characters are required", http.StatusBadRequest)
		return
	}

	err := db.UsersCollection.FindOne(ctx, bson.M{"$or": []bson.M{
		{"username": input.Username},
		{"email": input.Email},
	}}).Err()
	if err == nil {
		http.Error(w, "User already exists", http.StatusConflict)
		return
	} else if err != mongo.ErrNoDocuments {
		log.Println("Register lookup error:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Register: failed to hash password for %s: %v", input.Username, err)
		http.Error(w, "Failed to process password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		UserID:    utils.NewID("usr"),
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hashed),
		Role:      []string{"user"},
		CreatedAt: time.Now(),
	}

	if _, err := db.UsersCollection.InsertOne(ctx, user); err != nil {
		log.Println("Register InsertOne error:", err)
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"userId": user.UserID})
}

// Login verifies credentials and issues a signed token.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if input.Username == "" || input.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	var stored models.User
	err := db.UsersCollection.FindOne(ctx, bson.M{"username": input.Username}).Decode(&stored)
	if err != nil {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(input.Password)); err != nil {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	tokenString, err := generateAccessToken(stored)
	if err != nil {
		log.Println("Login token error:", err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	db.UsersCollection.UpdateOne(ctx,
		bson.M{"userid": stored.UserID},
		bson.M{"$set": bson.M{"lastLogin": time.Now()}},
	)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"token":  tokenString,
		"userId": stored.UserID,
	})
}

// RefreshToken re-issues a token that is within 30 minutes of expiring.
func RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	if time.Until(claims.ExpiresAt.Time) > 30*time.Minute {
		http.Error(w, "Token refresh not allowed yet", http.StatusForbidden)
		return
	}

	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(accessTokenTTL))
	claims.IssuedAt = jwt.NewNumericDate(time.Now())
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	newTokenString, err := newToken.SignedString(globals.JwtSecret)
	if err != nil {
		http.Error(w, "Failed to refresh token", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"token": newTokenString})
}

// Me returns the profile of the authenticated user.
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var user models.User
	err := db.UsersCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("Me lookup error:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}
