package auth

import (
	"testing"
	"time"

	"ayurkart/middleware"
	"ayurkart/models"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	user := models.User{
		UserID:   "usr_abc123",
		Username: "kavita",
		Role:     []string{"user", "admin"},
	}

	token, err := generateAccessToken(user)
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}

	claims, err := middleware.ValidateJWT("Bearer " + token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != user.UserID {
		t.Errorf("userID = %q, want %q", claims.UserID, user.UserID)
	}
	if claims.Username != user.Username {
		t.Errorf("username = %q, want %q", claims.Username, user.Username)
	}
	if len(claims.Role) != 2 || claims.Role[1] != "admin" {
		t.Errorf("roles = %v, want %v", claims.Role, user.Role)
	}
	if time.Until(claims.ExpiresAt.Time) > accessTokenTTL {
		t.Errorf("expiry %v exceeds TTL %v", claims.ExpiresAt.Time, accessTokenTTL)
	}
}

func TestValidateJWTRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"Bearer ",
		"Bearer not-a-jwt",
		"Basic dXNlcjpwYXNz",
	}
	for _, header := range cases {
		if _, err := middleware.ValidateJWT(header); err == nil {
			t.Errorf("header %q: expected error", header)
		}
	}
}
