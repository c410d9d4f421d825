package utils

import (
	rndm "math/rand"
	"net/http"
	"strings"

	"ayurkart/globals"
	"ayurkart/middleware"

	"github.com/google/uuid"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")
var digitRunes = []rune("0123456789")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateRandomDigitString creates a random numeric string of length n.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}

func GetUUID() string {
	return uuid.New().String()
}

// NewID returns a prefixed short id, e.g. NewID("ord") -> "ord_x8Fq2Lk9".
func NewID(prefix string) string {
	return prefix + "_" + GenerateRandomString(10)
}

// Slugify lowercases a name and replaces separators for URL use.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}

// --- Request helpers ---

// GetUserIDFromRequest extracts the authenticated user id, either from the
// request context (set by middleware) or by validating the bearer token.
func GetUserIDFromRequest(r *http.Request) string {
	if id, ok := r.Context().Value(globals.UserIDKey).(string); ok && id != "" {
		return id
	}
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		return ""
	}
	return claims.UserID
}
