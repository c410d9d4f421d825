package globals

import "os"

var JwtSecret = []byte(envOr("JWT_SECRET", "change_me_in_production"))

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
