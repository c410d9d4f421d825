package rdx

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}

// CacheGet loads a JSON value into dest. A miss, an unreachable Redis, or a
// decode failure all report !hit; callers fall through to the database.
func CacheGet(ctx context.Context, key string, dest any) (hit bool) {
	if Conn == nil {
		return false
	}
	raw, err := Conn.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Println("rdx: cache get error:", err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Println("rdx: cache decode error:", err)
		return false
	}
	return true
}

// CacheSet stores a JSON value with a TTL. Failures are logged and ignored.
func CacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if Conn == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Println("rdx: cache encode error:", err)
		return
	}
	if err := Conn.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Println("rdx: cache set error:", err)
	}
}

// CacheDel removes keys after a write so readers see fresh data.
func CacheDel(ctx context.Context, keys ...string) {
	if Conn == nil || len(keys) == 0 {
		return
	}
	if err := Conn.Del(ctx, keys...).Err(); err != nil {
		log.Println("rdx: cache del error:", err)
	}
}
