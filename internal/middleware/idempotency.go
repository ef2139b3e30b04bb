package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyCacheKey = "idempotency_cache_key"
	IdempotencyLockKey  = "idempotency_lock_key"
)

// Idempotency replays the cached response of a POST carrying a known
// Idempotency-Key. The handler stores the response and releases the lock.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString("user_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cachedRes any
			_ = json.Unmarshal([]byte(val), &cachedRes)
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"ok": true, "data": cachedRes})
			return
		}

		// Short expiry so a crashed request does not hold the key forever.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "Your request is still being processed, please wait.",
			})
			return
		}

		c.Set(IdempotencyCacheKey, cacheKey)
		c.Set(IdempotencyLockKey, lockKey)

		c.Next()
	}
}

// RememberResponse stores payload under the idempotency key and drops the lock.
func RememberResponse(c *gin.Context, rdb *redis.Client, payload any) {
	if rdb == nil {
		return
	}
	ctx := c.Request.Context()
	if lk := c.GetString(IdempotencyLockKey); lk != "" {
		defer rdb.Del(ctx, lk)
	}
	if ck := c.GetString(IdempotencyCacheKey); ck != "" {
		if raw, err := json.Marshal(payload); err == nil {
			_ = rdb.Set(ctx, ck, raw, 24*time.Hour).Err()
		}
	}
}

// ReleaseIdempotencyLock drops the lock without caching, used on failures.
func ReleaseIdempotencyLock(c *gin.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if lk := c.GetString(IdempotencyLockKey); lk != "" {
		rdb.Del(c.Request.Context(), lk)
	}
}
