package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	firebaseutil "io.winapps.sparkbrush/internal/firebase"
)

// AuthMiddleware verifies the Firebase ID token from the Authorization
// header and sets the caller's uid on the context. Verified tokens are
// cached in Redis keyed by token hash so repeated calls within a
// session skip the Firebase round trip.
func AuthMiddleware(firebaseApp *firebase.App, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with 'Bearer '"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, bearerPrefix)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
			c.Abort()
			return
		}

		ctx := context.Background()

		// Try the Redis cache before hitting Firebase
		sum := sha256.Sum256([]byte(token))
		cacheKey := "auth_token:" + hex.EncodeToString(sum[:])
		if uid, err := redisClient.Get(ctx, cacheKey).Result(); err == nil && uid != "" {
			c.Set("uid", uid)
			c.Next()
			return
		}

		authClient, err := firebaseutil.GetAuthClient(firebaseApp)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize auth client"})
			c.Abort()
			return
		}

		verified, err := authClient.VerifyIDToken(ctx, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		redisClient.Set(ctx, cacheKey, verified.UID, time.Hour)

		c.Set("uid", verified.UID)
		c.Next()
	}
}

// SimulatedAuthMiddleware trusts the X-User-ID header. Selected once at
// startup for the simulated environment, never in live mode.
func SimulatedAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetHeader("X-User-ID")
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
			c.Abort()
			return
		}
		c.Set("uid", uid)
		c.Next()
	}
}
