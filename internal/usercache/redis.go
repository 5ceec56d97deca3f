package usercache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"parking-api/internal/models"

	"github.com/redis/go-redis/v9"
)

// Redis backs the cache with a shared Redis instance so that several API
// replicas see the same session records. Failures degrade to cache misses.
type Redis struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedis connects using a redis:// URL and verifies the connection.
func NewRedis(ctx context.Context, url string, log *slog.Logger) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return &Redis{client: client, log: log}, nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get implements Cache.Get.
func (r *Redis) Get(ctx context.Context, username string) (models.UserData, bool) {
	raw, err := r.client.Get(ctx, cacheKey(username)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("user cache read failed", "username", username, "error", err)
		}
		return models.UserData{}, false
	}
	var user models.UserData
	if err := json.Unmarshal(raw, &user); err != nil {
		r.log.Warn("user cache entry corrupt", "username", username, "error", err)
		return models.UserData{}, false
	}
	return user, true
}

// Set implements Cache.Set.
func (r *Redis) Set(ctx context.Context, user models.UserData, ttl time.Duration) {
	raw, err := json.Marshal(user)
	if err != nil {
		r.log.Warn("user cache encode failed", "username", user.Username, "error", err)
		return
	}
	if err := r.client.Set(ctx, cacheKey(user.Username), raw, ttl).Err(); err != nil {
		r.log.Warn("user cache write failed", "username", user.Username, "error", err)
	}
}

// Delete implements Cache.Delete.
func (r *Redis) Delete(ctx context.Context, username string) {
	if err := r.client.Del(ctx, cacheKey(username)).Err(); err != nil {
		r.log.Warn("user cache delete failed", "username", username, "error", err)
	}
}

var _ Cache = (*Redis)(nil)
