// Package usercache stores the session view of authenticated users so that
// /auth/current does not hit the database on every request. Entries expire
// together with the token that produced them.
package usercache

import (
	"context"
	"time"

	"parking-api/internal/models"
)

// Cache is the authenticated-user record store.
type Cache interface {
	// Get returns the cached record and whether it was present and fresh.
	Get(ctx context.Context, username string) (models.UserData, bool)

	// Set stores the record for ttl. A ttl <= 0 means no expiration.
	Set(ctx context.Context, user models.UserData, ttl time.Duration)

	// Delete drops the record if present.
	Delete(ctx context.Context, username string)
}

func cacheKey(username string) string {
	return "user." + username
}
