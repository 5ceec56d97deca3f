package auth

import (
	"errors"
	"time"

	"parking-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims
type Claims struct {
	UserID   int         `json:"userid"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies the signed session tokens. Tokens are
// short-lived; every verified request gets a fresh one so an active
// session never expires mid-use.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens builds a token service with the given signing secret and TTL.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Generate signs a token for the given session user.
func (t *Tokens) Generate(user models.UserData) (string, error) {
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify validates a token and returns its claims along with a refreshed
// token carrying the same identity.
func (t *Tokens) Verify(tokenString string) (*Claims, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, "", errors.New("invalid token")
	}
	refreshed, err := t.Generate(models.UserData{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	})
	if err != nil {
		return nil, "", err
	}
	return claims, refreshed, nil
}
