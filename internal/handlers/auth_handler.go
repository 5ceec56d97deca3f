package handlers

import (
	"net/http"

	"parking-api/internal/auth"
	"parking-api/internal/gateway"
	"parking-api/internal/models"
	"parking-api/internal/usercache"
	"parking-api/internal/users"

	"github.com/gin-gonic/gin"
)

// LoginResponse carries the session token together with the user it was
// issued for.
type LoginResponse struct {
	Token string          `json:"token"`
	User  models.UserData `json:"user"`
}

// AuthHandler serves login and the current-session endpoint.
type AuthHandler struct {
	gw     gateway.Gateway
	tokens *auth.Tokens
	cache  usercache.Cache
}

func NewAuthHandler(gw gateway.Gateway, tokens *auth.Tokens, cache usercache.Cache) *AuthHandler {
	return &AuthHandler{gw: gw, tokens: tokens, cache: cache}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var cred users.Credentials
	if err := c.ShouldBindJSON(&cred); err != nil {
		writeBindError(c, err)
		return
	}
	user, err := users.Login(c.Request.Context(), h.gw, cred)
	if err != nil {
		writeError(c, err)
		return
	}
	token, err := h.tokens.Generate(user)
	if err != nil {
		writeError(c, err)
		return
	}
	h.cache.Set(c.Request.Context(), user, h.tokens.TTL())

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

// Current handles GET /api/v1/auth/current
// Returns the session view of the authenticated user, cache first.
func (h *AuthHandler) Current(c *gin.Context) {
	username := c.GetString("username")
	if user, hit := h.cache.Get(c.Request.Context(), username); hit {
		c.JSON(http.StatusOK, user)
		return
	}
	user, err := users.GetInfo(c.Request.Context(), h.gw, username)
	if err != nil {
		writeError(c, err)
		return
	}
	h.cache.Set(c.Request.Context(), user, h.tokens.TTL())
	c.JSON(http.StatusOK, user)
}
