package handlers

import (
	"net/http"
	"strconv"

	"parking-api/internal/gateway"
	"parking-api/internal/usercache"
	"parking-api/internal/users"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the admin user management endpoints plus the
// self-service profile update.
type UserHandler struct {
	gw    gateway.Gateway
	cache usercache.Cache
}

func NewUserHandler(gw gateway.Gateway, cache usercache.Cache) *UserHandler {
	return &UserHandler{gw: gw, cache: cache}
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// List handles GET /api/v1/user/list
func (h *UserHandler) List(c *gin.Context) {
	list, err := users.List(c.Request.Context(), h.gw, c.GetString("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Add handles POST /api/v1/user/add
func (h *UserHandler) Add(c *gin.Context) {
	var p users.SaveParams
	if err := c.ShouldBindJSON(&p); err != nil {
		writeBindError(c, err)
		return
	}
	res, err := users.Add(c.Request.Context(), h.gw, c.GetString("username"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Get handles GET /api/v1/user/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	info, err := users.Get(c.Request.Context(), h.gw, c.GetString("username"), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Update handles PATCH /api/v1/user/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var p users.SaveParams
	if err := c.ShouldBindJSON(&p); err != nil {
		writeBindError(c, err)
		return
	}
	p.ID = id
	res, err := users.Update(c.Request.Context(), h.gw, c.GetString("username"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	// The edited user's cached session view is stale now.
	h.cache.Delete(c.Request.Context(), p.Username)
	c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /api/v1/user/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	actor := c.GetString("username")
	// Look the user up first so the cache entry can be invalidated by login.
	info, err := users.Get(c.Request.Context(), h.gw, actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := users.Delete(c.Request.Context(), h.gw, actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	h.cache.Delete(c.Request.Context(), info.Username)
	c.JSON(http.StatusOK, res)
}

// PrivateUpdate handles PATCH /api/v1/user/lk/:id
func (h *UserHandler) PrivateUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var p users.PrivateParams
	if err := c.ShouldBindJSON(&p); err != nil {
		writeBindError(c, err)
		return
	}
	p.ID = id
	actor := c.GetString("username")
	res, err := users.PrivateUpdate(c.Request.Context(), h.gw, actor, p)
	if err != nil {
		writeError(c, err)
		return
	}
	h.cache.Delete(c.Request.Context(), actor)
	c.JSON(http.StatusOK, res)
}
