package handlers

import (
	"net/http"

	"parking-api/internal/gateway"
	"parking-api/internal/places"

	"github.com/gin-gonic/gin"
)

// PlaceHandler serves the parking place endpoints. Mutations are wrapped so
// that every successful change is announced to the live streams.
type PlaceHandler struct {
	gw gateway.Gateway

	toFree  places.MutationFunc[places.ToFreeParams, gateway.IDResult]
	respond places.MutationFunc[places.IDParams, gateway.IDResult]
	take    places.MutationFunc[places.TakeParams, gateway.IDResult]
	release places.MutationFunc[places.IDParams, gateway.IDResult]
}

func NewPlaceHandler(gw gateway.Gateway, n places.Notifier) *PlaceHandler {
	return &PlaceHandler{
		gw:      gw,
		toFree:  places.WithBroadcast(n, places.ToFree),
		respond: places.WithBroadcast(n, places.Respond),
		take:    places.WithBroadcast(n, places.Take),
		release: places.WithBroadcast(n, places.Release),
	}
}

// All handles GET /api/v1/place/getall
func (h *PlaceHandler) All(c *gin.Context) {
	list, err := places.All(c.Request.Context(), h.gw, c.GetString("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// My handles GET /api/v1/place/my
func (h *PlaceHandler) My(c *gin.Context) {
	list, err := places.UserPlaces(c.Request.Context(), h.gw, c.GetString("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Free handles GET /api/v1/place/free
func (h *PlaceHandler) Free(c *gin.Context) {
	list, err := places.FreePlaces(c.Request.Context(), h.gw)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ToFree handles POST /api/v1/place/my/tofree
func (h *PlaceHandler) ToFree(c *gin.Context) {
	var p places.ToFreeParams
	if err := c.ShouldBindJSON(&p); err != nil {
		writeBindError(c, err)
		return
	}
	res, err := h.toFree(c.Request.Context(), h.gw, c.GetString("username"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Respond handles POST /api/v1/place/my/respond
func (h *PlaceHandler) Respond(c *gin.Context) {
	var p places.IDParams
	if err := c.ShouldBindJSON(&p); err != nil {
		writeBindError(c, err)
		return
	}
	res, err := h.respond(c.Request.Context(), h.gw, c.GetString("username"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Take handles POST /api/v1/place/free/take
func (h *PlaceHandler) Take(c *gin.Context) {
	var p places.TakeParams
	if err := c.ShouldBindJSON(&p); err != nil {
		writeBindError(c, err)
		return
	}
	res, err := h.take(c.Request.Context(), h.gw, c.GetString("username"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Release handles POST /api/v1/place/free/release
func (h *PlaceHandler) Release(c *gin.Context) {
	var p places.IDParams
	if err := c.ShouldBindJSON(&p); err != nil {
		writeBindError(c, err)
		return
	}
	res, err := h.release(c.Request.Context(), h.gw, c.GetString("username"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
