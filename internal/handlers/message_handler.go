package handlers

import (
	"net/http"

	"parking-api/internal/gateway"
	"parking-api/internal/messages"

	"github.com/gin-gonic/gin"
)

// MessageHandler serves the announcement board.
type MessageHandler struct {
	gw gateway.Gateway
}

func NewMessageHandler(gw gateway.Gateway) *MessageHandler {
	return &MessageHandler{gw: gw}
}

// Visible handles GET /api/v1/message/get
func (h *MessageHandler) Visible(c *gin.Context) {
	list, err := messages.Visible(c.Request.Context(), h.gw, c.GetString("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// List handles GET /api/v1/message/list
func (h *MessageHandler) List(c *gin.Context) {
	list, err := messages.List(c.Request.Context(), h.gw, c.GetString("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Add handles POST /api/v1/message/add
func (h *MessageHandler) Add(c *gin.Context) {
	var p messages.SaveParams
	if err := c.ShouldBindJSON(&p); err != nil {
		writeBindError(c, err)
		return
	}
	res, err := messages.Add(c.Request.Context(), h.gw, c.GetString("username"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Update handles PATCH /api/v1/message/:id
func (h *MessageHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	var p messages.SaveParams
	if err := c.ShouldBindJSON(&p); err != nil {
		writeBindError(c, err)
		return
	}
	p.ID = id
	res, err := messages.Update(c.Request.Context(), h.gw, c.GetString("username"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /api/v1/message/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	res, err := messages.Delete(c.Request.Context(), h.gw, c.GetString("username"), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
