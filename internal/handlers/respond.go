package handlers

import (
	"errors"
	"net/http"

	"parking-api/internal/gateway"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
)

// errorBody is the error envelope returned by every endpoint.
type errorBody struct {
	Key      string   `json:"key"`
	Messages []string `json:"messages"`
	Data     any      `json:"data,omitempty"`
}

// writeError translates an application error into the HTTP error envelope.
func writeError(c *gin.Context, err error) {
	var gerr *gateway.Error
	if errors.As(err, &gerr) {
		c.JSON(gerr.Status, errorBody{
			Key:      gerr.Key,
			Messages: []string{gerr.Message},
			Data:     gerr.Data,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, errorBody{
		Key:      xid.New().String(),
		Messages: []string{gateway.MsgInternalError},
	})
}

// writeBindError reports a malformed request payload.
func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorBody{
		Key:      xid.New().String(),
		Messages: []string{err.Error()},
	})
}
