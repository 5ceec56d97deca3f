package messages

import (
	"context"

	"parking-api/internal/gateway"
	"parking-api/internal/models"
)

// Database functions for the announcement board.
const (
	FnGetVisible = "park.e_get_messages"
	FnGetList    = "park.e_message_get_all"
	FnAdd        = "park.e_message_add"
	FnUpdate     = "park.e_message_update"
	FnDelete     = "park.e_message_delete"
)

// SaveParams carries the message form for add and update.
type SaveParams struct {
	ID        int    `json:"id"`
	Message   string `json:"message" binding:"required"`
	IsVisible bool   `json:"is_visible"`
	Type      int    `json:"type"`
}

// Visible returns the announcements currently shown to everyone.
func Visible(ctx context.Context, g gateway.Gateway, username string) ([]models.Message, error) {
	return gateway.Execute[[]models.Message](ctx, g, FnGetVisible, username)
}

// List returns every announcement, hidden ones included. Admin only.
func List(ctx context.Context, g gateway.Gateway, username string) ([]models.Message, error) {
	return gateway.Execute[[]models.Message](ctx, g, FnGetList, username)
}

// Add creates an announcement. Admin only.
func Add(ctx context.Context, g gateway.Gateway, username string, p SaveParams) (gateway.IDResult, error) {
	return gateway.Execute[gateway.IDResult](ctx, g, FnAdd, username, p.Message, p.IsVisible, p.Type)
}

// Update rewrites an announcement. Admin only.
func Update(ctx context.Context, g gateway.Gateway, username string, p SaveParams) (gateway.IDResult, error) {
	return gateway.Execute[gateway.IDResult](ctx, g, FnUpdate, username, p.ID, p.Message, p.IsVisible, p.Type)
}

// Delete removes an announcement. Admin only.
func Delete(ctx context.Context, g gateway.Gateway, username string, id int) (gateway.IDResult, error) {
	return gateway.Execute[gateway.IDResult](ctx, g, FnDelete, username, id)
}
