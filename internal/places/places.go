package places

import (
	"context"

	"parking-api/internal/gateway"
	"parking-api/internal/models"
)

// Database functions for working with places.
const (
	FnGetAll     = "park.e_get_all_places"
	FnUserPlaces = "park.e_get_user_places"
	FnFreePlaces = "park.e_get_free_places"
	FnSetFree    = "park.e_set_free_place"
	FnRespond    = "park.e_respond_place"
	FnTakeFree   = "park.e_take_free_place"
	FnRelease    = "park.e_release_free_place"
	FnCheckDates = "park.e_check_freeplace_dates"
)

// All returns every place in the lot. Admin only.
func All(ctx context.Context, g gateway.Gateway, username string) ([]models.Place, error) {
	return gateway.Execute[[]models.Place](ctx, g, FnGetAll, username)
}

// UserPlaces returns the owner's view of the places assigned to username,
// including the pool entry for any place currently offered.
func UserPlaces(ctx context.Context, g gateway.Gateway, username string) ([]models.UserPlace, error) {
	return gateway.Execute[[]models.UserPlace](ctx, g, FnUserPlaces, username)
}

// FreePlaces returns every record in the free-place pool, unfiltered.
func FreePlaces(ctx context.Context, g gateway.Gateway) ([]models.FreePlaceRecord, error) {
	return gateway.Execute[[]models.FreePlaceRecord](ctx, g, FnFreePlaces)
}

// CheckExpiredDates asks the database to expire lapsed pool records and
// returns the ids of the places it touched.
func CheckExpiredDates(ctx context.Context, g gateway.Gateway) ([]int, error) {
	return gateway.Execute[[]int](ctx, g, FnCheckDates)
}

// ToFreeParams releases an owned place to the shared pool for a window.
type ToFreeParams struct {
	ID       int    `json:"id" binding:"required"`
	DateFrom string `json:"date_from" binding:"required"`
	DateTo   string `json:"date_to" binding:"required"`
}

func (p ToFreeParams) PlaceID() int { return p.ID }

// TakeParams claims a free place until the given date.
type TakeParams struct {
	ID     int    `json:"id" binding:"required"`
	DateTo string `json:"date_to" binding:"required"`
}

func (p TakeParams) PlaceID() int { return p.ID }

// IDParams addresses a single place.
type IDParams struct {
	ID int `json:"id" binding:"required"`
}

func (p IDParams) PlaceID() int { return p.ID }

// ToFree offers an owned place to the free pool.
func ToFree(ctx context.Context, g gateway.Gateway, username string, p ToFreeParams) (gateway.IDResult, error) {
	return gateway.Execute[gateway.IDResult](ctx, g, FnSetFree, username, p.ID, p.DateFrom, p.DateTo)
}

// Respond recalls the owner's place from the free pool.
func Respond(ctx context.Context, g gateway.Gateway, username string, p IDParams) (gateway.IDResult, error) {
	return gateway.Execute[gateway.IDResult](ctx, g, FnRespond, username, p.ID)
}

// Take claims a free place for the acting user.
func Take(ctx context.Context, g gateway.Gateway, username string, p TakeParams) (gateway.IDResult, error) {
	return gateway.Execute[gateway.IDResult](ctx, g, FnTakeFree, username, p.ID, p.DateTo)
}

// Release returns a claimed place back to the pool.
func Release(ctx context.Context, g gateway.Gateway, username string, p IDParams) (gateway.IDResult, error) {
	return gateway.Execute[gateway.IDResult](ctx, g, FnRelease, username, p.ID)
}
