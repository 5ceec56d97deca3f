package places

import (
	"context"

	"parking-api/internal/gateway"
)

// Notifier receives place-change events after successful mutations.
// Implemented by the realtime updater.
type Notifier interface {
	NotifyPlaceChanged(placeID int)
	NotifyPlacesChanged(placeIDs []int)
}

// placeParams is any mutation parameter set that targets a single place.
type placeParams interface {
	PlaceID() int
}

// MutationFunc is the shape shared by all place mutations.
type MutationFunc[P placeParams, R any] func(ctx context.Context, g gateway.Gateway, username string, params P) (R, error)

// WithBroadcast decorates a place mutation so that every successful call is
// followed by exactly one change notification for the targeted place. A
// failed call notifies nothing and the error propagates unchanged.
func WithBroadcast[P placeParams, R any](n Notifier, fn MutationFunc[P, R]) MutationFunc[P, R] {
	return func(ctx context.Context, g gateway.Gateway, username string, params P) (R, error) {
		res, err := fn(ctx, g, username, params)
		if err != nil {
			return res, err
		}
		n.NotifyPlaceChanged(params.PlaceID())
		return res, nil
	}
}
