// Package realtime fans freshly queried place state out to long-lived
// streaming connections: one stream per user for their own places, and a
// shared free-pool stream filtered per subscriber.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"parking-api/internal/gateway"
	"parking-api/internal/models"
	"parking-api/internal/places"

	"github.com/rs/xid"
)

// Conn is a single outbound push connection. Send must not block the
// caller; implementations queue payloads and write them in order from a
// single writer. Send reports false when the payload could not be queued.
type Conn interface {
	Send(payload []byte) bool
}

// myPlacesSub watches the places owned by one user. placeIDs is a snapshot
// taken at attach time: ownership changes after attach are not picked up
// until the client reconnects.
type myPlacesSub struct {
	conn     Conn
	username string
	placeIDs map[int]struct{}
}

// freePlacesSub watches the shared free-place pool. Filtering happens per
// broadcast, so the record carries no state beyond the identity.
type freePlacesSub struct {
	conn     Conn
	username string
}

// Updater maintains the two subscriber registries and broadcasts state
// changes to them. Construct one per process and inject it; broadcast
// entry points return before the spawned pushes complete.
type Updater struct {
	gw  gateway.Gateway
	log *slog.Logger

	mu       sync.RWMutex
	mySubs   map[string]*myPlacesSub
	freeSubs map[string]*freePlacesSub
}

// NewUpdater builds an Updater on top of the given gateway.
func NewUpdater(gw gateway.Gateway, log *slog.Logger) *Updater {
	return &Updater{
		gw:       gw,
		log:      log,
		mySubs:   make(map[string]*myPlacesSub),
		freeSubs: make(map[string]*freePlacesSub),
	}
}

// AttachMyPlaces registers a my-places subscriber, pushes the initial
// snapshot and returns the subscription id for Detach.
func (u *Updater) AttachMyPlaces(ctx context.Context, conn Conn, username string) (string, error) {
	placeList, err := places.UserPlaces(ctx, u.gw, username)
	if err != nil {
		return "", err
	}
	ids := make(map[int]struct{}, len(placeList))
	for _, p := range placeList {
		ids[p.ID] = struct{}{}
	}
	sub := &myPlacesSub{conn: conn, username: username, placeIDs: ids}

	id := xid.New().String()
	u.mu.Lock()
	u.mySubs[id] = sub
	u.mu.Unlock()
	u.log.Info("my-places subscriber attached", "username", username, "id", id)

	u.push(conn, username, placeList)
	return id, nil
}

// AttachFreePlaces registers a free-places subscriber, pushes the filtered
// initial view and returns the subscription id for Detach.
func (u *Updater) AttachFreePlaces(ctx context.Context, conn Conn, username string) (string, error) {
	list, err := places.FreePlaces(ctx, u.gw)
	if err != nil {
		return "", err
	}
	sub := &freePlacesSub{conn: conn, username: username}

	id := xid.New().String()
	u.mu.Lock()
	u.freeSubs[id] = sub
	u.mu.Unlock()
	u.log.Info("free-places subscriber attached", "username", username, "id", id)

	u.push(conn, username, filterFreePlaces(list, username))
	return id, nil
}

// Detach removes a subscriber from whichever registry holds it. Detaching
// an unknown or already removed id is a no-op.
func (u *Updater) Detach(id string) {
	u.mu.Lock()
	delete(u.mySubs, id)
	delete(u.freeSubs, id)
	u.mu.Unlock()
}

// NotifyPlaceChanged re-queries and pushes the owned-place view to every
// my-places subscriber whose snapshot contains placeID, then refreshes all
// free-places subscribers from a single shared pool query.
func (u *Updater) NotifyPlaceChanged(placeID int) {
	u.mu.RLock()
	var affected []*myPlacesSub
	for _, sub := range u.mySubs {
		if _, watched := sub.placeIDs[placeID]; watched {
			affected = append(affected, sub)
		}
	}
	u.mu.RUnlock()

	for _, sub := range affected {
		go u.refreshMyPlaces(sub)
	}
	go u.broadcastFreePlaces()
}

// NotifyPlacesChanged behaves like NotifyPlaceChanged for a batch of place
// ids: each my-places subscriber is refreshed at most once, and the free
// pool is re-queried exactly once.
func (u *Updater) NotifyPlacesChanged(placeIDs []int) {
	u.mu.RLock()
	var affected []*myPlacesSub
	for _, sub := range u.mySubs {
		for _, id := range placeIDs {
			if _, watched := sub.placeIDs[id]; watched {
				affected = append(affected, sub)
				break
			}
		}
	}
	u.mu.RUnlock()

	for _, sub := range affected {
		go u.refreshMyPlaces(sub)
	}
	go u.broadcastFreePlaces()
}

// refreshMyPlaces re-queries one subscriber's view and pushes it. Runs
// outside any request cycle, so failures are logged and swallowed.
func (u *Updater) refreshMyPlaces(sub *myPlacesSub) {
	list, err := places.UserPlaces(context.Background(), u.gw, sub.username)
	if err != nil {
		u.log.Error("my-places refresh failed", "username", sub.username, "error", err)
		return
	}
	u.push(sub.conn, sub.username, list)
}

// broadcastFreePlaces queries the pool once and pushes the per-user
// filtered view to every free-places subscriber.
func (u *Updater) broadcastFreePlaces() {
	u.mu.RLock()
	subs := make([]*freePlacesSub, 0, len(u.freeSubs))
	for _, sub := range u.freeSubs {
		subs = append(subs, sub)
	}
	u.mu.RUnlock()
	if len(subs) == 0 {
		return
	}

	list, err := places.FreePlaces(context.Background(), u.gw)
	if err != nil {
		u.log.Error("free-places refresh failed", "error", err)
		return
	}
	for _, sub := range subs {
		u.push(sub.conn, sub.username, filterFreePlaces(list, sub.username))
	}
}

// filterFreePlaces keeps the publicly free entries plus the ones claimed
// by username.
func filterFreePlaces(list []models.FreePlaceRecord, username string) []models.FreePlaceRecord {
	out := make([]models.FreePlaceRecord, 0, len(list))
	for _, rec := range list {
		if rec.Status == models.StatusFree || rec.Username == username {
			out = append(out, rec)
		}
	}
	return out
}

// push marshals and queues one payload. A full or closed connection is
// logged and otherwise ignored; the detach hook cleans it up.
func (u *Updater) push(conn Conn, username string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		u.log.Error("push encode failed", "username", username, "error", err)
		return
	}
	if !conn.Send(raw) {
		u.log.Warn("push dropped", "username", username)
	}
}
