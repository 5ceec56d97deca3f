package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"parking-api/internal/gateway"
	"parking-api/internal/models"
	"parking-api/internal/places"

	"github.com/stretchr/testify/require"
)

// stubGateway serves canned place views and counts calls per function.
type stubGateway struct {
	mu         sync.Mutex
	calls      map[string]int
	userPlaces map[string][]models.UserPlace
	freePlaces []models.FreePlaceRecord
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		calls:      make(map[string]int),
		userPlaces: make(map[string][]models.UserPlace),
	}
}

func (g *stubGateway) Call(_ context.Context, fn string, params ...any) (gateway.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[fn]++
	switch fn {
	case places.FnUserPlaces:
		username, _ := params[0].(string)
		return gateway.Result{OK: true, Data: g.userPlaces[username]}, nil
	case places.FnFreePlaces:
		return gateway.Result{OK: true, Data: g.freePlaces}, nil
	}
	return gateway.Result{}, nil
}

func (g *stubGateway) count(fn string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[fn]
}

// chanConn hands every queued payload to a channel for the test to read.
type chanConn struct {
	ch chan []byte
}

func newChanConn() *chanConn {
	return &chanConn{ch: make(chan []byte, 32)}
}

func (c *chanConn) Send(payload []byte) bool {
	select {
	case c.ch <- payload:
		return true
	default:
		return false
	}
}

func (c *chanConn) next(t *testing.T) []byte {
	t.Helper()
	select {
	case p := <-c.ch:
		return p
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for push")
		return nil
	}
}

func (c *chanConn) expectNone(t *testing.T) {
	t.Helper()
	select {
	case p := <-c.ch:
		t.Fatalf("unexpected push: %s", p)
	case <-time.After(50 * time.Millisecond):
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ownedPlaces(ids ...int) []models.UserPlace {
	out := make([]models.UserPlace, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.UserPlace{ID: id, Number: id})
	}
	return out
}

func TestAttachMyPlaces_PushesInitialSnapshot(t *testing.T) {
	gw := newStubGateway()
	gw.userPlaces["alice"] = ownedPlaces(3, 5)
	u := NewUpdater(gw, testLogger())
	conn := newChanConn()

	id, err := u.AttachMyPlaces(context.Background(), conn, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var got []models.UserPlace
	require.NoError(t, json.Unmarshal(conn.next(t), &got))
	require.Len(t, got, 2)
}

func TestDetach_Idempotent(t *testing.T) {
	gw := newStubGateway()
	u := NewUpdater(gw, testLogger())
	conn := newChanConn()

	id, err := u.AttachMyPlaces(context.Background(), conn, "alice")
	require.NoError(t, err)
	conn.next(t) // initial snapshot

	u.Detach(id)
	u.Detach(id)
	u.Detach("no-such-id")

	// A detached subscriber gets nothing.
	u.NotifyPlaceChanged(3)
	conn.expectNone(t)
}

func TestNotifyPlaceChanged_SnapshotFilter(t *testing.T) {
	gw := newStubGateway()
	gw.userPlaces["alice"] = ownedPlaces(3, 5)
	u := NewUpdater(gw, testLogger())
	conn := newChanConn()

	_, err := u.AttachMyPlaces(context.Background(), conn, "alice")
	require.NoError(t, err)
	conn.next(t) // initial snapshot

	// A change to a watched place triggers a refresh.
	u.NotifyPlaceChanged(5)
	conn.next(t)

	// A place outside the attach-time snapshot does not.
	u.NotifyPlaceChanged(9)
	conn.expectNone(t)
}

func TestNotifyPlacesChanged_OneRefreshPerSubscriber(t *testing.T) {
	gw := newStubGateway()
	gw.userPlaces["alice"] = ownedPlaces(3, 5)
	u := NewUpdater(gw, testLogger())
	conn := newChanConn()

	_, err := u.AttachMyPlaces(context.Background(), conn, "alice")
	require.NoError(t, err)
	conn.next(t)
	base := gw.count(places.FnUserPlaces)

	// Both ids are watched; the subscriber is still refreshed only once.
	u.NotifyPlacesChanged([]int{3, 5})
	conn.next(t)
	conn.expectNone(t)
	require.Equal(t, base+1, gw.count(places.FnUserPlaces))
}

func TestFreePlaces_SharedQueryAndPerUserFilter(t *testing.T) {
	gw := newStubGateway()
	bobID, carolID := 11, 12
	gw.freePlaces = []models.FreePlaceRecord{
		{PlaceID: 1, Status: models.StatusFree},
		{PlaceID: 2, Status: models.StatusBusy, TakerID: &bobID, Username: "bob"},
		{PlaceID: 3, Status: models.StatusBusy, TakerID: &carolID, Username: "carol"},
	}
	u := NewUpdater(gw, testLogger())

	bob := newChanConn()
	carol := newChanConn()
	_, err := u.AttachFreePlaces(context.Background(), bob, "bob")
	require.NoError(t, err)
	_, err = u.AttachFreePlaces(context.Background(), carol, "carol")
	require.NoError(t, err)

	var bobView, carolView []models.FreePlaceRecord
	require.NoError(t, json.Unmarshal(bob.next(t), &bobView))
	require.NoError(t, json.Unmarshal(carol.next(t), &carolView))

	// Each sees the free entry plus their own claim, never the other's.
	require.Len(t, bobView, 2)
	require.Len(t, carolView, 2)
	require.Equal(t, "bob", bobView[1].Username)
	require.Equal(t, "carol", carolView[1].Username)

	// One broadcast means one pool query regardless of subscriber count.
	base := gw.count(places.FnFreePlaces)
	u.NotifyPlaceChanged(1)
	bob.next(t)
	carol.next(t)
	require.Equal(t, base+1, gw.count(places.FnFreePlaces))
}

func TestBroadcast_SkipsQueryWithoutFreeSubscribers(t *testing.T) {
	gw := newStubGateway()
	u := NewUpdater(gw, testLogger())

	u.NotifyPlaceChanged(1)

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 0, gw.count(places.FnFreePlaces))
}
