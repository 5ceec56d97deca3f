package handlers

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"parking-api/internal/models"
	"parking-api/internal/realtime"
	"parking-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// sseClient reads one SSE stream line by line in the background.
type sseClient struct {
	lines  chan string
	cancel context.CancelFunc
	resp   *http.Response
}

func openStream(t *testing.T, url string) *sseClient {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	c := &sseClient{lines: make(chan string, 64), cancel: cancel, resp: resp}
	go func() {
		defer close(c.lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			c.lines <- scanner.Text()
		}
	}()
	t.Cleanup(func() {
		cancel()
		resp.Body.Close()
	})
	return c
}

// nextData returns the payload of the next data frame.
func (c *sseClient) nextData(t *testing.T) string {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case line, open := <-c.lines:
			if !open {
				t.Fatal("stream closed before data frame")
			}
			if strings.HasPrefix(line, "data:") {
				return strings.TrimPrefix(line, "data:")
			}
		case <-deadline:
			t.Fatal("timed out waiting for data frame")
		}
	}
}

// nextLine returns the next raw line of the stream.
func (c *sseClient) nextLine(t *testing.T) string {
	t.Helper()
	select {
	case line, open := <-c.lines:
		if !open {
			t.Fatal("stream closed early")
		}
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for line")
		return ""
	}
}

func newStreamEnv(t *testing.T) (*realtime.Updater, *gin.Engine, models.Place) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s, db := testStore(t)
	owner := testutil.CreateUser(t, db, "owner", "pw", models.RolePlaceOwner)
	place := testutil.CreatePlace(t, db, 7, owner.ID)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	u := realtime.NewUpdater(s, log)
	h := NewStreamHandler(u, log)

	r := gin.New()
	r.GET("/my/updates", asUser("owner"), h.MyPlaces)
	r.GET("/free/updates", asUser("owner"), h.FreePlaces)
	return u, r, place
}

func TestStream_MyPlaces(t *testing.T) {
	u, r, place := newStreamEnv(t)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c := openStream(t, srv.URL+"/my/updates")

	// The stream opens with a reconnect hint, then the initial snapshot.
	require.Equal(t, "retry: 1000", c.nextLine(t))
	first := c.nextData(t)
	require.Contains(t, first, `"number":7`)

	// A change to a watched place pushes a fresh snapshot.
	u.NotifyPlaceChanged(place.ID)
	second := c.nextData(t)
	require.Contains(t, second, `"number":7`)
}

func TestStream_FreePlaces_EmptyPool(t *testing.T) {
	_, r, _ := newStreamEnv(t)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c := openStream(t, srv.URL+"/free/updates")
	require.Equal(t, "[]", c.nextData(t))
}

func TestStream_DetachOnDisconnect(t *testing.T) {
	u, r, place := newStreamEnv(t)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c := openStream(t, srv.URL+"/my/updates")
	c.nextData(t) // initial snapshot

	c.cancel()
	c.resp.Body.Close()

	// After the client is gone, broadcasting must not block or panic.
	require.Eventually(t, func() bool {
		u.NotifyPlaceChanged(place.ID)
		return true
	}, time.Second, 10*time.Millisecond)
}
