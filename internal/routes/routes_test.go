package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parking-api/internal/auth"
	"parking-api/internal/handlers"
	"parking-api/internal/models"
	"parking-api/internal/realtime"
	"parking-api/internal/store"
	"parking-api/internal/testutil"
	"parking-api/internal/usercache"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewInMemoryDB(t)
	testutil.CreateUser(t, db, "alice", "secret", models.RoleCustomer)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := store.New(db, log)
	tokens := auth.NewTokens("test-secret", time.Hour)
	cache := usercache.NewMemory()
	updater := realtime.NewUpdater(gw, log)

	return SetupRoutes(Deps{
		Tokens:   tokens,
		Auth:     handlers.NewAuthHandler(gw, tokens, cache),
		Users:    handlers.NewUserHandler(gw, cache),
		Messages: handlers.NewMessageHandler(gw),
		Places:   handlers.NewPlaceHandler(gw, updater),
		Streams:  handlers.NewStreamHandler(updater, log),
		Build:    "test",
	})
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "test", w.Header().Get("build"))
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/place/free", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "token")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{
		"/api/v1/auth/current",
		"/api/v1/user/list",
		"/api/v1/message/get",
		"/api/v1/place/my",
		"/api/v1/place/free",
		"/api/v1/place/my/updates",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestLoginThenAuthenticatedRequest(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "secret"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/current", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "alice")
	require.NotEmpty(t, w.Header().Get("token"))
}
