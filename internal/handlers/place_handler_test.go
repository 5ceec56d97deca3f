package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"parking-api/internal/models"
	"parking-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// spyNotifier records which places were announced as changed.
type spyNotifier struct {
	mu      sync.Mutex
	changed []int
}

func (n *spyNotifier) NotifyPlaceChanged(placeID int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, placeID)
}

func (n *spyNotifier) NotifyPlacesChanged(placeIDs []int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, placeIDs...)
}

func (n *spyNotifier) all() []int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]int(nil), n.changed...)
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPlaceMutations_BroadcastOnSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, db := testStore(t)
	owner := testutil.CreateUser(t, db, "owner", "pw", models.RolePlaceOwner)
	testutil.CreateUser(t, db, "customer", "pw", models.RoleCustomer)
	place := testutil.CreatePlace(t, db, 7, owner.ID)

	n := &spyNotifier{}
	h := NewPlaceHandler(s, n)

	r := gin.New()
	r.POST("/owner/tofree", asUser("owner"), h.ToFree)
	r.POST("/owner/respond", asUser("owner"), h.Respond)
	r.POST("/customer/take", asUser("customer"), h.Take)
	r.POST("/customer/release", asUser("customer"), h.Release)

	from := time.Now().Format("2006-01-02")
	to := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	w := postJSON(t, r, "/owner/tofree", gin.H{"id": place.ID, "date_from": from, "date_to": to})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []int{place.ID}, n.all())

	takeTo := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	w = postJSON(t, r, "/customer/take", gin.H{"id": place.ID, "date_to": takeTo})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/customer/release", gin.H{"id": place.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/owner/respond", gin.H{"id": place.ID})
	require.Equal(t, http.StatusOK, w.Code)

	// One notification per successful mutation.
	require.Equal(t, []int{place.ID, place.ID, place.ID, place.ID}, n.all())
}

func TestPlaceMutations_NoBroadcastOnFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, db := testStore(t)
	owner := testutil.CreateUser(t, db, "owner", "pw", models.RolePlaceOwner)
	place := testutil.CreatePlace(t, db, 7, owner.ID)

	n := &spyNotifier{}
	h := NewPlaceHandler(s, n)

	r := gin.New()
	r.POST("/take", asUser("owner"), h.Take)

	// Nothing was offered, so the claim fails and nothing is broadcast.
	takeTo := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	w := postJSON(t, r, "/take", gin.H{"id": place.ID, "date_to": takeTo})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Empty(t, n.all())
}

func TestPlaceQueries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, db := testStore(t)
	testutil.CreateUser(t, db, "admin", "pw", models.RoleAdmin)
	owner := testutil.CreateUser(t, db, "owner", "pw", models.RolePlaceOwner)
	place := testutil.CreatePlace(t, db, 1, owner.ID)
	testutil.CreateFreePlace(t, db, place.ID, time.Now(), time.Now().AddDate(0, 0, 2))

	h := NewPlaceHandler(s, &spyNotifier{})
	r := gin.New()
	r.GET("/getall", asUser("admin"), h.All)
	r.GET("/my", asUser("owner"), h.My)
	r.GET("/free", asUser("owner"), h.Free)
	r.GET("/getall-denied", asUser("owner"), h.All)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/getall", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/my", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.UserPlace
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Free)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/free", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var pool []models.FreePlaceRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pool))
	require.Len(t, pool, 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/getall-denied", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
}
