package store

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"parking-api/internal/gateway"
	"parking-api/internal/models"

	"gorm.io/gorm"
)

// procFn implements a single named procedure. Business failures are
// reported through the envelope; only the registry itself returns errors.
type procFn func(ctx context.Context, params []any) gateway.Result

// Store is the gorm-backed implementation of the database gateway. Every
// remote function the API consumes is registered here by name and executes
// against the local database.
type Store struct {
	db    *gorm.DB
	log   *slog.Logger
	procs map[string]procFn
}

// New builds a Store with all procedures registered.
func New(db *gorm.DB, log *slog.Logger) *Store {
	s := &Store{
		db:    db,
		log:   log,
		procs: make(map[string]procFn),
	}
	s.registerAuthProcs()
	s.registerUserProcs()
	s.registerPlaceProcs()
	s.registerMessageProcs()
	return s
}

// Call implements gateway.Gateway.
func (s *Store) Call(ctx context.Context, fn string, params ...any) (gateway.Result, error) {
	proc, ok := s.procs[fn]
	if !ok {
		return gateway.Result{}, fmt.Errorf("store: unknown procedure %q", fn)
	}
	return proc(ctx, params), nil
}

func (s *Store) register(name string, fn procFn) {
	s.procs[name] = fn
}

func ok(data any) gateway.Result {
	return gateway.Result{OK: true, Data: data}
}

func fail(code int, message string) gateway.Result {
	return gateway.Result{OK: false, ErrorCode: code, Message: message}
}

// failDB logs the underlying database error and hides it from the caller.
func (s *Store) failDB(fn string, err error) gateway.Result {
	s.log.Error("store procedure failed", "fn", fn, "error", err)
	return fail(http.StatusInternalServerError, gateway.MsgInternalError)
}

// findActor resolves the acting user by login. Blocked and unknown users
// are both rejected as unauthorized.
func (s *Store) findActor(ctx context.Context, username string) (*models.User, gateway.Result, bool) {
	var u models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil || u.IsBlocking {
		return nil, fail(http.StatusUnauthorized, gateway.MsgUnauthorized), false
	}
	return &u, gateway.Result{}, true
}

// ---- positional parameter decoding ----

func argString(params []any, i int) (string, bool) {
	if i >= len(params) {
		return "", false
	}
	v, ok := params[i].(string)
	return v, ok
}

func argInt(params []any, i int) (int, bool) {
	if i >= len(params) {
		return 0, false
	}
	v, ok := params[i].(int)
	return v, ok
}

func argBool(params []any, i int) (bool, bool) {
	if i >= len(params) {
		return false, false
	}
	v, ok := params[i].(bool)
	return v, ok
}

func argIntSlice(params []any, i int) ([]int, bool) {
	if i >= len(params) {
		return nil, false
	}
	if params[i] == nil {
		return nil, true
	}
	v, ok := params[i].([]int)
	return v, ok
}

// argDate decodes a positional date parameter given either as a plain date
// or a full RFC 3339 timestamp.
func argDate(params []any, i int) (time.Time, bool) {
	str, ok := argString(params, i)
	if !ok {
		return time.Time{}, false
	}
	return parseDateFlexible(str)
}

func parseDateFlexible(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func badParams() gateway.Result {
	return fail(http.StatusBadRequest, "invalid procedure parameters")
}
