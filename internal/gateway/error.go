package gateway

import (
	"fmt"
	"net/http"

	"github.com/rs/xid"
)

// Error messages shared across the API surface.
const (
	MsgInternalError = "internal_error"
	MsgUnauthorized  = "unauthorized"
	MsgForbidden     = "forbidden"
	MsgNotFound      = "not_found"
	MsgFreePlace     = "free_place"
	MsgUserExists    = "user_exists"
	MsgAlreadyTaken  = "already_taken"
	MsgCantRelease   = "cant_release"
)

// Error is the typed application error carried from a failed procedure up
// to the HTTP layer. Key uniquely identifies the occurrence so a client
// report can be matched against the server log.
type Error struct {
	Status  int
	Key     string
	Message string
	Data    any
}

// NewError builds an Error with a generated key.
func NewError(status int, message string, data any) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if message == "" {
		message = MsgInternalError
	}
	return &Error{
		Status:  status,
		Key:     xid.New().String(),
		Message: message,
		Data:    data,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s - %s", e.Key, e.Message)
}
