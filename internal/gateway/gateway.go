package gateway

import (
	"context"
	"net/http"
)

// Result is the uniform envelope every named database procedure returns.
type Result struct {
	OK        bool   `json:"isok"`
	Data      any    `json:"data"`
	ErrorCode int    `json:"errorcode,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Gateway executes a named procedure with positional parameters.
// A returned error means the call itself could not be performed (unknown
// procedure, backend unreachable); a business failure is signaled through
// the envelope instead.
type Gateway interface {
	Call(ctx context.Context, fn string, params ...any) (Result, error)
}

// IDResult is returned by procedures that only report the affected id.
type IDResult struct {
	ID int `json:"id"`
}

// Execute calls fn through the gateway and unwraps the envelope.
// An envelope with OK=false becomes an *Error carrying the procedure's
// error code (default 400) and message.
func Execute[T any](ctx context.Context, g Gateway, fn string, params ...any) (T, error) {
	var zero T
	res, err := g.Call(ctx, fn, params...)
	if err != nil {
		return zero, err
	}
	if !res.OK {
		code := res.ErrorCode
		if code == 0 {
			code = http.StatusBadRequest
		}
		return zero, NewError(code, res.Message, nil)
	}
	if res.Data == nil {
		return zero, nil
	}
	data, ok := res.Data.(T)
	if !ok {
		return zero, NewError(http.StatusInternalServerError, "unexpected result shape from "+fn, nil)
	}
	return data, nil
}
