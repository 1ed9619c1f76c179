package geolocation

import (
	"context"
	"errors"
	"time"

	"github.com/cluckmap/shop-server/internal/shop"
)

// Defaults for position acquisition
const (
	DefaultTimeout = 10 * time.Second
	DefaultMaxAge  = 5 * time.Minute
)

// Error codes as reported to the caller
const (
	CodeNotSupported        = 0
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// Error represents a coded geolocation failure.
// It does not prevent listing; the absence of a location simply selects the
// non-distance fetch strategy.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (err *Error) Error() string {
	return err.Message
}

var (
	ErrNotSupported        = &Error{Code: CodeNotSupported, Message: "Geolocation is not supported by this client"}
	ErrPermissionDenied    = &Error{Code: CodePermissionDenied, Message: "Location access denied by user"}
	ErrPositionUnavailable = &Error{Code: CodePositionUnavailable, Message: "Location information is unavailable"}
	ErrTimeout             = &Error{Code: CodeTimeout, Message: "Location request timed out"}
)

// Of maps an arbitrary position source failure to a coded Error.
// Context timeouts map to the timeout code, already coded errors pass through
// and everything else counts as an unavailable position.
func Of(err error) *Error {
	var coded *Error
	if errors.As(err, &coded) {
		return coded
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return &Error{Code: CodePositionUnavailable, Message: err.Error()}
}

// Source yields the current position of the user.
// A source is expected to block until the position is known or the context is
// cancelled.
type Source interface {
	CurrentPosition(ctx context.Context) (*shop.Location, error)
}

// SourceFunc adapts a plain function to the Source interface
type SourceFunc func(ctx context.Context) (*shop.Location, error)

func (fn SourceFunc) CurrentPosition(ctx context.Context) (*shop.Location, error) {
	return fn(ctx)
}
