package bravia

import (
	"errors"
	"fmt"
)

// Transport error taxonomy. Unreachable covers no-route, connection
// refused and timeout; the HTTP sentinels cover the status codes the
// device is known to answer with.
var (
	ErrUnreachable  = errors.New("device unreachable")
	ErrBadRequest   = errors.New("malformed request")
	ErrAuthRejected = errors.New("pre-shared key rejected")
	ErrNotFound     = errors.New("unknown service or method")
	ErrDeviceBusy   = errors.New("device cannot service the request")
)

// classifyStatus maps a non-200 HTTP status to the taxonomy. Unrecognized
// statuses still surface the code for diagnostics.
func classifyStatus(code int, body string) error {
	switch code {
	case 400:
		return fmt.Errorf("%w: status 400: %s", ErrBadRequest, body)
	case 403:
		return fmt.Errorf("%w: status 403: %s", ErrAuthRejected, body)
	case 404:
		return fmt.Errorf("%w: status 404: %s", ErrNotFound, body)
	case 500:
		return fmt.Errorf("%w: status 500: %s", ErrDeviceBusy, body)
	default:
		return fmt.Errorf("unexpected http status %d: %s", code, body)
	}
}

// ApplicationError is the distinct failure channel for HTTP 200 responses
// carrying an embedded device error payload
type ApplicationError struct {
	Code    int
	Message string
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("device error %d: %s", e.Code, e.Message)
}
