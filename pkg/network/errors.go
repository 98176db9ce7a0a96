package network

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned when an endpoint cannot produce a URL. No
	// request is sent.
	ErrInvalidURL = errors.New("the given url is invalid")
	// ErrResponseConversion is returned when the transport result carries no
	// HTTP status metadata.
	ErrResponseConversion = errors.New("failed to convert the response to an http response")

	ErrClientError   = errors.New("client error")
	ErrServerError   = errors.New("server error")
	ErrUnknownStatus = errors.New("unknown status code")
)

// StatusKind tags a rejected status code.
type StatusKind int

const (
	KindClient StatusKind = iota + 1
	KindServer
	KindUnknown
)

func (k StatusKind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("StatusKind(%d)", int(k))
	}
}

// StatusError reports a status code outside the accepted ranges.
type StatusError struct {
	Kind StatusKind
	Code int
}

func (e *StatusError) Error() string {
	switch e.Kind {
	case KindClient:
		return fmt.Sprintf("network request failed due to client error with status code %d", e.Code)
	case KindServer:
		return fmt.Sprintf("network request failed due to server error with status code %d", e.Code)
	default:
		return fmt.Sprintf("network request failed unknown status code %d", e.Code)
	}
}

// Unwrap exposes the kind sentinel so errors.Is(err, ErrClientError) works.
func (e *StatusError) Unwrap() error {
	switch e.Kind {
	case KindClient:
		return ErrClientError
	case KindServer:
		return ErrServerError
	default:
		return ErrUnknownStatus
	}
}

// StatusCode returns the code carried by a *StatusError anywhere in err's
// chain.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}
