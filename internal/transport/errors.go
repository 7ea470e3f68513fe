package transport

import (
	"errors"
	"fmt"
)

// Sentinels matched by the structured errors below with errors.Is.
var (
	ErrTransfer      = errors.New("transfer failed")
	ErrInvalidStatus = errors.New("invalid response status")
	ErrParse         = errors.New("malformed response body")
)

// TransferError is a network-level failure: the request never produced a
// response.
type TransferError struct {
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed: %v", e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

func (e *TransferError) Is(target error) bool { return target == ErrTransfer }

// InvalidStatusError is a response with a status other than 200 or 201.
// Payload holds the decoded body when it was JSON and is nil otherwise.
type InvalidStatusError struct {
	StatusCode int
	Body       []byte
	Payload    any
}

func (e *InvalidStatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("invalid status %d", e.StatusCode)
	}
	return fmt.Sprintf("invalid status %d: %s", e.StatusCode, truncate(e.Body, 200))
}

func (e *InvalidStatusError) Is(target error) bool { return target == ErrInvalidStatus }

// ParseError is a successful response whose body is not valid JSON.
type ParseError struct {
	Err error
	Raw []byte
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
