package domain

import (
	"context"
	"errors"
)

var (
	ErrTransport           = errors.New("auth service unreachable")
	ErrMalformedResponse   = errors.New("malformed auth service response")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountNotActivated = errors.New("account not activated")
	ErrAccountBlocked      = errors.New("account blocked")
	ErrServer              = errors.New("auth service error")
	ErrRefreshRejected     = errors.New("refresh token rejected")
	ErrTokenDecode         = errors.New("token cannot be decoded")
	ErrSessionExpired      = errors.New("session expired")
	ErrNotAuthenticated    = errors.New("not authenticated")
)

const (
	ErrorKindUnknown ErrorKind = iota
	ErrorKindConnection
	ErrorKindInvalidCredentials
	ErrorKindAccountNotActive
	ErrorKindSessionExpired
	ErrorKindBadResponse
)

// ErrorKind is the user-facing class of a session error.
type ErrorKind int

func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindUnknown
	case errors.Is(err, ErrSessionExpired), errors.Is(err, ErrNotAuthenticated):
		return ErrorKindSessionExpired
	case errors.Is(err, ErrTransport), errors.Is(err, context.DeadlineExceeded):
		return ErrorKindConnection
	case errors.Is(err, ErrInvalidCredentials):
		return ErrorKindInvalidCredentials
	case errors.Is(err, ErrAccountNotActivated), errors.Is(err, ErrAccountBlocked):
		return ErrorKindAccountNotActive
	case errors.Is(err, ErrMalformedResponse), errors.Is(err, ErrServer):
		return ErrorKindBadResponse
	default:
		return ErrorKindUnknown
	}
}

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindConnection:
		return "connection"
	case ErrorKindInvalidCredentials:
		return "invalidCredentials"
	case ErrorKindAccountNotActive:
		return "accountNotActive"
	case ErrorKindSessionExpired:
		return "sessionExpired"
	case ErrorKindBadResponse:
		return "badResponse"
	default:
		return "unknown"
	}
}
