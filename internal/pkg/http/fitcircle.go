package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	sessionapi "github.com/fitcircle/fitcircle-client/internal/session/api"
	pkghttp "github.com/fitcircle/fitcircle-client/pkg/http"
)

const DestinationFitcircle pkghttp.Destination = "fitcircle"

var (
	ErrUnauthorized = errors.New("fitcircle api: unauthorized")
	ErrNotFound     = errors.New("fitcircle api: not found")
	ErrBadRequest   = errors.New("fitcircle api: bad request")
	ErrUnavailable  = errors.New("fitcircle api: unavailable")
)

// WithSessionAuth authorizes requests with the session's current access token.
// The session is only read; requests without a session go out unauthenticated.
func WithSessionAuth(session sessionapi.API) pkghttp.ClientOption {
	return pkghttp.WithBearerToken(sessionapi.AccessToken(session))
}

// CheckResponse maps a transport error or an unexpected status to the package errors.
func CheckResponse(operation string, resp *resty.Response, err error, expectedCodes ...int) error {
	if err != nil {
		return fmt.Errorf("%w: request %s: %w", ErrUnavailable, operation, err)
	}

	for _, code := range expectedCodes {
		if resp.StatusCode() == code {
			return nil
		}
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, operation)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s: %s", ErrBadRequest, operation, resp.String())
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s status %d", ErrUnavailable, operation, code)
	default:
		return fmt.Errorf("%s: unexpected status %d", operation, code)
	}
}
