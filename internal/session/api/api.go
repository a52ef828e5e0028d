//go:generate ${TOOLS_BIN}/mockgen -source ${GOFILE} -destination mock/${GOFILE} -package mock -mock_names "API=API"
package api

import (
	"context"

	"github.com/fitcircle/fitcircle-client/internal/session/domain"
)

type (
	// API is the session surface available to the rest of the application.
	// Consumers observe the session and request changes only through these methods.
	API interface {
		Snapshot() domain.Session
		State() domain.State
		Restore(context.Context)
		Login(context.Context, domain.Credentials) error
		Logout(context.Context)
		Refresh(context.Context) error
		Subscribe(EventHandler) (unsubscribe func())
		Close()
	}

	EventHandler func(context.Context, domain.Event)
)

// AccessToken adapts a session to a bearer token provider.
func AccessToken(session API) func() (string, bool) {
	return func() (string, bool) {
		s := session.Snapshot()
		return s.AccessToken, s.IsAuthenticated()
	}
}
