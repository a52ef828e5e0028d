package http

import (
	"net/http"

	"github.com/fitcircle/fitcircle-client/internal/session/api"
	"github.com/fitcircle/fitcircle-client/internal/session/domain"
	pkghttp "github.com/fitcircle/fitcircle-client/pkg/http"
)

type (
	// SessionOut never carries tokens.
	SessionOut struct {
		State         string   `json:"state"`
		Authenticated bool     `json:"authenticated"`
		User          *UserOut `json:"user,omitempty"`
	}

	UserOut struct {
		ID       domain.UserID `json:"id"`
		Username string        `json:"username"`
		Roles    []string      `json:"roles"`
	}

	GetSessionHandler struct {
		session api.API
	}
)

func NewGetSessionHandler(session api.API) GetSessionHandler {
	return GetSessionHandler{session: session}
}

func (h GetSessionHandler) Method() string {
	return http.MethodGet
}

func (h GetSessionHandler) Path() string {
	return "/session"
}

func (h GetSessionHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	snapshot := h.session.Snapshot()
	out := SessionOut{
		State:         h.session.State().String(),
		Authenticated: snapshot.IsAuthenticated(),
	}
	if snapshot.User != nil {
		out.User = &UserOut{
			ID:       snapshot.User.ID,
			Username: snapshot.User.Username,
			Roles:    snapshot.User.Roles,
		}
	}

	pkghttp.WriteJSON(w, http.StatusOK, out)
}
