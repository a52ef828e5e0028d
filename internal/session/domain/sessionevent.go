package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	Event interface {
		ID() uuid.UUID
		Type() string
	}

	EventLoggedIn struct {
		EventID uuid.UUID
		UserID  UserID
	}

	EventRestored struct {
		EventID uuid.UUID
		UserID  UserID
	}

	EventRefreshed struct {
		EventID uuid.UUID
		UserID  UserID
	}

	// EventLoggedOut is Forced when the session was torn down after a refresh failure.
	EventLoggedOut struct {
		EventID uuid.UUID
		UserID  UserID
		Forced  bool
		Reason  error
	}
)

func (e EventLoggedIn) ID() uuid.UUID { return e.EventID }

func (e EventLoggedIn) Type() string { return fmt.Sprintf("%s.loggedIn", Name) }

func (e EventRestored) ID() uuid.UUID { return e.EventID }

func (e EventRestored) Type() string { return fmt.Sprintf("%s.restored", Name) }

func (e EventRefreshed) ID() uuid.UUID { return e.EventID }

func (e EventRefreshed) Type() string { return fmt.Sprintf("%s.refreshed", Name) }

func (e EventLoggedOut) ID() uuid.UUID { return e.EventID }

func (e EventLoggedOut) Type() string { return fmt.Sprintf("%s.loggedOut", Name) }
