package domain

import (
	"slices"
	"strings"
)

const Name = "session"

const (
	StateAnonymous State = iota
	StateAuthenticated
	StateRefreshing
)

type (
	UserID string

	User struct {
		ID       UserID   `json:"userId"`
		Username string   `json:"username"`
		Roles    []string `json:"roles"`
	}

	// Session is a point-in-time view of the authenticated state.
	// AccessToken and User are either both set or both empty.
	Session struct {
		AccessToken string
		User        *User
	}

	// Credentials carry either an email and password pair or a federated login token.
	Credentials struct {
		Email          string
		Password       string
		FederatedToken string
		Provider       string
	}

	State int
)

func (s Session) IsAuthenticated() bool {
	return s.AccessToken != "" && s.User != nil
}

func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

func (c Credentials) IsFederated() bool {
	return c.FederatedToken != ""
}

func (c Credentials) Validate() error {
	if c.IsFederated() {
		return nil
	}
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return ErrInvalidCredentials
	}
	return nil
}

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}
