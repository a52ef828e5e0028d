//go:generate ${TOOLS_BIN}/mockgen -source ${GOFILE} -destination mock/${GOFILE} -package mock -mock_names "Client=Client"
package auth

import (
	"context"
	"fmt"

	"github.com/fitcircle/fitcircle-client/internal/session/domain"
)

type (
	// Client is the remote auth API. Errors are classified with the domain sentinel errors.
	Client interface {
		Login(context.Context, domain.Credentials) (*LoginResult, error)
		Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
		Logout(context.Context, TokenPair) error
	}

	TokenPair struct {
		AccessToken  string
		RefreshToken string
	}

	// LoginResult mirrors the login payload. Roles is nil when the payload has no roles collection.
	LoginResult struct {
		AccessToken  string
		RefreshToken string
		UserID       string
		Username     string
		Roles        []string
	}
)

func (p TokenPair) Validate() error {
	if p.AccessToken == "" {
		return fmt.Errorf("%w: access token missing", domain.ErrMalformedResponse)
	}
	if p.RefreshToken == "" {
		return fmt.Errorf("%w: refresh token missing", domain.ErrMalformedResponse)
	}
	return nil
}

func (r LoginResult) Validate() error {
	err := TokenPair{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}.Validate()
	if err != nil {
		return err
	}
	if r.UserID == "" {
		return fmt.Errorf("%w: user id missing", domain.ErrMalformedResponse)
	}
	if r.Username == "" {
		return fmt.Errorf("%w: username missing", domain.ErrMalformedResponse)
	}
	if r.Roles == nil {
		return fmt.Errorf("%w: roles missing", domain.ErrMalformedResponse)
	}
	return nil
}

func (r LoginResult) User() domain.User {
	roles := make([]string, len(r.Roles))
	copy(roles, r.Roles)
	return domain.User{
		ID:       domain.UserID(r.UserID),
		Username: r.Username,
		Roles:    roles,
	}
}
