package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fitcircle/fitcircle-client/internal/session/domain"
)

func TestSession_IsAuthenticated(t *testing.T) {
	assert.False(t, domain.Session{}.IsAuthenticated())
	assert.False(t, domain.Session{AccessToken: "a"}.IsAuthenticated())
	assert.True(t, domain.Session{AccessToken: "a", User: &domain.User{ID: "u"}}.IsAuthenticated())
}

func TestCredentials_Validate(t *testing.T) {
	assert.NoError(t, domain.Credentials{Email: "a@b.c", Password: "secret"}.Validate())
	assert.NoError(t, domain.Credentials{FederatedToken: "google-token", Provider: "google"}.Validate())
	assert.ErrorIs(t, domain.Credentials{Email: " ", Password: "secret"}.Validate(), domain.ErrInvalidCredentials)
	assert.ErrorIs(t, domain.Credentials{Email: "a@b.c"}.Validate(), domain.ErrInvalidCredentials)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		kind domain.ErrorKind
	}{
		{fmt.Errorf("login: %w", domain.ErrTransport), domain.ErrorKindConnection},
		{context.DeadlineExceeded, domain.ErrorKindConnection},
		{domain.ErrInvalidCredentials, domain.ErrorKindInvalidCredentials},
		{domain.ErrAccountBlocked, domain.ErrorKindAccountNotActive},
		{domain.ErrAccountNotActivated, domain.ErrorKindAccountNotActive},
		{fmt.Errorf("%w: %w", domain.ErrSessionExpired, domain.ErrTransport), domain.ErrorKindSessionExpired},
		{fmt.Errorf("roles missing: %w", domain.ErrMalformedResponse), domain.ErrorKindBadResponse},
		{domain.ErrServer, domain.ErrorKindBadResponse},
		{errors.New("unexpected"), domain.ErrorKindUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.kind, domain.Classify(tc.err))
		})
	}
}

func TestUser_HasRole(t *testing.T) {
	u := domain.User{Roles: []string{"member", "coach"}}
	assert.True(t, u.HasRole("coach"))
	assert.False(t, u.HasRole("admin"))
}
