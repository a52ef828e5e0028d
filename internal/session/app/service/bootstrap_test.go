package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	apimock "github.com/fitcircle/fitcircle-client/internal/session/api/mock"
	"github.com/fitcircle/fitcircle-client/internal/session/app/service"
	"github.com/fitcircle/fitcircle-client/internal/session/domain"
	"github.com/fitcircle/fitcircle-client/pkg/log"
)

func TestBootstrap_Returns(t *testing.T) {
	authenticated := domain.Session{AccessToken: "access", User: &domain.User{ID: "user-1"}}
	transportErr := fmt.Errorf("%w: connection refused", domain.ErrTransport)

	tests := []struct {
		name        string
		credentials domain.Credentials
		session     func(ctrl *gomock.Controller) *apimock.API
		expectErr   error
	}{
		{
			name:        "restored_session_skips_login",
			credentials: testCredentials,
			session: func(ctrl *gomock.Controller) *apimock.API {
				mock := apimock.NewAPI(ctrl)
				mock.EXPECT().Restore(gomock.Any())
				mock.EXPECT().Snapshot().Return(authenticated)
				return mock
			},
		},
		{
			name: "no_credentials_stays_anonymous",
			session: func(ctrl *gomock.Controller) *apimock.API {
				mock := apimock.NewAPI(ctrl)
				mock.EXPECT().Restore(gomock.Any())
				mock.EXPECT().Snapshot().Return(domain.Session{})
				return mock
			},
		},
		{
			name:        "retries_transport_errors",
			credentials: testCredentials,
			session: func(ctrl *gomock.Controller) *apimock.API {
				mock := apimock.NewAPI(ctrl)
				mock.EXPECT().Restore(gomock.Any())
				mock.EXPECT().Snapshot().Return(domain.Session{})
				gomock.InOrder(
					mock.EXPECT().Login(gomock.Any(), testCredentials).Return(transportErr).Times(2),
					mock.EXPECT().Login(gomock.Any(), testCredentials).Return(nil),
				)
				return mock
			},
		},
		{
			name:        "gives_up_after_retries",
			credentials: testCredentials,
			session: func(ctrl *gomock.Controller) *apimock.API {
				mock := apimock.NewAPI(ctrl)
				mock.EXPECT().Restore(gomock.Any())
				mock.EXPECT().Snapshot().Return(domain.Session{})
				mock.EXPECT().Login(gomock.Any(), testCredentials).Return(transportErr).Times(4)
				return mock
			},
			expectErr: domain.ErrTransport,
		},
		{
			name:        "credential_errors_are_not_retried",
			credentials: testCredentials,
			session: func(ctrl *gomock.Controller) *apimock.API {
				mock := apimock.NewAPI(ctrl)
				mock.EXPECT().Restore(gomock.Any())
				mock.EXPECT().Snapshot().Return(domain.Session{})
				mock.EXPECT().Login(gomock.Any(), testCredentials).Return(domain.ErrAccountBlocked)
				return mock
			},
			expectErr: domain.ErrAccountBlocked,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			retry := backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3)
			err := service.Bootstrap(context.Background(), tc.session(ctrl), tc.credentials, retry, log.New(log.LevelDisabled))
			if tc.expectErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expectErr)
			}
		})
	}
}
