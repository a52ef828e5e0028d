package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle-client/internal/session/app/auth"
	"github.com/fitcircle/fitcircle-client/internal/session/domain"
	sessionhttp "github.com/fitcircle/fitcircle-client/internal/session/infra/http"
	pkghttp "github.com/fitcircle/fitcircle-client/pkg/http"
)

func newAuthClient(t *testing.T, router *mux.Router) auth.Client {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return sessionhttp.NewAuthClient(pkghttp.NewClient(
		pkghttp.WithClientDestination(string(sessionhttp.DestinationAuth), srv.URL),
	))
}

func respond(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

func TestAuthClient_Login(t *testing.T) {
	router := mux.NewRouter()
	router.Methods(http.MethodPost).Path("/auth/login").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in sessionhttp.LoginIn
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "jane@example.com", in.Email)
		assert.Equal(t, "secret", in.Password)

		respond(http.StatusOK, `{
			"accessToken": "access",
			"refreshToken": "refresh",
			"userId": "user-1",
			"username": "jane",
			"roles": ["member", "coach"]
		}`)(w, r)
	})

	result, err := newAuthClient(t, router).Login(t.Context(), domain.Credentials{Email: "jane@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, &auth.LoginResult{
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserID:       "user-1",
		Username:     "jane",
		Roles:        []string{"member", "coach"},
	}, result)
	assert.NoError(t, result.Validate())
}

func TestAuthClient_Login_Federated(t *testing.T) {
	router := mux.NewRouter()
	router.Methods(http.MethodPost).Path("/auth/login/federated").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in sessionhttp.FederatedLoginIn
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, sessionhttp.FederatedLoginIn{Provider: "google", Token: "id-token"}, in)

		respond(http.StatusOK, `{"accessToken":"a","refreshToken":"r","userId":"u","username":"n","roles":[]}`)(w, r)
	})

	result, err := newAuthClient(t, router).Login(t.Context(), domain.Credentials{FederatedToken: "id-token", Provider: "google"})
	require.NoError(t, err)
	assert.NotNil(t, result.Roles)
	assert.Empty(t, result.Roles)
}

func TestAuthClient_Login_Returns(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		body      string
		expectErr error
		validate  bool
	}{
		{
			name:      "invalid_credentials",
			code:      http.StatusUnauthorized,
			body:      `{"code":"INVALID_CREDENTIALS"}`,
			expectErr: domain.ErrInvalidCredentials,
		},
		{
			name:      "account_not_activated",
			code:      http.StatusForbidden,
			body:      `{"code":"ACCOUNT_NOT_ACTIVATED","message":"pending"}`,
			expectErr: domain.ErrAccountNotActivated,
		},
		{
			name:      "account_blocked",
			code:      http.StatusForbidden,
			body:      `{"code":"ACCOUNT_BLOCKED"}`,
			expectErr: domain.ErrAccountBlocked,
		},
		{
			name:      "forbidden_without_code",
			code:      http.StatusForbidden,
			body:      `nope`,
			expectErr: domain.ErrInvalidCredentials,
		},
		{
			name:      "server_error",
			code:      http.StatusBadGateway,
			expectErr: domain.ErrServer,
		},
		{
			name:      "body_not_json",
			code:      http.StatusOK,
			body:      `<html>`,
			expectErr: domain.ErrMalformedResponse,
		},
		{
			name:      "roles_not_a_list",
			code:      http.StatusOK,
			body:      `{"accessToken":"a","refreshToken":"r","userId":"u","username":"n","roles":"admin"}`,
			expectErr: domain.ErrMalformedResponse,
		},
		{
			name:      "roles_missing",
			code:      http.StatusOK,
			body:      `{"accessToken":"a","refreshToken":"r","userId":"u","username":"n"}`,
			expectErr: domain.ErrMalformedResponse,
			validate:  true,
		},
		{
			name:      "access_token_missing",
			code:      http.StatusOK,
			body:      `{"refreshToken":"r","userId":"u","username":"n","roles":["member"]}`,
			expectErr: domain.ErrMalformedResponse,
			validate:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := mux.NewRouter()
			router.Methods(http.MethodPost).Path("/auth/login").HandlerFunc(respond(tc.code, tc.body))

			result, err := newAuthClient(t, router).Login(t.Context(), domain.Credentials{Email: "e", Password: "p"})
			if tc.validate {
				require.NoError(t, err)
				err = result.Validate()
			}
			assert.ErrorIs(t, err, tc.expectErr)
		})
	}
}

func TestAuthClient_Login_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := sessionhttp.NewAuthClient(pkghttp.NewClient(pkghttp.WithClientDestination("auth", srv.URL)))
	_, err := client.Login(t.Context(), domain.Credentials{Email: "e", Password: "p"})
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, domain.ErrorKindConnection, domain.Classify(err))
}

func TestAuthClient_Refresh(t *testing.T) {
	router := mux.NewRouter()
	router.Methods(http.MethodPost).Path("/auth/refresh").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in sessionhttp.RefreshIn
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in.RefreshToken != "refresh-1" {
			respond(http.StatusUnauthorized, `{}`)(w, r)
			return
		}
		respond(http.StatusOK, `{"accessToken":"access-2","refreshToken":"refresh-2"}`)(w, r)
	})
	client := newAuthClient(t, router)

	pair, err := client.Refresh(t.Context(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, &auth.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, pair)

	_, err = client.Refresh(t.Context(), "stale")
	assert.ErrorIs(t, err, domain.ErrRefreshRejected)
}

func TestAuthClient_Refresh_ServerError(t *testing.T) {
	router := mux.NewRouter()
	router.Methods(http.MethodPost).Path("/auth/refresh").HandlerFunc(respond(http.StatusInternalServerError, ``))

	_, err := newAuthClient(t, router).Refresh(t.Context(), "refresh-1")
	assert.ErrorIs(t, err, domain.ErrServer)
}

func TestAuthClient_Logout(t *testing.T) {
	router := mux.NewRouter()
	router.Methods(http.MethodPost).Path("/auth/logout").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))

		var in sessionhttp.RefreshIn
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "refresh-1", in.RefreshToken)
		w.WriteHeader(http.StatusNoContent)
	})

	err := newAuthClient(t, router).Logout(t.Context(), auth.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"})
	assert.NoError(t, err)
}

func TestAuthClient_Logout_Failure(t *testing.T) {
	router := mux.NewRouter()
	router.Methods(http.MethodPost).Path("/auth/logout").HandlerFunc(respond(http.StatusServiceUnavailable, ``))

	err := newAuthClient(t, router).Logout(t.Context(), auth.TokenPair{AccessToken: "a", RefreshToken: "r"})
	assert.ErrorIs(t, err, domain.ErrServer)
}
