package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/fitcircle/fitcircle-client/internal/session/app/auth"
	"github.com/fitcircle/fitcircle-client/internal/session/domain"
	pkghttp "github.com/fitcircle/fitcircle-client/pkg/http"
)

const (
	DestinationAuth pkghttp.Destination = "auth"

	loginPath          = "/auth/login"
	federatedLoginPath = "/auth/login/federated"
	refreshPath        = "/auth/refresh"
	logoutPath         = "/auth/logout"

	codeAccountNotActivated = "ACCOUNT_NOT_ACTIVATED"
	codeAccountBlocked      = "ACCOUNT_BLOCKED"
)

type (
	LoginIn struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	FederatedLoginIn struct {
		Provider string `json:"provider"`
		Token    string `json:"token"`
	}

	RefreshIn struct {
		RefreshToken string `json:"refreshToken"`
	}

	LoginOut struct {
		AccessToken  string          `json:"accessToken"`
		RefreshToken string          `json:"refreshToken"`
		UserID       string          `json:"userId"`
		Username     string          `json:"username"`
		Roles        json.RawMessage `json:"roles"`
	}

	TokenPairOut struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}

	ErrorOut struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}

	authClient struct {
		client pkghttp.Client
	}
)

func NewAuthClient(client pkghttp.Client) auth.Client {
	return authClient{client: client}
}

func (c authClient) Login(ctx context.Context, credentials domain.Credentials) (*auth.LoginResult, error) {
	req := c.client.NewRequest(ctx)
	path := loginPath
	if credentials.IsFederated() {
		path = federatedLoginPath
		req.SetBody(FederatedLoginIn{Provider: credentials.Provider, Token: credentials.FederatedToken})
	} else {
		req.SetBody(LoginIn{Email: credentials.Email, Password: credentials.Password})
	}

	resp, err := req.Post(path)
	if err != nil {
		return nil, fmt.Errorf("%w: request auth.login: %w", domain.ErrTransport, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: auth.login status %d", domain.ErrInvalidCredentials, resp.StatusCode())
	case http.StatusForbidden:
		return nil, accountError(resp)
	default:
		return nil, statusError("auth.login", resp)
	}

	body, err := pkghttp.ParseResponse(resp, pkghttp.JSONBody[LoginOut](), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: auth.login response: %w", domain.ErrMalformedResponse, err)
	}

	roles, err := parseRoles(body.Roles)
	if err != nil {
		return nil, err
	}

	return &auth.LoginResult{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		UserID:       body.UserID,
		Username:     body.Username,
		Roles:        roles,
	}, nil
}

func (c authClient) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	resp, err := c.client.NewRequest(ctx).
		SetBody(RefreshIn{RefreshToken: refreshToken}).
		Post(refreshPath)
	if err != nil {
		return nil, fmt.Errorf("%w: request auth.refresh: %w", domain.ErrTransport, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: auth.refresh status %d", domain.ErrRefreshRejected, resp.StatusCode())
	default:
		return nil, statusError("auth.refresh", resp)
	}

	body, err := pkghttp.ParseResponse(resp, pkghttp.JSONBody[TokenPairOut](), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: auth.refresh response: %w", domain.ErrMalformedResponse, err)
	}

	return &auth.TokenPair{AccessToken: body.AccessToken, RefreshToken: body.RefreshToken}, nil
}

func (c authClient) Logout(ctx context.Context, pair auth.TokenPair) error {
	resp, err := c.client.NewRequest(ctx).
		SetAuthToken(pair.AccessToken).
		SetBody(RefreshIn{RefreshToken: pair.RefreshToken}).
		Post(logoutPath)
	if err != nil {
		return fmt.Errorf("%w: request auth.logout: %w", domain.ErrTransport, err)
	}

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return statusError("auth.logout", resp)
	}

	return nil
}

func parseRoles(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var roles []string
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, fmt.Errorf("%w: roles must be a list of strings: %w", domain.ErrMalformedResponse, err)
	}

	return roles, nil
}

func accountError(resp *resty.Response) error {
	body, err := pkghttp.ParseResponse(resp, pkghttp.JSONBody[ErrorOut](), nil)
	if err != nil {
		return fmt.Errorf("%w: auth.login status %d", domain.ErrInvalidCredentials, resp.StatusCode())
	}

	switch body.Code {
	case codeAccountNotActivated:
		return fmt.Errorf("%w: %s", domain.ErrAccountNotActivated, body.Message)
	case codeAccountBlocked:
		return fmt.Errorf("%w: %s", domain.ErrAccountBlocked, body.Message)
	default:
		return fmt.Errorf("%w: auth.login code %q", domain.ErrInvalidCredentials, body.Code)
	}
}

func statusError(operation string, resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %s status %d", domain.ErrServer, operation, resp.StatusCode())
	}

	return fmt.Errorf("%w: %s unexpected status %d", domain.ErrMalformedResponse, operation, resp.StatusCode())
}
