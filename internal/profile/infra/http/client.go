package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	internalhttp "github.com/fitcircle/fitcircle-client/internal/pkg/http"
	"github.com/fitcircle/fitcircle-client/internal/profile/api"
	"github.com/fitcircle/fitcircle-client/internal/profile/domain"
	pkghttp "github.com/fitcircle/fitcircle-client/pkg/http"
	pkgtime "github.com/fitcircle/fitcircle-client/pkg/time"
)

const profilePath = "/profile"

type (
	ProfileOut struct {
		UserID      string     `json:"userId"`
		DisplayName string     `json:"displayName"`
		HeightCm    *float64   `json:"heightCm"`
		BirthDate   *time.Time `json:"birthDate"`
		Goal        string     `json:"goal"`
	}

	ProfileIn struct {
		DisplayName string     `json:"displayName"`
		HeightCm    *float64   `json:"heightCm,omitempty"`
		BirthDate   *time.Time `json:"birthDate,omitempty"`
		Goal        string     `json:"goal,omitempty"`
	}

	client struct {
		client pkghttp.Client
		clock  pkgtime.Clock
	}
)

func NewClient(httpClient pkghttp.Client, clock pkgtime.Clock) api.API {
	return client{client: httpClient, clock: clock}
}

func (c client) Get(ctx context.Context) (*domain.Profile, error) {
	resp, err := c.client.NewRequest(ctx).Get(profilePath)
	if err = internalhttp.CheckResponse("profile.get", resp, err, http.StatusOK); err != nil {
		return nil, err
	}

	body, err := pkghttp.ParseResponse(resp, pkghttp.JSONBody[ProfileOut](), nil)
	if err != nil {
		return nil, fmt.Errorf("profile.get response: %w", err)
	}

	return toProfile(body), nil
}

func (c client) Update(ctx context.Context, in domain.ProfileIn) (*domain.Profile, error) {
	if err := in.Validate(c.clock.Now(ctx)); err != nil {
		return nil, err
	}

	resp, err := c.client.NewRequest(ctx).
		SetBody(ProfileIn{
			DisplayName: in.DisplayName,
			HeightCm:    in.HeightCm,
			BirthDate:   in.BirthDate,
			Goal:        string(in.Goal),
		}).
		Put(profilePath)
	if err = internalhttp.CheckResponse("profile.update", resp, err, http.StatusOK); err != nil {
		return nil, err
	}

	body, err := pkghttp.ParseResponse(resp, pkghttp.JSONBody[ProfileOut](), nil)
	if err != nil {
		return nil, fmt.Errorf("profile.update response: %w", err)
	}

	return toProfile(body), nil
}

func toProfile(out ProfileOut) *domain.Profile {
	return &domain.Profile{
		UserID:      out.UserID,
		DisplayName: out.DisplayName,
		HeightCm:    out.HeightCm,
		BirthDate:   out.BirthDate,
		Goal:        domain.Goal(out.Goal),
	}
}
