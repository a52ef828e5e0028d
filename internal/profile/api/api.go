package api

import (
	"context"

	"github.com/fitcircle/fitcircle-client/internal/profile/domain"
)

// API reads and edits the profile of the signed in user.
type API interface {
	Get(context.Context) (*domain.Profile, error)
	Update(context.Context, domain.ProfileIn) (*domain.Profile, error)
}
