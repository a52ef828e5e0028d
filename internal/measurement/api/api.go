package api

import (
	"context"
	"time"

	"github.com/fitcircle/fitcircle-client/internal/measurement/domain"
)

type API interface {
	AddWeight(ctx context.Context, kilograms float64, takenAt time.Time) (*domain.Weight, error)
	// ListWeights returns the signed in user's weight history, newest first.
	ListWeights(context.Context) ([]domain.Weight, error)
}
