package http

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fitcircle/fitcircle-client/internal/measurement/api"
	"github.com/fitcircle/fitcircle-client/internal/measurement/domain"
	internalhttp "github.com/fitcircle/fitcircle-client/internal/pkg/http"
	pkghttp "github.com/fitcircle/fitcircle-client/pkg/http"
	pkgtime "github.com/fitcircle/fitcircle-client/pkg/time"
)

const weightsPath = "/measurements/weights"

type (
	WeightIn struct {
		Kilograms float64   `json:"kilograms"`
		TakenAt   time.Time `json:"takenAt"`
	}

	WeightOut struct {
		ID        uuid.UUID `json:"id"`
		Kilograms float64   `json:"kilograms"`
		TakenAt   time.Time `json:"takenAt"`
	}

	WeightListOut struct {
		Items []WeightOut `json:"items"`
	}

	client struct {
		client pkghttp.Client
		clock  pkgtime.Clock
	}
)

func NewClient(httpClient pkghttp.Client, clock pkgtime.Clock) api.API {
	return client{client: httpClient, clock: clock}
}

func (c client) AddWeight(ctx context.Context, kilograms float64, takenAt time.Time) (*domain.Weight, error) {
	if err := domain.ValidateWeight(kilograms, takenAt, c.clock.Now(ctx)); err != nil {
		return nil, err
	}

	resp, err := c.client.NewRequest(ctx).
		SetBody(WeightIn{Kilograms: kilograms, TakenAt: takenAt.UTC()}).
		Post(weightsPath)
	if err = internalhttp.CheckResponse("measurement.addWeight", resp, err, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}

	body, err := pkghttp.ParseResponse(resp, pkghttp.JSONBody[WeightOut](), nil)
	if err != nil {
		return nil, fmt.Errorf("measurement.addWeight response: %w", err)
	}

	weight := toWeight(body)
	return &weight, nil
}

func (c client) ListWeights(ctx context.Context) ([]domain.Weight, error) {
	resp, err := c.client.NewRequest(ctx).Get(weightsPath)
	if err = internalhttp.CheckResponse("measurement.listWeights", resp, err, http.StatusOK); err != nil {
		return nil, err
	}

	body, err := pkghttp.ParseResponse(resp, pkghttp.JSONBody[WeightListOut](), nil)
	if err != nil {
		return nil, fmt.Errorf("measurement.listWeights response: %w", err)
	}

	result := make([]domain.Weight, 0, len(body.Items))
	for _, item := range body.Items {
		result = append(result, toWeight(item))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TakenAt.After(result[j].TakenAt)
	})

	return result, nil
}

func toWeight(out WeightOut) domain.Weight {
	return domain.Weight{
		ID:        out.ID,
		Kilograms: out.Kilograms,
		TakenAt:   out.TakenAt,
	}
}
