package http_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle-client/internal/measurement/api"
	"github.com/fitcircle/fitcircle-client/internal/measurement/domain"
	measurementhttp "github.com/fitcircle/fitcircle-client/internal/measurement/infra/http"
	internalhttp "github.com/fitcircle/fitcircle-client/internal/pkg/http"
	pkghttp "github.com/fitcircle/fitcircle-client/pkg/http"
	pkgtime "github.com/fitcircle/fitcircle-client/pkg/time"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newMeasurementClient(t *testing.T, router *mux.Router) (api.API, context.Context) {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	httpClient := pkghttp.NewClient(
		pkghttp.WithClientDestination(string(internalhttp.DestinationFitcircle), srv.URL),
		pkghttp.WithBearerToken(func() (string, bool) { return "access-1", true }),
	)
	clock := pkgtime.NewAdjustableClock()
	return measurementhttp.NewClient(httpClient, clock), clock.Set(t.Context(), now)
}

func TestClient_AddWeight(t *testing.T) {
	id := uuid.New()
	takenAt := now.Add(-time.Hour)

	router := mux.NewRouter()
	router.Methods(http.MethodPost).Path("/measurements/weights").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))

		var in measurementhttp.WeightIn
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.InDelta(t, 71.4, in.Kilograms, 0.001)
		assert.True(t, takenAt.Equal(in.TakenAt))

		pkghttp.WriteJSON(w, http.StatusCreated, measurementhttp.WeightOut{ID: id, Kilograms: in.Kilograms, TakenAt: in.TakenAt})
	})

	client, ctx := newMeasurementClient(t, router)
	weight, err := client.AddWeight(ctx, 71.4, takenAt)
	require.NoError(t, err)
	assert.Equal(t, id, weight.ID)
	assert.True(t, takenAt.Equal(weight.TakenAt))
}

func TestClient_AddWeight_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		kilograms float64
		takenAt   time.Time
	}{
		{name: "zero", kilograms: 0, takenAt: now},
		{name: "too_heavy", kilograms: 501, takenAt: now},
		{name: "no_time", kilograms: 70},
		{name: "future", kilograms: 70, takenAt: now.Add(time.Minute)},
		{name: "not_a_number", kilograms: math.NaN(), takenAt: now},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, ctx := newMeasurementClient(t, mux.NewRouter())

			_, err := client.AddWeight(ctx, tc.kilograms, tc.takenAt)
			assert.ErrorIs(t, err, domain.ErrInvalidWeight)
		})
	}
}

func TestClient_ListWeights_NewestFirst(t *testing.T) {
	older := measurementhttp.WeightOut{ID: uuid.New(), Kilograms: 72, TakenAt: now.AddDate(0, 0, -7)}
	newer := measurementhttp.WeightOut{ID: uuid.New(), Kilograms: 71, TakenAt: now.AddDate(0, 0, -1)}

	router := mux.NewRouter()
	router.Methods(http.MethodGet).Path("/measurements/weights").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		pkghttp.WriteJSON(w, http.StatusOK, measurementhttp.WeightListOut{Items: []measurementhttp.WeightOut{older, newer}})
	})

	client, ctx := newMeasurementClient(t, router)
	weights, err := client.ListWeights(ctx)
	require.NoError(t, err)
	require.Len(t, weights, 2)
	assert.Equal(t, newer.ID, weights[0].ID)
	assert.Equal(t, older.ID, weights[1].ID)
}

func TestClient_ListWeights_Unauthorized(t *testing.T) {
	router := mux.NewRouter()
	router.Methods(http.MethodGet).Path("/measurements/weights").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client, ctx := newMeasurementClient(t, router)
	_, err := client.ListWeights(ctx)
	assert.ErrorIs(t, err, internalhttp.ErrUnauthorized)
}
