package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

const maxWeightKg = 500

var ErrInvalidWeight = errors.New("invalid weight")

type Weight struct {
	ID        uuid.UUID
	Kilograms float64
	TakenAt   time.Time
}

func ValidateWeight(kilograms float64, takenAt, now time.Time) error {
	if math.IsNaN(kilograms) || math.IsInf(kilograms, 0) {
		return fmt.Errorf("%w: %v is not a number of kilograms", ErrInvalidWeight, kilograms)
	}
	if kilograms <= 0 || kilograms > maxWeightKg {
		return fmt.Errorf("%w: %.1f kg is out of range", ErrInvalidWeight, kilograms)
	}
	if takenAt.IsZero() {
		return fmt.Errorf("%w: measurement time is required", ErrInvalidWeight)
	}
	if takenAt.After(now) {
		return fmt.Errorf("%w: measurement time is in the future", ErrInvalidWeight)
	}

	return nil
}
