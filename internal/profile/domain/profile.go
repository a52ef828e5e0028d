package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	minHeightCm = 50
	maxHeightCm = 300
)

var ErrInvalidProfile = errors.New("invalid profile")

type (
	Goal string

	Profile struct {
		UserID      string
		DisplayName string
		HeightCm    *float64
		BirthDate   *time.Time
		Goal        Goal
	}

	// ProfileIn is a full replacement of the editable profile fields.
	ProfileIn struct {
		DisplayName string
		HeightCm    *float64
		BirthDate   *time.Time
		Goal        Goal
	}
)

const (
	GoalLoseWeight     Goal = "loseWeight"
	GoalMaintainWeight Goal = "maintainWeight"
	GoalGainWeight     Goal = "gainWeight"
)

func (p ProfileIn) Validate(now time.Time) error {
	if strings.TrimSpace(p.DisplayName) == "" {
		return fmt.Errorf("%w: display name is required", ErrInvalidProfile)
	}
	if p.HeightCm != nil && (*p.HeightCm < minHeightCm || *p.HeightCm > maxHeightCm) {
		return fmt.Errorf("%w: height must be between %d and %d cm", ErrInvalidProfile, minHeightCm, maxHeightCm)
	}
	if p.BirthDate != nil && !p.BirthDate.Before(now) {
		return fmt.Errorf("%w: birth date must be in the past", ErrInvalidProfile)
	}

	switch p.Goal {
	case "", GoalLoseWeight, GoalMaintainWeight, GoalGainWeight:
	default:
		return fmt.Errorf("%w: unknown goal %q", ErrInvalidProfile, p.Goal)
	}

	return nil
}
