package strings

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type (
	SupportedValueParsingTypes interface {
		bool | int | uint | float64 | string | time.Time | time.Duration | uuid.UUID | []byte
	}

	SupportedPointerParsingTypes interface {
		*bool | *int | *uint | *float64 | *string | *time.Time | *time.Duration | *uuid.UUID | *[]byte
	}
)

// ParseTypedValue converts a raw string to T. Pointer types are parsed as their element type.
// []byte values are expected to be hex encoded.
func ParseTypedValue[T any](value string) (T, error) {
	var blank T
	var v any
	var err error
	switch any(blank).(type) {
	case bool, *bool:
		b, parseErr := strconv.ParseBool(value)
		v, err = wrapPointer[T](b, parseErr)
	case int, *int:
		i, parseErr := strconv.Atoi(value)
		v, err = wrapPointer[T](i, parseErr)
	case uint, *uint:
		u, parseErr := strconv.ParseUint(value, 10, 64)
		v, err = wrapPointer[T](uint(u), parseErr)
	case float64, *float64:
		f, parseErr := strconv.ParseFloat(value, 64)
		v, err = wrapPointer[T](f, parseErr)
	case string, *string:
		v, err = wrapPointer[T](value, nil)
	case time.Time, *time.Time:
		t, parseErr := parseTime(value)
		v, err = wrapPointer[T](t, parseErr)
	case time.Duration, *time.Duration:
		d, parseErr := time.ParseDuration(value)
		v, err = wrapPointer[T](d, parseErr)
	case uuid.UUID, *uuid.UUID:
		id, parseErr := uuid.Parse(value)
		v, err = wrapPointer[T](id, parseErr)
	case []byte, *[]byte:
		raw, parseErr := hex.DecodeString(value)
		v, err = wrapPointer[T](raw, parseErr)
	default:
		return blank, fmt.Errorf("unsupported value type %T", blank)
	}

	if err != nil {
		return blank, fmt.Errorf("failed to convert to type %T: %w", blank, err)
	}
	return v.(T), nil
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}

	unixTime, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("RFC3339 or unix time expected: %w", err)
	}
	if unixTime < 0 {
		return time.Time{}, fmt.Errorf("got negative seconds value %d", unixTime)
	}

	return time.Unix(unixTime, 0), nil
}

func wrapPointer[T any, V any](value V, err error) (any, error) {
	if err != nil {
		return nil, err
	}

	var blank T
	if _, ok := any(blank).(V); ok {
		return value, nil
	}

	return &value, nil
}
