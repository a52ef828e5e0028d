package env

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/joho/godotenv"

	"github.com/fitcircle/fitcircle-client/pkg/strings"
)

var ErrNotFound = errors.New("env not found")

func Must[T any](val T, err error) T {
	if err != nil {
		panic(fmt.Errorf("failed to parse environment: %w", err))
	}
	return val
}

// Load reads the given dotenv files into the process environment without overriding
// variables that are already set. Missing files are ignored.
func Load(filenames ...string) error {
	existing := make([]string, 0, len(filenames))
	for _, filename := range filenames {
		if _, err := os.Stat(filename); err == nil {
			existing = append(existing, filename)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load dotenv files: %w", err)
	}
	return nil
}

func Parse[T strings.SupportedValueParsingTypes](key string) (T, error) {
	var blank T
	str, ok := os.LookupEnv(key)
	if !ok {
		return blank, notFoundError(key, blank)
	}

	v, err := strings.ParseTypedValue[T](str)
	if err != nil {
		return blank, invalidValueError(key, blank, err)
	}
	return v, nil
}

// ParseOptional returns nil when the variable is not set or empty.
func ParseOptional[T strings.SupportedPointerParsingTypes](key string) (T, error) {
	var blank T
	str, ok := os.LookupEnv(key)
	if !ok || str == "" {
		return blank, nil
	}

	v, err := strings.ParseTypedValue[T](str)
	if err != nil {
		return blank, invalidValueError(key, blank, err)
	}
	return v, nil
}

func notFoundError(key string, v any) error {
	return fmt.Errorf("%w: %s with type %s", ErrNotFound, key, typeName(v))
}

func invalidValueError(key string, v any, err error) error {
	return fmt.Errorf("env %s with type %s has invalid value: %w", key, typeName(v), err)
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "unknown"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
