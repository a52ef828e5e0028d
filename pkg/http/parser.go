package http

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

type DataExtractor[T any] func(*resty.Response) (T, error)

var ErrParsingError = errors.New("parsing error")

func ParseResponse[T any](resp *resty.Response, extractor DataExtractor[T], lastErr error) (T, error) {
	if lastErr != nil {
		var result T
		return result, lastErr
	}

	return extractor(resp)
}

func JSONBody[T any]() DataExtractor[T] {
	return func(resp *resty.Response) (T, error) {
		var result T
		err := json.Unmarshal(resp.Body(), &result)
		if err != nil {
			return result, fmt.Errorf("%w: decode json body: %w", ErrParsingError, err)
		}

		return result, nil
	}
}
