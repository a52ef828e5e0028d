package metric

import "time"

type (
	Metrics interface {
		With(Labels) Metrics
		Increment(name string)
		Duration(name string, duration time.Duration)
	}

	Labels map[string]string
)
