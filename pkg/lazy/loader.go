package lazy

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Loader builds its value on first use and memoizes the outcome, including a failure.
type Loader[T any] interface {
	MustLoad() T
	Load() (T, error)
	IfLoaded(func(T))
}

type loader[T any] struct {
	provider func() (T, error)
	once     sync.Once
	loaded   atomic.Bool
	value    T
	err      error
}

func New[T any](provider func() (T, error)) Loader[T] {
	return &loader[T]{provider: provider}
}

// Value wraps an already built value.
func Value[T any](value T) Loader[T] {
	l := &loader[T]{value: value}
	l.once.Do(func() {})
	l.loaded.Store(true)
	return l
}

func (l *loader[T]) MustLoad() T {
	value, err := l.Load()
	if err != nil {
		panic(err)
	}

	return value
}

func (l *loader[T]) Load() (T, error) {
	l.once.Do(func() {
		value, err := l.provider()
		if err != nil {
			l.err = fmt.Errorf("load value of %T: %w", l.value, err)
			return
		}

		l.value = value
		l.loaded.Store(true)
	})

	return l.value, l.err
}

// IfLoaded calls f only when the value was already built successfully. It never triggers loading.
func (l *loader[T]) IfLoaded(f func(T)) {
	if l.loaded.Load() {
		f(l.value)
	}
}
