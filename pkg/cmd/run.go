package cmd

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fitcircle/fitcircle-client/pkg/log"
)

// Job runs until its context is cancelled or its work is done.
type Job func(context.Context) error

var errJobCompleted = errors.New("job completed")

func MustRun(ctx context.Context, logger log.Logger, jobs ...Job) {
	if err := Run(ctx, logger, jobs...); err != nil {
		panic(fmt.Errorf("some of the jobs completed with error: %w", err))
	}
}

// Run starts every job and returns once the first of them finishes, after the rest observe cancellation.
// A job finishing without error, or with its context error, is a regular stop.
func Run(ctx context.Context, logger log.Logger, jobs ...Job) error {
	group, groupCtx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		group.Go(func() error {
			err := job(groupCtx)
			if err == nil || errors.Is(err, groupCtx.Err()) {
				return errJobCompleted
			}

			logger.WithError(err).Error(groupCtx, "running job completed with error")
			return err
		})
	}

	err := group.Wait()
	if errors.Is(err, errJobCompleted) {
		return nil
	}

	return err
}
