package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/fitcircle/fitcircle-client/internal/session/api"
	"github.com/fitcircle/fitcircle-client/internal/session/domain"
	"github.com/fitcircle/fitcircle-client/pkg/log"
)

const defaultLoginRetryTimeout = 2 * time.Minute

// NewLoginRetry returns the exponential policy Bootstrap uses between failed login attempts.
func NewLoginRetry(timeout time.Duration) backoff.BackOff {
	if timeout <= 0 {
		timeout = defaultLoginRetryTimeout
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = time.Second
	eb.Multiplier = 2
	eb.MaxInterval = timeout / 4
	eb.MaxElapsedTime = timeout
	return eb
}

// Bootstrap restores the persisted session and logs in with credentials when none was restored.
// Only transport failures are retried; any other login error is returned at once.
func Bootstrap(
	ctx context.Context,
	session api.API,
	credentials domain.Credentials,
	retry backoff.BackOff,
	logger log.Logger,
) error {
	session.Restore(ctx)
	if session.Snapshot().IsAuthenticated() {
		return nil
	}

	if credentials == (domain.Credentials{}) {
		logger.Info(ctx, "no login credentials configured, session stays anonymous")
		return nil
	}

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := session.Login(ctx, credentials)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrTransport) {
			return backoff.Permanent(err)
		}

		logger.
			WithError(err).
			WithField("attempt", attempt).
			Warn(ctx, "login attempt failed, retrying")
		return err
	}, backoff.WithContext(retry, ctx))
	if err != nil {
		return fmt.Errorf("bootstrap session: %w", err)
	}

	return nil
}
