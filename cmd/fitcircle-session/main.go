package main

import (
	"context"
	"time"

	"github.com/fitcircle/fitcircle-client/internal/pkg/cmd"
	"github.com/fitcircle/fitcircle-client/internal/session"
	"github.com/fitcircle/fitcircle-client/internal/session/app/service"
	"github.com/fitcircle/fitcircle-client/internal/session/domain"
	pkgcmd "github.com/fitcircle/fitcircle-client/pkg/cmd"
	"github.com/fitcircle/fitcircle-client/pkg/env"
	"github.com/fitcircle/fitcircle-client/pkg/lazy"
	"github.com/fitcircle/fitcircle-client/pkg/log"
	"github.com/fitcircle/fitcircle-client/pkg/metric"
)

func main() {
	ctx := context.Background()
	infra := cmd.NewInfrastructureContainer(ctx)
	defer infra.MustClose(ctx)

	logger := infra.Logger.MustLoad()
	container := session.NewDependencyContainer(
		infra.HTTPClientFactory,
		infra.SessionStore,
		infra.Scheduler,
		lazy.New(func() (metric.Metrics, error) { return infra.Metrics.Load() }),
		infra.Logger,
	)
	defer container.Close()

	sessionAPI := container.SessionAPI.MustLoad()
	sessionAPI.Subscribe(func(ctx context.Context, evt domain.Event) {
		logger.With(log.Fields{
			"eventID":   evt.ID().String(),
			"eventType": evt.Type(),
		}).Debug(ctx, "session event")
	})

	var loginRetryTimeout time.Duration
	if configured := env.Must(env.ParseOptional[*time.Duration]("SESSION_LOGIN_RETRY_TIMEOUT")); configured != nil {
		loginRetryTimeout = *configured
	}

	err := service.Bootstrap(ctx, sessionAPI, session.MustParseCredentials(), service.NewLoginRetry(loginRetryTimeout), logger)
	if err != nil {
		panic(err)
	}

	httpServer := infra.HTTPServer.MustLoad()
	container.MustRegisterHTTPHandlers(httpServer)

	pkgcmd.MustRun(ctx, logger,
		pkgcmd.TermSignalAwaiter,
		httpServer.Listener,
	)

	logoutOnExit := env.Must(env.ParseOptional[*bool]("SESSION_LOGOUT_ON_EXIT"))
	if logoutOnExit != nil && *logoutOnExit {
		sessionAPI.Logout(ctx)
	}
}
