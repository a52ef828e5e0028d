package session

import (
	"time"

	"github.com/fitcircle/fitcircle-client/internal/pkg/cmd"
	"github.com/fitcircle/fitcircle-client/internal/session/api"
	"github.com/fitcircle/fitcircle-client/internal/session/app/auth"
	"github.com/fitcircle/fitcircle-client/internal/session/app/service"
	"github.com/fitcircle/fitcircle-client/internal/session/app/token"
	"github.com/fitcircle/fitcircle-client/internal/session/domain"
	"github.com/fitcircle/fitcircle-client/internal/session/infra/http"
	"github.com/fitcircle/fitcircle-client/internal/session/infra/jwt"
	"github.com/fitcircle/fitcircle-client/pkg/env"
	pkghttp "github.com/fitcircle/fitcircle-client/pkg/http"
	"github.com/fitcircle/fitcircle-client/pkg/kv"
	"github.com/fitcircle/fitcircle-client/pkg/lazy"
	"github.com/fitcircle/fitcircle-client/pkg/log"
	"github.com/fitcircle/fitcircle-client/pkg/metric"
	pkgtime "github.com/fitcircle/fitcircle-client/pkg/time"
)

type DependencyContainer struct {
	SessionAPI lazy.Loader[api.API]

	getSessionHandler lazy.Loader[http.GetSessionHandler]
}

func NewDependencyContainer(
	httpClientFactory lazy.Loader[cmd.HTTPClientFactory],
	store lazy.Loader[kv.Store],
	scheduler lazy.Loader[pkgtime.Scheduler],
	metrics lazy.Loader[metric.Metrics],
	logger lazy.Loader[log.Logger],
) DependencyContainer {
	authClient := authClientProvider(httpClientFactory)
	manager := managerProvider(authClient, store, tokenDecoderProvider(), scheduler, metrics, logger)

	sessionAPI := lazy.New(func() (api.API, error) {
		return manager.Load()
	})
	return DependencyContainer{
		SessionAPI: sessionAPI,
		getSessionHandler: lazy.New(func() (http.GetSessionHandler, error) {
			return http.NewGetSessionHandler(sessionAPI.MustLoad()), nil
		}),
	}
}

func (c DependencyContainer) MustRegisterHTTPHandlers(server pkghttp.Server) {
	handler := c.getSessionHandler.MustLoad()
	server.Register(handler.Method(), handler.Path(), handler)
}

func (c DependencyContainer) Close() {
	c.SessionAPI.IfLoaded(func(session api.API) { session.Close() })
}

// MustParseCredentials reads the login credentials for a headless session. Both are optional.
func MustParseCredentials() domain.Credentials {
	var credentials domain.Credentials
	if email := env.Must(env.ParseOptional[*string]("SESSION_LOGIN_EMAIL")); email != nil {
		credentials.Email = *email
	}
	if password := env.Must(env.ParseOptional[*string]("SESSION_LOGIN_PASSWORD")); password != nil {
		credentials.Password = *password
	}

	return credentials
}

func authClientProvider(httpClientFactory lazy.Loader[cmd.HTTPClientFactory]) lazy.Loader[auth.Client] {
	return lazy.New(func() (auth.Client, error) {
		client := httpClientFactory.MustLoad().MustInitClient(http.DestinationAuth)
		return http.NewAuthClient(client), nil
	})
}

func tokenDecoderProvider() lazy.Loader[token.Decoder] {
	return lazy.New(func() (token.Decoder, error) {
		return jwt.NewDecoder(), nil
	})
}

func managerProvider(
	authClient lazy.Loader[auth.Client],
	store lazy.Loader[kv.Store],
	decoder lazy.Loader[token.Decoder],
	scheduler lazy.Loader[pkgtime.Scheduler],
	metrics lazy.Loader[metric.Metrics],
	logger lazy.Loader[log.Logger],
) lazy.Loader[*service.Manager] {
	return lazy.New(func() (*service.Manager, error) {
		refreshMargin := service.DefaultRefreshMargin
		if configured := env.Must(env.ParseOptional[*time.Duration]("SESSION_REFRESH_MARGIN")); configured != nil {
			refreshMargin = *configured
		}

		return service.NewManager(
			authClient.MustLoad(),
			store.MustLoad(),
			decoder.MustLoad(),
			scheduler.MustLoad(),
			service.WithRefreshMargin(refreshMargin),
			service.WithMetrics(metrics.MustLoad()),
			service.WithLogger(logger.MustLoad()),
		), nil
	})
}
