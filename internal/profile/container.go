package profile

import (
	"github.com/fitcircle/fitcircle-client/internal/pkg/cmd"
	internalhttp "github.com/fitcircle/fitcircle-client/internal/pkg/http"
	"github.com/fitcircle/fitcircle-client/internal/profile/api"
	"github.com/fitcircle/fitcircle-client/internal/profile/infra/http"
	sessionapi "github.com/fitcircle/fitcircle-client/internal/session/api"
	"github.com/fitcircle/fitcircle-client/pkg/lazy"
	pkgtime "github.com/fitcircle/fitcircle-client/pkg/time"
)

type DependencyContainer struct {
	ProfileAPI lazy.Loader[api.API]
}

func NewDependencyContainer(
	httpClientFactory lazy.Loader[cmd.HTTPClientFactory],
	session lazy.Loader[sessionapi.API],
	scheduler lazy.Loader[pkgtime.Scheduler],
) DependencyContainer {
	return DependencyContainer{
		ProfileAPI: lazy.New(func() (api.API, error) {
			client := httpClientFactory.MustLoad().MustInitClient(
				internalhttp.DestinationFitcircle,
				internalhttp.WithSessionAuth(session.MustLoad()),
			)
			return http.NewClient(client, scheduler.MustLoad()), nil
		}),
	}
}
