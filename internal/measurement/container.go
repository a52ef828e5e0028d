package measurement

import (
	"github.com/fitcircle/fitcircle-client/internal/measurement/api"
	"github.com/fitcircle/fitcircle-client/internal/measurement/infra/http"
	"github.com/fitcircle/fitcircle-client/internal/pkg/cmd"
	internalhttp "github.com/fitcircle/fitcircle-client/internal/pkg/http"
	sessionapi "github.com/fitcircle/fitcircle-client/internal/session/api"
	"github.com/fitcircle/fitcircle-client/pkg/lazy"
	pkgtime "github.com/fitcircle/fitcircle-client/pkg/time"
)

type DependencyContainer struct {
	MeasurementAPI lazy.Loader[api.API]
}

func NewDependencyContainer(
	httpClientFactory lazy.Loader[cmd.HTTPClientFactory],
	session lazy.Loader[sessionapi.API],
	scheduler lazy.Loader[pkgtime.Scheduler],
) DependencyContainer {
	return DependencyContainer{
		MeasurementAPI: lazy.New(func() (api.API, error) {
			client := httpClientFactory.MustLoad().MustInitClient(
				internalhttp.DestinationFitcircle,
				internalhttp.WithSessionAuth(session.MustLoad()),
			)
			return http.NewClient(client, scheduler.MustLoad()), nil
		}),
	}
}
