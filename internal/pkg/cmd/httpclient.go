package cmd

import (
	"fmt"

	"github.com/fitcircle/fitcircle-client/pkg/env"
	"github.com/fitcircle/fitcircle-client/pkg/http"
	"github.com/fitcircle/fitcircle-client/pkg/strings"
)

type HTTPClientFactory struct {
	impl http.ClientFactory
}

func NewHTTPClientFactory(opts ...http.ClientOption) HTTPClientFactory {
	return HTTPClientFactory{
		impl: http.NewClientFactory(opts...),
	}
}

func (f HTTPClientFactory) InitRawClient(extraOpts ...http.ClientOption) http.Client {
	return f.impl.InitRawClient(extraOpts...)
}

// MustInitClient resolves the destination base URL from <DESTINATION>_SERVICE_URL.
func (f HTTPClientFactory) MustInitClient(dest http.Destination, extraOpts ...http.ClientOption) http.Client {
	host := env.Must(env.Parse[string](ServiceURLEnv(dest)))
	return f.impl.InitClient(dest, host, extraOpts...)
}

func ServiceURLEnv(dest http.Destination) string {
	return fmt.Sprintf("%s_SERVICE_URL", strings.ToScreamingSnakeCase(string(dest)))
}
