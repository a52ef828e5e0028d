package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gorilla/mux"

	"github.com/fitcircle/fitcircle-client/pkg/log"
)

const (
	DefaultServerAddress = ":8080"
	HealthPath           = "/healthz"

	defaultReadTimeout       = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	shutdownTimeout          = 5 * time.Second
)

type (
	ServerOption func(*mux.Router)

	Server interface {
		Listener(context.Context) error
		Register(method, path string, handler http.Handler)
		Handler() http.Handler
	}

	server struct {
		srv    *http.Server
		router *mux.Router
	}
)

func NewServer(address string, opts ...ServerOption) Server {
	router := mux.NewRouter()
	for _, opt := range opts {
		opt(router)
	}

	return server{
		srv: &http.Server{
			Addr:              address,
			Handler:           router,
			ReadTimeout:       defaultReadTimeout,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
		},
		router: router,
	}
}

func (s server) Listener(ctx context.Context) error {
	serverDoneChan := make(chan error, 1)
	go func() {
		err := s.srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serverDoneChan <- err
	}()

	var err error
	select {
	case err = <-serverDoneChan:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = s.srv.Shutdown(shutdownCtx)
	}
	if err != nil {
		return fmt.Errorf("http listener %s: %w", s.srv.Addr, err)
	}

	return nil
}

func (s server) Register(method, path string, handler http.Handler) {
	s.router.
		Name(getRouteName(method, path)).
		Methods(method).
		Path(path).
		Handler(handler)
}

func (s server) Handler() http.Handler {
	return s.router
}

func WithHealthCheck() ServerOption {
	return func(router *mux.Router) {
		router.
			Name(getRouteName(http.MethodGet, HealthPath)).
			Methods(http.MethodGet).
			Path(HealthPath).
			HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				WriteJSON(w, http.StatusOK, struct {
					Status string `json:"status"`
				}{Status: "OK"})
			})
	}
}

func WithLogging(logger log.Logger, excludedPaths ...string) ServerOption {
	excluded := make(map[string]struct{}, len(excludedPaths)+1)
	excluded[HealthPath] = struct{}{}
	for _, p := range excludedPaths {
		excluded[p] = struct{}{}
	}

	return func(router *mux.Router) {
		router.Use(func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if _, ok := excluded[r.URL.Path]; ok {
					handler.ServeHTTP(w, r)
					return
				}

				lrw := &loggingResponseWriter{w, http.StatusOK}
				handler.ServeHTTP(lrw, r)

				logger.With(log.Fields{
					"routeName":    getRouteName(r.Method, r.URL.Path),
					"method":       r.Method,
					"path":         r.URL.Path,
					"responseCode": lrw.code,
				}).Info(r.Context(), "request handled")
			})
		})
	}
}

func WriteJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

type loggingResponseWriter struct {
	http.ResponseWriter
	code int
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func getRouteName(method, path string) string {
	path = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Latin, r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, strings.Trim(path, "/"))
	return strings.ToLower(fmt.Sprintf("%s_%s", method, path))
}
