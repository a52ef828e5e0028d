package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fitcircle/fitcircle-client/internal/measurement"
	"github.com/fitcircle/fitcircle-client/internal/pkg/cmd"
	"github.com/fitcircle/fitcircle-client/internal/profile"
	profiledomain "github.com/fitcircle/fitcircle-client/internal/profile/domain"
	"github.com/fitcircle/fitcircle-client/internal/session"
	sessionapi "github.com/fitcircle/fitcircle-client/internal/session/api"
	sessiondomain "github.com/fitcircle/fitcircle-client/internal/session/domain"
	"github.com/fitcircle/fitcircle-client/pkg/lazy"
	"github.com/fitcircle/fitcircle-client/pkg/metric"
	pkgtime "github.com/fitcircle/fitcircle-client/pkg/time"
)

const usage = `usage: fitcircle <command> [flags]

commands:
  login            -email -password
  logout
  session
  profile
  profile-update   -name -height -goal
  weights
  weight-add       -kg [-at RFC3339]
`

var errUsage = errors.New("invalid usage")

type app struct {
	clock       pkgtime.AdjustableClock
	session     lazy.Loader[sessionapi.API]
	profile     profile.DependencyContainer
	measurement measurement.DependencyContainer
}

func main() {
	os.Exit(execute())
}

func execute() int {
	ctx := context.Background()
	infra := cmd.NewInfrastructureContainer(ctx)
	defer infra.MustClose(ctx)

	sessionContainer := session.NewDependencyContainer(
		infra.HTTPClientFactory,
		infra.SessionStore,
		infra.Scheduler,
		lazy.New(func() (metric.Metrics, error) { return metric.NewMetricsStub(), nil }),
		infra.Logger,
	)
	defer sessionContainer.Close()

	a := app{
		clock:       pkgtime.NewAdjustableClock(),
		session:     sessionContainer.SessionAPI,
		profile:     profile.NewDependencyContainer(infra.HTTPClientFactory, sessionContainer.SessionAPI, infra.Scheduler),
		measurement: measurement.NewDependencyContainer(infra.HTTPClientFactory, sessionContainer.SessionAPI, infra.Scheduler),
	}

	err := a.run(ctx, os.Args[1:])
	if errors.Is(err, errUsage) {
		_, _ = fmt.Fprint(os.Stderr, usage)
		return 2
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", sessiondomain.Classify(err), err)
		return 1
	}

	return 0
}

func (a app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	sessionAPI := a.session.MustLoad()
	sessionAPI.Restore(ctx)

	command, args := args[0], args[1:]
	switch command {
	case "login":
		return a.login(ctx, sessionAPI, args)
	case "logout":
		sessionAPI.Logout(ctx)
		return nil
	case "session":
		return printJSON(sessionOut(sessionAPI))
	case "profile":
		result, err := a.profile.ProfileAPI.MustLoad().Get(ctx)
		if err != nil {
			return err
		}
		return printJSON(result)
	case "profile-update":
		return a.updateProfile(a.clock.Freeze(ctx), args)
	case "weights":
		result, err := a.measurement.MeasurementAPI.MustLoad().ListWeights(ctx)
		if err != nil {
			return err
		}
		return printJSON(result)
	case "weight-add":
		return a.addWeight(a.clock.Freeze(ctx), args)
	default:
		return errUsage
	}
}

func (a app) login(ctx context.Context, sessionAPI sessionapi.API, args []string) error {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}

	credentials := session.MustParseCredentials()
	if *email != "" {
		credentials.Email = *email
	}
	if *password != "" {
		credentials.Password = *password
	}

	if err := sessionAPI.Login(ctx, credentials); err != nil {
		return err
	}
	return printJSON(sessionOut(sessionAPI))
}

func (a app) updateProfile(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("profile-update", flag.ContinueOnError)
	name := flags.String("name", "", "display name")
	height := flags.Float64("height", 0, "height in cm")
	goal := flags.String("goal", "", "loseWeight, maintainWeight or gainWeight")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}

	in := profiledomain.ProfileIn{DisplayName: *name, Goal: profiledomain.Goal(*goal)}
	if *height > 0 {
		in.HeightCm = height
	}

	result, err := a.profile.ProfileAPI.MustLoad().Update(ctx, in)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (a app) addWeight(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("weight-add", flag.ContinueOnError)
	kilograms := flags.Float64("kg", 0, "weight in kilograms")
	at := flags.String("at", "", "measurement time, RFC3339; now when empty")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}

	takenAt := a.clock.Now(ctx)
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("%w: -at: %w", errUsage, err)
		}
		takenAt = parsed
	}

	result, err := a.measurement.MeasurementAPI.MustLoad().AddWeight(ctx, *kilograms, takenAt)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func sessionOut(sessionAPI sessionapi.API) any {
	snapshot := sessionAPI.Snapshot()
	return struct {
		State string              `json:"state"`
		User  *sessiondomain.User `json:"user,omitempty"`
	}{
		State: sessionAPI.State().String(),
		User:  snapshot.User,
	}
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
