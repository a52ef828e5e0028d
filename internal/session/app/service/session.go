package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fitcircle/fitcircle-client/internal/session/api"
	"github.com/fitcircle/fitcircle-client/internal/session/app/auth"
	"github.com/fitcircle/fitcircle-client/internal/session/app/token"
	"github.com/fitcircle/fitcircle-client/internal/session/domain"
	"github.com/fitcircle/fitcircle-client/pkg/kv"
	"github.com/fitcircle/fitcircle-client/pkg/log"
	"github.com/fitcircle/fitcircle-client/pkg/metric"
	pkgtime "github.com/fitcircle/fitcircle-client/pkg/time"
)

const (
	DefaultRefreshMargin = 5 * time.Minute

	KeyAccessToken  = "session.accessToken"
	KeyRefreshToken = "session.refreshToken"
	KeyUser         = "session.user"

	metricNameLoginTotal        = "session_login_total"
	metricNameRefreshTotal      = "session_refresh_total"
	metricNameForcedLogoutTotal = "session_forced_logout_total"
)

var persistedKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

var errRefreshTokenMissing = errors.New("refresh token missing")

type Option func(*Manager)

func WithRefreshMargin(margin time.Duration) Option {
	return func(m *Manager) {
		if margin > 0 {
			m.refreshMargin = margin
		}
	}
}

func WithMetrics(metrics metric.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

func WithLogger(logger log.Logger) Option {
	return func(m *Manager) {
		m.logger = logger.WithField("component", domain.Name)
	}
}

// Manager owns the single authoritative session. Session mutations are serialized by opMu.
// Overlapping refresh triggers collapse into one refreshCall. Events are delivered after opMu is released.
type Manager struct {
	authClient    auth.Client
	store         kv.Store
	decoder       token.Decoder
	scheduler     pkgtime.Scheduler
	metrics       metric.Metrics
	logger        log.Logger
	refreshMargin time.Duration

	flightMu        sync.Mutex
	flight          *refreshCall
	flightsFinished uint64

	opMu          sync.Mutex
	timer         pkgtime.Timer
	timerSeq      uint64
	pendingEvents []domain.Event

	stateMu sync.RWMutex
	session domain.Session
	state   domain.State

	subMu       sync.RWMutex
	subSeq      uint64
	subscribers map[uint64]api.EventHandler
}

// refreshCall is one remote refresh shared by every trigger that overlaps with it.
type refreshCall struct {
	done chan struct{}
	err  error
}

func NewManager(
	authClient auth.Client,
	store kv.Store,
	decoder token.Decoder,
	scheduler pkgtime.Scheduler,
	opts ...Option,
) *Manager {
	m := &Manager{
		authClient:    authClient,
		store:         store,
		decoder:       decoder,
		scheduler:     scheduler,
		metrics:       metric.NewMetricsStub(),
		logger:        log.New(log.LevelDisabled),
		refreshMargin: DefaultRefreshMargin,
		state:         domain.StateAnonymous,
		subscribers:   make(map[uint64]api.EventHandler),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Manager) Snapshot() domain.Session {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if m.session.User == nil {
		return domain.Session{AccessToken: m.session.AccessToken}
	}

	user := *m.session.User
	user.Roles = append([]string(nil), m.session.User.Roles...)
	return domain.Session{AccessToken: m.session.AccessToken, User: &user}
}

func (m *Manager) State() domain.State {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

// Restore loads a previously persisted session. It never fails: unreadable or partial
// records leave the session anonymous, undecodable tokens leave it without automatic refresh.
func (m *Manager) Restore(ctx context.Context) {
	m.opMu.Lock()
	defer m.unlockAndDispatch(ctx)

	m.cancelTimerLocked()

	accessToken, found, err := m.store.Get(ctx, KeyAccessToken)
	if err != nil {
		m.logger.WithError(err).Warn(ctx, "failed to read persisted access token, session stays anonymous")
		return
	}
	if !found || accessToken == "" {
		m.logger.Debug(ctx, "no persisted session found")
		return
	}

	user, err := m.loadUser(ctx)
	if err != nil {
		m.logger.WithError(err).Warn(ctx, "persisted session has no valid user, session stays anonymous")
		m.purgeLocked(ctx)
		return
	}

	m.setSession(domain.Session{AccessToken: accessToken, User: user}, domain.StateAuthenticated)
	m.emit(domain.EventRestored{EventID: uuid.New(), UserID: user.ID})
	m.logger.WithField("userID", user.ID).Info(ctx, "session restored")

	m.scheduleRefreshLocked(ctx, accessToken, false)
}

// ScheduleRefresh arms the refresh timer for accessToken, replacing any pending one.
// A token expiring within the refresh margin is refreshed before ScheduleRefresh returns.
// When a refresh overlaps the call, ScheduleRefresh waits for it instead: that refresh
// arms the timer for the token it obtained.
func (m *Manager) ScheduleRefresh(ctx context.Context, accessToken string) {
	finished, waited := m.awaitFlight()
	if waited {
		return
	}

	m.opMu.Lock()
	defer m.unlockAndDispatch(ctx)

	if m.finishedFlights() != finished {
		return
	}
	m.scheduleRefreshLocked(ctx, accessToken, false)
}

// Refresh joins the refresh in flight if there is one, otherwise starts it.
func (m *Manager) Refresh(ctx context.Context) error {
	call, joined := m.joinOrStartFlight()
	if joined {
		<-call.done
		return call.err
	}

	m.opMu.Lock()
	defer m.unlockAndDispatch(ctx)

	select {
	case <-call.done:
		return call.err
	default:
	}

	return m.runFlightLocked(ctx, call)
}

func (m *Manager) Login(ctx context.Context, credentials domain.Credentials) error {
	if err := credentials.Validate(); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	m.opMu.Lock()
	defer m.unlockAndDispatch(ctx)

	result, err := m.authClient.Login(ctx, credentials)
	if err == nil && result == nil {
		err = fmt.Errorf("%w: empty login response", domain.ErrMalformedResponse)
	}
	if err == nil {
		err = result.Validate()
	}
	if err != nil {
		m.metrics.With(metric.Labels{"result": domain.Classify(err).String()}).Increment(metricNameLoginTotal)
		m.logger.
			WithError(err).
			WithField("errorKind", domain.Classify(err).String()).
			Info(ctx, "login failed")
		return fmt.Errorf("login: %w", err)
	}

	user := result.User()
	encodedUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	err = m.store.SetMany(ctx, map[string]string{
		KeyAccessToken:  result.AccessToken,
		KeyRefreshToken: result.RefreshToken,
		KeyUser:         string(encodedUser),
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	m.cancelTimerLocked()
	m.setSession(domain.Session{AccessToken: result.AccessToken, User: &user}, domain.StateAuthenticated)
	m.metrics.With(metric.Labels{"result": "success"}).Increment(metricNameLoginTotal)
	m.emit(domain.EventLoggedIn{EventID: uuid.New(), UserID: user.ID})
	m.logger.WithField("userID", user.ID).Info(ctx, "logged in")

	m.scheduleRefreshLocked(ctx, result.AccessToken, false)
	return nil
}

// Logout always leaves the session anonymous. The remote call is best effort.
func (m *Manager) Logout(ctx context.Context) {
	m.opMu.Lock()
	defer m.unlockAndDispatch(ctx)

	m.cancelTimerLocked()

	current := m.Snapshot()
	if current.IsAuthenticated() {
		refreshToken, _, err := m.store.Get(ctx, KeyRefreshToken)
		if err != nil {
			m.logger.WithError(err).Warn(ctx, "failed to read refresh token for logout")
		}

		err = m.authClient.Logout(ctx, auth.TokenPair{AccessToken: current.AccessToken, RefreshToken: refreshToken})
		if err != nil {
			m.logger.
				WithError(err).
				WithField("userID", current.User.ID).
				Warn(ctx, "remote logout failed, session cleared locally")
		}
	}

	m.setSession(domain.Session{}, domain.StateAnonymous)
	m.purgeLocked(ctx)

	if current.IsAuthenticated() {
		m.emit(domain.EventLoggedOut{EventID: uuid.New(), UserID: current.User.ID})
		m.logger.WithField("userID", current.User.ID).Info(ctx, "logged out")
	}
}

func (m *Manager) Subscribe(handler api.EventHandler) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	m.subSeq++
	id := m.subSeq
	m.subscribers[id] = handler

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subscribers, id)
	}
}

// Close cancels the pending refresh without touching the session.
func (m *Manager) Close() {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.cancelTimerLocked()
}

func (m *Manager) scheduleRefreshLocked(ctx context.Context, accessToken string, afterRefresh bool) {
	m.cancelTimerLocked()

	claims, err := m.decoder.Decode(accessToken)
	if err != nil {
		m.logger.WithError(err).Warn(ctx, "failed to decode access token, automatic refresh disabled")
		return
	}
	if claims == nil || claims.ExpiresAt == nil {
		m.logger.Warn(ctx, "access token has no expiry, automatic refresh disabled")
		return
	}

	timeLeft := claims.ExpiresAt.Sub(m.scheduler.Now(ctx))
	if timeLeft > m.refreshMargin {
		m.startTimerLocked(ctx, timeLeft-m.refreshMargin)
		return
	}

	if afterRefresh {
		if timeLeft <= 0 {
			m.logger.Warn(ctx, "refreshed access token is already expired, automatic refresh disabled")
			return
		}

		m.logger.
			WithField("expiresIn", timeLeft.String()).
			Warn(ctx, "refreshed access token expires within refresh margin")
		m.startTimerLocked(ctx, timeLeft/2)
		return
	}

	m.logger.WithField("expiresIn", timeLeft.String()).Info(ctx, "access token expires within refresh margin, refreshing now")
	call, _ := m.joinOrStartFlight()
	_ = m.runFlightLocked(ctx, call)
}

func (m *Manager) startTimerLocked(ctx context.Context, delay time.Duration) {
	m.timerSeq++
	seq := m.timerSeq
	timerCtx := context.WithoutCancel(ctx)

	m.timer = m.scheduler.AfterFunc(delay, func() {
		m.onRefreshTimer(timerCtx, seq)
	})
	m.logger.WithField("refreshIn", delay.String()).Debug(ctx, "access token refresh scheduled")
}

func (m *Manager) cancelTimerLocked() {
	if m.timer == nil {
		return
	}

	m.timer.Stop()
	m.timer = nil
}

// onRefreshTimer drops callbacks of timers that were replaced or cancelled after they fired.
// Only a current timer takes part in a refresh flight.
func (m *Manager) onRefreshTimer(ctx context.Context, seq uint64) {
	m.opMu.Lock()
	defer m.unlockAndDispatch(ctx)

	if m.timer == nil || m.timerSeq != seq {
		return
	}

	m.timer = nil
	call, _ := m.joinOrStartFlight()
	_ = m.runFlightLocked(ctx, call)
}

// joinOrStartFlight returns the refresh in flight, or registers a new one.
// A registered call whose starter still waits for opMu may be run by whoever holds opMu first.
func (m *Manager) joinOrStartFlight() (call *refreshCall, joined bool) {
	m.flightMu.Lock()
	defer m.flightMu.Unlock()

	if m.flight != nil {
		return m.flight, true
	}

	m.flight = &refreshCall{done: make(chan struct{})}
	return m.flight, false
}

func (m *Manager) runFlightLocked(ctx context.Context, call *refreshCall) error {
	err := m.refreshLocked(ctx)

	m.flightMu.Lock()
	call.err = err
	if m.flight == call {
		m.flight = nil
	}
	m.flightsFinished++
	m.flightMu.Unlock()

	close(call.done)
	return err
}

// awaitFlight waits for the refresh in flight, if any, and reports how many refreshes had finished before.
func (m *Manager) awaitFlight() (finished uint64, waited bool) {
	m.flightMu.Lock()
	call := m.flight
	finished = m.flightsFinished
	m.flightMu.Unlock()

	if call == nil {
		return finished, false
	}

	<-call.done
	return finished, true
}

func (m *Manager) finishedFlights() uint64 {
	m.flightMu.Lock()
	defer m.flightMu.Unlock()
	return m.flightsFinished
}

func (m *Manager) refreshLocked(ctx context.Context) error {
	current := m.Snapshot()
	if !current.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}

	m.setState(domain.StateRefreshing)

	refreshToken, found, err := m.store.Get(ctx, KeyRefreshToken)
	if err != nil {
		return m.forceLogoutLocked(ctx, current, fmt.Errorf("read refresh token: %w", err))
	}
	if !found || refreshToken == "" {
		return m.forceLogoutLocked(ctx, current, errRefreshTokenMissing)
	}

	pair, err := m.authClient.Refresh(ctx, refreshToken)
	if err == nil && pair == nil {
		err = fmt.Errorf("%w: empty refresh response", domain.ErrMalformedResponse)
	}
	if err == nil {
		err = pair.Validate()
	}
	if err != nil {
		return m.forceLogoutLocked(ctx, current, err)
	}

	err = m.store.SetMany(ctx, map[string]string{
		KeyAccessToken:  pair.AccessToken,
		KeyRefreshToken: pair.RefreshToken,
	})
	if err != nil {
		return m.forceLogoutLocked(ctx, current, fmt.Errorf("persist refreshed tokens: %w", err))
	}

	m.setSession(domain.Session{AccessToken: pair.AccessToken, User: current.User}, domain.StateAuthenticated)
	m.metrics.With(metric.Labels{"result": "success"}).Increment(metricNameRefreshTotal)
	m.emit(domain.EventRefreshed{EventID: uuid.New(), UserID: current.User.ID})
	m.logger.WithField("userID", current.User.ID).Info(ctx, "access token refreshed")

	m.scheduleRefreshLocked(ctx, pair.AccessToken, true)
	return nil
}

func (m *Manager) forceLogoutLocked(ctx context.Context, previous domain.Session, reason error) error {
	m.cancelTimerLocked()
	m.setSession(domain.Session{}, domain.StateAnonymous)
	m.purgeLocked(ctx)

	m.metrics.With(metric.Labels{"result": "failure"}).Increment(metricNameRefreshTotal)
	m.metrics.Increment(metricNameForcedLogoutTotal)
	m.logger.
		WithError(reason).
		WithField("userID", previous.User.ID).
		Warn(ctx, "access token refresh failed, session torn down")
	m.emit(domain.EventLoggedOut{
		EventID: uuid.New(),
		UserID:  previous.User.ID,
		Forced:  true,
		Reason:  reason,
	})

	return fmt.Errorf("%w: %w", domain.ErrSessionExpired, reason)
}

func (m *Manager) purgeLocked(ctx context.Context) {
	if err := m.store.RemoveMany(ctx, persistedKeys...); err != nil {
		m.logger.WithError(err).Error(ctx, "failed to purge persisted session")
	}
}

func (m *Manager) loadUser(ctx context.Context) (*domain.User, error) {
	encoded, found, err := m.store.Get(ctx, KeyUser)
	if err != nil {
		return nil, fmt.Errorf("read user: %w", err)
	}
	if !found {
		return nil, errors.New("user not persisted")
	}

	var user domain.User
	if err = json.Unmarshal([]byte(encoded), &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if user.ID == "" {
		return nil, errors.New("persisted user has no id")
	}

	return &user, nil
}

func (m *Manager) setSession(session domain.Session, state domain.State) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	m.session = session
	m.state = state
}

func (m *Manager) setState(state domain.State) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	m.state = state
}

func (m *Manager) emit(evt domain.Event) {
	m.pendingEvents = append(m.pendingEvents, evt)
}

func (m *Manager) takeEventsLocked() []domain.Event {
	events := m.pendingEvents
	m.pendingEvents = nil
	return events
}

func (m *Manager) unlockAndDispatch(ctx context.Context) {
	events := m.takeEventsLocked()
	m.opMu.Unlock()

	m.dispatch(ctx, events)
}

func (m *Manager) dispatch(ctx context.Context, events []domain.Event) {
	if len(events) == 0 {
		return
	}

	m.subMu.RLock()
	ids := make([]uint64, 0, len(m.subscribers))
	for id := range m.subscribers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]api.EventHandler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, m.subscribers[id])
	}
	m.subMu.RUnlock()

	for _, evt := range events {
		for _, handler := range handlers {
			handler(ctx, evt)
		}
	}
}
