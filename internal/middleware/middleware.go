// Package middleware hooks the request cycle: it keeps the identity pair
// alive in the session, turns each request into a page-view event, and
// delivers it best-effort before handing off to the wrapped handler.
package middleware

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/amptrack/amptrack/internal/amplitude"
	"github.com/amptrack/amptrack/internal/auth"
	"github.com/amptrack/amptrack/internal/config"
	"github.com/amptrack/amptrack/internal/device"
	"github.com/amptrack/amptrack/internal/event"
	"github.com/amptrack/amptrack/internal/geo"
	"github.com/amptrack/amptrack/internal/metrics"
	"github.com/amptrack/amptrack/internal/request"
	"github.com/amptrack/amptrack/internal/routes"
	"github.com/amptrack/amptrack/internal/session"
	"github.com/amptrack/amptrack/internal/track"
)

// eventBuilder is what the hook needs from the track package.
type eventBuilder interface {
	Build(snap request.Info, overrides map[string]any) event.Event
}

// Options wire the collaborators into the middleware. Sessions is required;
// Users is required only when the configuration asks for user or group data.
// Everything else may be nil.
type Options struct {
	Sessions session.Store
	Users    auth.UserProvider
	Resolver routes.Resolver
	Geo      geo.Provider
	Devices  device.Parser
	// Client overrides the default Amplitude client. Tests only.
	Client *amplitude.Client
	Log    zerolog.Logger
}

type ignoreSet map[string]struct{}

// Middleware intercepts requests and emits page-view events. Create it once
// at startup and wrap the host's handler with Wrap.
type Middleware struct {
	sessions session.Store
	users    auth.UserProvider
	resolver routes.Resolver
	builder  eventBuilder
	client   *amplitude.Client
	ignore   atomic.Pointer[ignoreSet]
	log      zerolog.Logger
}

// New validates the wiring against the configuration and builds the
// middleware. Errors here are startup failures.
func New(cfg *config.Config, opts Options) (*Middleware, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if opts.Sessions == nil {
		return nil, config.Error.New("a session store is required")
	}
	if (cfg.IncludeUserData || cfg.IncludeGroupData) && opts.Users == nil {
		return nil, config.Error.New("include_user_data/include_group_data require a user provider")
	}
	client := opts.Client
	if client == nil {
		client = amplitude.NewClient(cfg.APIKey, opts.Log, amplitude.Options{})
	}

	m := &Middleware{
		sessions: opts.Sessions,
		users:    opts.Users,
		resolver: opts.Resolver,
		builder:  track.NewBuilder(cfg, opts.Geo, opts.Devices),
		client:   client,
		log:      opts.Log,
	}
	m.SetIgnoreList(cfg.Ignore)
	return m, nil
}

// SetIgnoreList atomically replaces the set of ignored paths and route
// names. The config loader calls this on hot reload.
func (m *Middleware) SetIgnoreList(entries []string) {
	set := make(ignoreSet, len(entries))
	for _, e := range entries {
		set[e] = struct{}{}
	}
	m.ignore.Store(&set)
}

// Wrap returns a handler that tracks the request and then invokes next.
// next runs exactly once per request no matter what happens here; delivery
// failures are logged and swallowed.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, err := m.sessions.Ensure(w, r)
		if err != nil {
			m.log.Warn().Err(err).Msg("session identity unavailable")
			ident = session.Identity{}
		}

		var routeName string
		var pathParams map[string]string
		if m.resolver != nil {
			routeName, pathParams, _ = m.resolver.Resolve(r)
		}

		if m.ignored(r.URL.Path, routeName) {
			metrics.RequestsIgnored.Inc()
			m.log.Debug().Str("path", r.URL.Path).Msg("request on ignore list")
			next.ServeHTTP(w, r)
			return
		}

		var user *auth.User
		if m.users != nil {
			user, _ = m.users.UserFromRequest(r)
		}

		snap := request.Snapshot(r, routeName, pathParams, ident.DeviceID, ident.SessionID, user)
		ev := m.builder.Build(snap, nil)
		metrics.EventsBuilt.Inc()

		start := time.Now()
		_, err = m.client.SendEvents(r.Context(), []event.Event{ev})
		metrics.DeliveryDuration.Observe(float64(time.Since(start).Milliseconds()))
		if err != nil {
			metrics.DeliveryFailures.Inc()
			m.log.Error().Err(err).Str("path", r.URL.Path).Msg("event delivery failed")
		} else {
			metrics.EventsDelivered.Inc()
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) ignored(path, routeName string) bool {
	set := *m.ignore.Load()
	if _, ok := set[path]; ok {
		return true
	}
	if routeName != "" {
		if _, ok := set[routeName]; ok {
			return true
		}
	}
	return false
}
