// Package routes adapts the host's router into the route-resolution
// collaborator consumed by the middleware.
package routes

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Resolver maps a request to its matched route name and path variables.
type Resolver interface {
	// Resolve returns the route name and matched path parameters. ok is
	// false when no registered route matches the request.
	Resolve(r *http.Request) (name string, params map[string]string, ok bool)
}

// MuxResolver resolves routes against a gorilla/mux router. Routes must be
// registered with Name() for the resolver to report a name; unnamed matches
// report an empty name and let the caller fall back to the raw path.
type MuxResolver struct {
	router *mux.Router
}

var _ Resolver = (*MuxResolver)(nil)

// NewMuxResolver creates a resolver over the given router.
func NewMuxResolver(router *mux.Router) *MuxResolver {
	return &MuxResolver{router: router}
}

// Resolve implements Resolver.
func (m *MuxResolver) Resolve(r *http.Request) (string, map[string]string, bool) {
	var match mux.RouteMatch
	if !m.router.Match(r, &match) || match.Route == nil {
		return "", nil, false
	}
	return match.Route.GetName(), match.Vars, true
}
