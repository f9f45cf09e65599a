// Package request captures the per-request data the event builder needs as a
// plain value, deciding optionality once at the framework boundary instead of
// probing the live request later.
package request

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/amptrack/amptrack/internal/auth"
)

// Info is an immutable snapshot of one inbound request.
type Info struct {
	Method       string
	Path         string
	RouteName    string
	PathParams   map[string]string
	Query        url.Values
	RemoteAddr   string
	ForwardedFor string
	UserAgent    string
	Language     string

	// DeviceID is empty and SessionID zero when the request carries no
	// session.
	DeviceID  string
	SessionID int64

	// User is nil for anonymous requests.
	User *auth.User
}

// Snapshot extracts an Info from a live request. Route name and path
// parameters come from the resolver at the call site; identity and user are
// whatever the session and auth collaborators produced for this request.
func Snapshot(r *http.Request, routeName string, pathParams map[string]string, deviceID string, sessionID int64, user *auth.User) Info {
	return Info{
		Method:       r.Method,
		Path:         r.URL.Path,
		RouteName:    routeName,
		PathParams:   pathParams,
		Query:        r.URL.Query(),
		RemoteAddr:   r.RemoteAddr,
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
		UserAgent:    r.Header.Get("User-Agent"),
		Language:     primaryLanguage(r.Header.Get("Accept-Language")),
		DeviceID:     deviceID,
		SessionID:    sessionID,
		User:         user,
	}
}

// ClientIP returns the last hop of the forwarding chain when an
// X-Forwarded-For header is present, else the peer address without its port.
// Empty when neither is usable.
func (in Info) ClientIP() string {
	if in.ForwardedFor != "" {
		hops := strings.Split(in.ForwardedFor, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if in.RemoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(in.RemoteAddr)
	if err != nil {
		return in.RemoteAddr
	}
	return host
}

// primaryLanguage picks the first tag of an Accept-Language header, dropping
// any quality weight.
func primaryLanguage(header string) string {
	if header == "" {
		return ""
	}
	first, _, _ := strings.Cut(header, ",")
	tag, _, _ := strings.Cut(first, ";")
	return strings.TrimSpace(tag)
}
