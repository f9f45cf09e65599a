// Package session persists the (device_id, session_id) identity pair across
// requests using the host's session storage.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	deviceIDKey  = "amplitude_device_id"
	sessionIDKey = "amplitude_session_id"
)

// Identity is the pair written into every event: a long-lived opaque device
// token and the epoch-millisecond start of the current session lifetime.
type Identity struct {
	DeviceID  string
	SessionID int64
}

// Store hands out the identity pair for a request, lazily creating and
// persisting any missing half. Implementations must be idempotent: repeated
// calls within one session lifetime return the same pair.
type Store interface {
	Ensure(w http.ResponseWriter, r *http.Request) (Identity, error)
}

// CookieStore keeps the identity pair in a signed cookie session via
// gorilla/sessions. A request arriving with a broken or expired cookie simply
// starts a fresh lineage.
type CookieStore struct {
	store *sessions.CookieStore
	name  string
	now   func() time.Time
}

var _ Store = (*CookieStore)(nil)

// NewCookieStore creates a CookieStore. maxAge is the session lifetime in
// seconds and bounds both halves of the identity pair.
func NewCookieStore(secret []byte, cookieName string, maxAge int) *CookieStore {
	s := sessions.NewCookieStore(secret)
	s.MaxAge(maxAge)
	return &CookieStore{
		store: s,
		name:  cookieName,
		now:   time.Now,
	}
}

// Ensure implements Store. The two halves are checked independently: a
// session that somehow lost only its device token gets a new token while
// keeping its start time, and vice versa.
func (s *CookieStore) Ensure(w http.ResponseWriter, r *http.Request) (Identity, error) {
	// Get returns a fresh session alongside the error when the cookie fails
	// to decode, so the error is intentionally dropped here.
	sess, _ := s.store.Get(r, s.name)

	changed := false
	deviceID, _ := sess.Values[deviceIDKey].(string)
	if deviceID == "" {
		deviceID = uuid.NewString()
		sess.Values[deviceIDKey] = deviceID
		changed = true
	}
	sessionID, _ := sess.Values[sessionIDKey].(int64)
	if sessionID == 0 {
		sessionID = s.now().UnixMilli()
		sess.Values[sessionIDKey] = sessionID
		changed = true
	}

	if changed {
		if err := sess.Save(r, w); err != nil {
			return Identity{}, err
		}
	}
	return Identity{DeviceID: deviceID, SessionID: sessionID}, nil
}
