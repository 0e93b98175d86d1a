package middles

import (
	"context"
	"net/http"

	"cattlecloud.net/go/finweb/middles/identity"
	"cattlecloud.net/go/finweb/session"
)

// Sessions is the source of the current session; implemented by
// *session.Manager.
type Sessions interface {
	Session() session.Session
}

// GetSession extracts the user session out of the http.Request, which will
// be an implementation of identity.UserSession.
//
// If no session is found, a resolved identity.UserSession where .Active()
// always returns false is returned, indicating there is no session.
func GetSession(r *http.Request) identity.UserSession {
	value, ok := r.Context().Value(sessionContextKey).(identity.UserSession)
	if !ok {
		return session.Snapshot(false, false)
	}
	return value
}

type userSessionKey struct{}

var sessionContextKey = userSessionKey{}

// SetSession snapshots the session once per request and stores it on the
// request context, so that every guard and view handling the request sees
// the same state.
type SetSession struct {
	Sessions Sessions
	Next     http.Handler
}

func (ss *SetSession) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	current := ss.Sessions.Session()
	ctx2 := context.WithValue(r.Context(), sessionContextKey, identity.UserSession(current))
	r2 := r.WithContext(ctx2)
	ss.Next.ServeHTTP(w, r2)
}
