// Package session owns the single record of whether the user is signed in.
//
// A Manager is the only writer of both the Session and the token store. It
// resolves once at startup from the stored token, then moves between
// Anonymous and Authenticated on Login, Logout and Invalidate. Views and
// guards read snapshots; they never write.
package session

import (
	"errors"
)

var (
	// ErrUnresolved indicates an operation attempted before Initialize.
	ErrUnresolved = errors.New("session: not initialized")

	// ErrStale indicates a login whose answer arrived after the session was
	// logged out; the answer was discarded.
	ErrStale = errors.New("session: login superseded by logout")
)

// State is the position of a Session in its lifecycle.
type State int

const (
	Unresolved State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}

// Session is a snapshot of the authentication status.
type Session struct {
	present bool
	loading bool
}

// Snapshot builds a Session directly, for code that renders without a
// Manager.
func Snapshot(present, loading bool) Session {
	return Session{present: present, loading: loading}
}

// Active reports whether a token is stored.
func (s Session) Active() bool { return s.present }

// Loading reports whether the startup resolution is still pending.
func (s Session) Loading() bool { return s.loading }

// State derives the lifecycle state of s.
func (s Session) State() State {
	switch {
	case s.loading:
		return Unresolved
	case s.present:
		return Authenticated
	default:
		return Anonymous
	}
}
