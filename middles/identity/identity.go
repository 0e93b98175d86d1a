package identity

// UserSession is what a guard needs to know about the current user: whether
// the startup resolution is still pending, and whether a token is held.
type UserSession interface {
	Loading() bool
	Active() bool
}
