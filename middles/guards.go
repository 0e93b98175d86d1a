package middles

import (
	"net/http"

	"cattlecloud.net/go/finweb"
	"cattlecloud.net/go/finweb/middles/identity"
	"github.com/hashicorp/go-hclog"
)

// Kind selects the policy of a guard.
type Kind int

const (
	// PublicOnlyKind guards pages meant for signed out users (landing,
	// login, register).
	PublicOnlyKind Kind = iota

	// ProtectedKind guards pages requiring a signed in user.
	ProtectedKind
)

func (k Kind) String() string {
	if k == ProtectedKind {
		return "protected"
	}
	return "public-only"
}

// Verdict is the outcome of a guard decision.
type Verdict int

const (
	// Render the wrapped destination.
	Render Verdict = iota

	// Wait shows a neutral placeholder while the session is unresolved.
	Wait

	// Redirect elsewhere.
	Redirect
)

// Decision is what a guard does with a request.
type Decision struct {
	Verdict  Verdict
	Location string
}

// Decide is the single capability both guards share. target is where a
// redirect goes: the signed in destination for PublicOnlyKind, the fallback
// for ProtectedKind.
func Decide(kind Kind, s identity.UserSession, target string) Decision {
	switch {
	case s.Loading():
		return Decision{Verdict: Wait}
	case kind == PublicOnlyKind && s.Active():
		return Decision{Verdict: Redirect, Location: target}
	case kind == ProtectedKind && !s.Active():
		return Decision{Verdict: Redirect, Location: target}
	default:
		return Decision{Verdict: Render}
	}
}

// PublicOnly renders Next only for signed out users; signed in users are
// sent to Destination.
type PublicOnly struct {
	Destination string
	Placeholder http.Handler
	Logger      hclog.Logger
	Next        http.Handler
}

func (g *PublicOnly) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	guard(PublicOnlyKind, g.Destination, g.Placeholder, g.Logger, g.Next, w, r)
}

// Protected renders Next only for signed in users; everyone else is sent to
// Fallback.
type Protected struct {
	Fallback    string
	Placeholder http.Handler
	Logger      hclog.Logger
	Next        http.Handler
}

func (g *Protected) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	guard(ProtectedKind, g.Fallback, g.Placeholder, g.Logger, g.Next, w, r)
}

func guard(
	kind Kind,
	target string,
	placeholder http.Handler,
	log hclog.Logger,
	next http.Handler,
	w http.ResponseWriter,
	r *http.Request,
) {
	decision := Decide(kind, GetSession(r), target)

	switch decision.Verdict {
	case Wait:
		finweb.SetNoStore(w)
		if placeholder == nil {
			placeholder = Loading
		}
		placeholder.ServeHTTP(w, r)
	case Redirect:
		if log != nil {
			fields := []any{"guard", kind, "path", r.URL.Path, "location", decision.Location}
			log.Debug("redirect", append(fields, finweb.VisitorOf(r).Fields()...)...)
		}
		// 303 plus no-store: the guarded page never lands in the cache
		// or the history as something to come back to
		finweb.SetNoStore(w)
		http.Redirect(w, r, decision.Location, http.StatusSeeOther)
	default:
		next.ServeHTTP(w, r)
	}
}

// Loading is the default placeholder: a page with no content from either
// side of the guard that asks the browser to try again shortly.
var Loading http.Handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	finweb.SetContentType(w, finweb.ContentTypeText)
	w.Header().Set("Refresh", "1")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Loading...\n"))
})
