package middles

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cattlecloud.net/go/finweb/session"
	"github.com/shoenig/test/must"
)

const wrapped = "wrapped content"

var content = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte(wrapped))
})

func TestDecide(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		kind    Kind
		session session.Session
		exp     Decision
	}{
		{"public loading", PublicOnlyKind, session.Snapshot(false, true), Decision{Verdict: Wait}},
		{"public anonymous", PublicOnlyKind, session.Snapshot(false, false), Decision{Verdict: Render}},
		{"public authenticated", PublicOnlyKind, session.Snapshot(true, false), Decision{Verdict: Redirect, Location: "/target"}},
		{"protected loading", ProtectedKind, session.Snapshot(true, true), Decision{Verdict: Wait}},
		{"protected anonymous", ProtectedKind, session.Snapshot(false, false), Decision{Verdict: Redirect, Location: "/target"}},
		{"protected authenticated", ProtectedKind, session.Snapshot(true, false), Decision{Verdict: Render}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			must.Eq(t, tc.exp, Decide(tc.kind, tc.session, "/target"))
		})
	}
}

func serve(h http.Handler, source Sessions, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, path, nil)
	(&SetSession{Sessions: source, Next: h}).ServeHTTP(w, r)
	return w
}

func TestPublicOnly(t *testing.T) {
	t.Parallel()

	g := &PublicOnly{Destination: "/dashboard", Next: content}

	t.Run("authenticated redirects", func(t *testing.T) {
		w := serve(g, &fixed{current: session.Snapshot(true, false)}, "/login")
		must.Eq(t, http.StatusSeeOther, w.Code)
		must.Eq(t, "/dashboard", w.Header().Get("Location"))
		must.Eq(t, "no-store", w.Header().Get("Cache-Control"))
		must.StrNotContains(t, w.Body.String(), wrapped)
	})

	t.Run("anonymous renders", func(t *testing.T) {
		w := serve(g, &fixed{current: session.Snapshot(false, false)}, "/login")
		must.Eq(t, http.StatusOK, w.Code)
		must.Eq(t, wrapped, w.Body.String())
	})

	t.Run("loading shows placeholder", func(t *testing.T) {
		w := serve(g, &fixed{current: session.Snapshot(false, true)}, "/login")
		must.Eq(t, http.StatusOK, w.Code)
		must.Eq(t, "Loading...\n", w.Body.String())
		must.Eq(t, "1", w.Header().Get("Refresh"))
	})
}

func TestProtected(t *testing.T) {
	t.Parallel()

	g := &Protected{Fallback: "/login", Next: content}

	t.Run("anonymous redirects to fallback", func(t *testing.T) {
		w := serve(g, &fixed{current: session.Snapshot(false, false)}, "/portfolio")
		must.Eq(t, http.StatusSeeOther, w.Code)
		must.Eq(t, "/login", w.Header().Get("Location"))
		must.StrNotContains(t, w.Body.String(), wrapped)
	})

	t.Run("authenticated renders", func(t *testing.T) {
		w := serve(g, &fixed{current: session.Snapshot(true, false)}, "/portfolio")
		must.Eq(t, wrapped, w.Body.String())
	})

	t.Run("custom placeholder", func(t *testing.T) {
		g2 := &Protected{
			Fallback: "/login",
			Next:     content,
			Placeholder: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("spinner"))
			}),
		}
		w := serve(g2, &fixed{current: session.Snapshot(true, true)}, "/portfolio")
		must.Eq(t, "spinner", w.Body.String())
		must.Eq(t, "no-store", w.Header().Get("Cache-Control"))
	})
}

func TestProtected_reactsToLogout(t *testing.T) {
	t.Parallel()

	source := &fixed{current: session.Snapshot(true, false)}
	g := &Protected{Fallback: "/login", Next: content}

	w := serve(g, source, "/chat")
	must.Eq(t, wrapped, w.Body.String())

	// logout triggered from within the protected view
	source.current = session.Snapshot(false, false)

	w = serve(g, source, "/chat")
	must.Eq(t, http.StatusSeeOther, w.Code)
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	must.Eq(t, "public-only", PublicOnlyKind.String())
	must.Eq(t, "protected", ProtectedKind.String())
}
