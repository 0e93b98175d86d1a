package middles

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"cattlecloud.net/go/finweb/api"
	"cattlecloud.net/go/finweb/session"
	"cattlecloud.net/go/finweb/tokens"
	"cattlecloud.net/go/scope"
	"github.com/shoenig/go-conceal"
	"github.com/shoenig/test/must"
)

func TestFlow_loginUnlocksProtected(t *testing.T) {
	t.Parallel()

	var authorization atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/login":
			_, _ = w.Write([]byte(`{"access_token":"tok-flow","token_type":"bearer"}`))
		default:
			_, _ = w.Write([]byte(`{"user_name":"Trader"}`))
		}
	}))
	t.Cleanup(ts.Close)

	store := tokens.NewVolatile()
	client := api.New(api.SetHTTP(ts.Client()), api.SetEndpoint(ts.URL), api.SetTokens(store))
	manager := session.NewManager(store, client)

	guarded := &SetSession{
		Sessions: manager,
		Next:     &Protected{Fallback: "/login", Next: content},
	}

	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		return w
	}

	// before resolution nothing is rendered
	must.Eq(t, "Loading...\n", get().Body.String())

	manager.Initialize()
	must.Eq(t, http.StatusSeeOther, get().Code)

	err := manager.Login(scope.New(), api.Credentials{Identifier: "user@x.com", Secret: conceal.New("secret")})
	must.NoError(t, err)

	_, err = client.Dashboard(scope.New())
	must.NoError(t, err)
	must.Eq(t, "Bearer tok-flow", authorization.Load().(string))

	// same manager instance, no refetch of anything
	must.Eq(t, wrapped, get().Body.String())
}
