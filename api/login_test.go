package api

import (
	"errors"
	"net/http"
	"testing"

	"cattlecloud.net/go/scope"
	"github.com/shoenig/go-conceal"
	"github.com/shoenig/test/must"
)

func TestClient_Login(t *testing.T) {
	t.Parallel()

	rc := new(recorder)
	ts := rc.server(t, func(w http.ResponseWriter, r *http.Request) {
		must.Eq(t, http.MethodPost, r.Method)
		must.Eq(t, "/login", r.URL.Path)
		must.Eq(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		must.NoError(t, r.ParseForm())

		if r.PostForm.Get("username") != "user@x.com" || r.PostForm.Get("password") != "secret" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"detail": "Incorrect email or password"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"access_token": "tok-abc", "token_type": "bearer"})
	})

	c := New(SetHTTP(ts.Client()), SetEndpoint(ts.URL))

	t.Run("success", func(t *testing.T) {
		token, err := c.Login(scope.New(), Credentials{Identifier: " user@x.com ", Secret: conceal.New("secret")})
		must.NoError(t, err)
		must.Eq(t, "tok-abc", token.Unveil())
	})

	t.Run("rejected", func(t *testing.T) {
		token, err := c.Login(scope.New(), Credentials{Identifier: "user@x.com", Secret: conceal.New("wrong")})
		must.ErrorIs(t, err, ErrCredentials)
		must.Nil(t, token)
		must.Eq(t, "Invalid email or password", Message(err, ""))
	})

	t.Run("no header without token", func(t *testing.T) {
		_, _ = c.Login(scope.New(), Credentials{Identifier: "user@x.com", Secret: conceal.New("secret")})
		must.Eq(t, "", rc.lastAuthorization())
	})
}

func TestClient_Login_noToken(t *testing.T) {
	t.Parallel()

	rc := new(recorder)
	ts := rc.server(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"token_type": "bearer"})
	})

	c := New(SetHTTP(ts.Client()), SetEndpoint(ts.URL))
	_, err := c.Login(scope.New(), Credentials{Identifier: "user@x.com", Secret: conceal.New("secret")})
	must.ErrorIs(t, err, ErrNoToken)
}

func TestClient_Login_serverError(t *testing.T) {
	t.Parallel()

	rc := new(recorder)
	ts := rc.server(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := New(SetHTTP(ts.Client()), SetEndpoint(ts.URL))
	_, err := c.Login(scope.New(), Credentials{Identifier: "user@x.com", Secret: conceal.New("secret")})
	must.Error(t, err)
	must.False(t, errors.Is(err, ErrCredentials), must.Sprint("5xx must not be reported as bad credentials"))
}
