package finweb

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cattlecloud.net/go/scope"
	"github.com/shoenig/go-conceal"
	"github.com/shoenig/test/must"
)

func Test_SetCacheControl(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	SetCacheControl(w, 4*time.Minute)
	must.Eq(t, "private, max-age=240", w.Header().Get("Cache-Control"))
}

func Test_SetNoStore(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	SetNoStore(w)
	must.Eq(t, "no-store", w.Header().Get("Cache-Control"))
}

func Test_SetContentType(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	SetContentType(w, ContentTypeHTML)
	must.Eq(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
}

func Test_SetBearerAuth(t *testing.T) {
	t.Parallel()

	r, err := http.NewRequestWithContext(scope.New(), http.MethodGet, "/", nil)
	must.NoError(t, err)
	SetBearerAuth(r, conceal.New("abc.def.ghi"))

	value := r.Header.Get("Authorization")
	must.Eq(t, "Bearer abc.def.ghi", value)
}

func Test_SetBearerAuth_empty(t *testing.T) {
	t.Parallel()

	r, err := http.NewRequestWithContext(scope.New(), http.MethodGet, "/", nil)
	must.NoError(t, err)
	r.Header.Set("Authorization", "Bearer stale")

	SetBearerAuth(r, nil)
	must.Eq(t, "", r.Header.Get("Authorization")) // removed

	SetBearerAuth(r, conceal.New(""))
	must.Eq(t, "", r.Header.Get("Authorization"))
}
