package finweb

import (
	"testing"

	"github.com/shoenig/test/must"
)

func TestCreateURL(t *testing.T) {
	t.Parallel()

	orig := "http://example.org:8000"
	params := map[string]string{
		"limit":  "50",
		"offset": "3",
	}

	u := CreateURL(orig, "/transactions/", params)
	must.Eq(t, "http://example.org:8000/transactions/?limit=50&offset=3", u.String())
}

func TestCreateURL_prefix(t *testing.T) {
	t.Parallel()

	u := CreateURL("http://example.org/api/", "/login", nil)
	must.Eq(t, "http://example.org/api/login", u.String())
}

func TestOriginOf(t *testing.T) {
	t.Parallel()

	must.Eq(t, "https://api.example.org", OriginOf("https://api.example.org/v1/"))
	must.Eq(t, "http://localhost:8000", OriginOf("http://localhost:8000"))
}
