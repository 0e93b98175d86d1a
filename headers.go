package finweb

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shoenig/go-conceal"
)

// MIMEType are correct identifier strings for various MIME types.
//
// Consider using one of the pre-defined types.
type MIMEType string

const (
	ContentTypeText MIMEType = "text/plain; charset=utf-8"
	ContentTypeHTML MIMEType = "text/html; charset=utf-8"
	ContentTypeJSON MIMEType = "application/json"
	ContentTypeForm MIMEType = "application/x-www-form-urlencoded"
)

// SetContentType sets the Content-Type header on w to the givien MIME
// compatible content type string.
func SetContentType(w http.ResponseWriter, filetype MIMEType) {
	w.Header().Set("Content-Type", string(filetype))
}

// SetRequestContentType sets the Content-Type header of an outbound request.
func SetRequestContentType(r *http.Request, filetype MIMEType) {
	r.Header.Set("Content-Type", string(filetype))
}

// SetCacheControl sets a private Cache-Control headers on w with the given
// duration, rounded to seconds.
func SetCacheControl(w http.ResponseWriter, ttl time.Duration) {
	f := ttl.Seconds()
	i := int(f)
	s := "private, max-age=" + strconv.Itoa(i)
	w.Header().Set("Cache-Control", s)
}

// SetNoStore marks the response as never cacheable. Guard redirects and
// loading placeholders use this so a back-navigation re-asks the server.
func SetNoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}

// SetBearerAuth sets the Authorization header on r to the given bearer
// token.
//
// NOTE: if token is nil or empty, no header is set and any existing
// Authorization header is removed.
func SetBearerAuth(r *http.Request, token *conceal.Text) {
	if token == nil || token.Unveil() == "" {
		r.Header.Del("Authorization")
		return
	}
	r.Header.Set("Authorization", "Bearer "+token.Unveil())
}
