package finweb

import (
	"net/url"
	"strings"
)

// CreateURL creates a *url.URL from the given origin, path, and request
// parameters that has been properly encoded and formatted.
//
// Any path already present on origin is kept as a prefix, so an API mounted
// under e.g. http://host/api resolves /login to http://host/api/login.
//
// resource url must be valid; an invalid url will panic.
func CreateURL(origin, path string, params map[string]string) *url.URL {
	u, err := url.Parse(origin)
	if err != nil {
		// incoming resource URL should be known at compile time.
		panic("web: cannot parse url " + origin)
	}

	// Set the URL path
	u.Path = strings.TrimSuffix(u.Path, "/") + path

	// set the query parameters
	query := make(url.Values, len(params))
	for k, v := range params {
		query.Add(k, v)
	}
	u.RawQuery = query.Encode()
	return u
}

// OriginOf returns the scheme://host part of a base URL, the scope under which
// credentials for that API are stored.
func OriginOf(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(base, "/")
	}
	return u.Scheme + "://" + u.Host
}
