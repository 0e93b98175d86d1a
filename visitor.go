package finweb

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/mileusna/useragent"
)

// Visitor is who sent a request to the finance pages.
type Visitor struct {
	// Address is the client IP sign in attempts are counted against.
	Address string

	// Referrer is the host and path of the page that linked here, "-" when
	// the browser sent none.
	Referrer string

	Browser useragent.UserAgent
}

// Visit reads the visitor out of r. With proxied set the left most
// X-Forwarded-For hop is taken as the client address; only set it when a
// reverse proxy in front of the server rewrites that header, otherwise any
// client can pick its own address.
func Visit(r *http.Request, proxied bool) *Visitor {
	return &Visitor{
		Address:  address(r, proxied),
		Referrer: referrer(r.Header.Get("Referer")),
		Browser:  useragent.Parse(r.Header.Get("User-Agent")),
	}
}

func address(r *http.Request, proxied bool) string {
	if proxied {
		hops := r.Header.Get("X-Forwarded-For")
		first, _, _ := strings.Cut(hops, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func referrer(value string) string {
	if value == "" {
		return "-"
	}
	u, err := url.Parse(value)
	if err != nil || u.Host == "" {
		return "-"
	}
	return u.Host + u.Path
}

// Device is the kind of device the browser runs on.
func (v *Visitor) Device() string {
	switch {
	case v.Browser.Bot:
		return "bot"
	case v.Browser.Mobile:
		return "phone"
	case v.Browser.Tablet:
		return "tablet"
	case v.Browser.Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}

// Fields returns the visitor as hclog key/value pairs.
func (v *Visitor) Fields() []any {
	return []any{
		"address", v.Address,
		"referrer", v.Referrer,
		"browser", v.Browser.Name,
		"device", v.Device(),
	}
}

type visitorKey struct{}

// WithVisitor returns r carrying v, for VisitorOf further down the chain.
func WithVisitor(r *http.Request, v *Visitor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), visitorKey{}, v))
}

// VisitorOf returns the visitor attached by WithVisitor, or one read from r
// ignoring any forwarding header.
func VisitorOf(r *http.Request) *Visitor {
	if v, ok := r.Context().Value(visitorKey{}).(*Visitor); ok {
		return v
	}
	return Visit(r, false)
}
