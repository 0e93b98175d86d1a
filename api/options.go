package api

import (
	"net/http"
	"time"

	"cattlecloud.net/go/finweb/tokens"
	"github.com/hashicorp/go-hclog"
	"github.com/shoenig/go-conceal"
)

// DefaultEndpoint is where the finance API listens in development.
const DefaultEndpoint = "http://localhost:8000"

type Options struct {
	endpoint     string
	httpClient   *http.Client
	tokens       tokens.Store
	logger       hclog.Logger
	unauthorized func(rejected *conceal.Text)
	timeout      time.Duration
}

type OptionFunc func(*Options)

// SetHTTP sets the client whose transport carries requests; its transport is
// wrapped, never replaced.
func SetHTTP(client *http.Client) OptionFunc {
	return func(o *Options) { o.httpClient = client }
}

// SetEndpoint sets the base URL of the finance API.
func SetEndpoint(s string) OptionFunc {
	return func(o *Options) { o.endpoint = s }
}

// SetTokens sets the store the bearer token is read from before each request.
func SetTokens(store tokens.Store) OptionFunc {
	return func(o *Options) { o.tokens = store }
}

func SetLogger(logger hclog.Logger) OptionFunc {
	return func(o *Options) { o.logger = logger }
}

// SetUnauthorized sets the hook invoked when an authenticated call is
// answered with 401. The hook is given the token that was sent with the
// rejected request, nil if there was none. The session manager wires its
// Invalidate here.
func SetUnauthorized(f func(rejected *conceal.Text)) OptionFunc {
	return func(o *Options) { o.unauthorized = f }
}

// SetTimeout bounds calls whose context carries no deadline.
func SetTimeout(d time.Duration) OptionFunc {
	return func(o *Options) { o.timeout = d }
}
