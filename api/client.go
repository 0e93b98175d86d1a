// Package api is the authorized request path to the finance API.
//
// Every request made by a Client, including the login and register calls,
// passes through the same transport which attaches the stored bearer token
// when one exists.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cattlecloud.net/go/finweb"
	"cattlecloud.net/go/finweb/tokens"
	"github.com/PaesslerAG/jsonpath"
	"github.com/hashicorp/go-hclog"
	"github.com/shoenig/go-conceal"
)

const maxBodySize = 4 << 20

// Client calls the finance API.
type Client struct {
	endpoint     string
	hc           *http.Client
	tokens       tokens.Store
	log          hclog.Logger
	unauthorized func(rejected *conceal.Text)
	timeout      time.Duration
}

// New creates a Client. Without SetTokens the client keeps its token in
// memory only.
func New(opts ...OptionFunc) *Client {
	options := &Options{
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{Timeout: 1 * time.Minute},
		timeout:    30 * time.Second,
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.tokens == nil {
		options.tokens = tokens.NewVolatile()
	}
	if options.logger == nil {
		options.logger = hclog.NewNullLogger()
	}

	base := options.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	// copy so the caller's client is left untouched
	hc := *options.httpClient
	hc.Transport = &bearer{base: base, tokens: options.tokens}

	return &Client{
		endpoint:     options.endpoint,
		hc:           &hc,
		tokens:       options.tokens,
		log:          options.logger,
		unauthorized: options.unauthorized,
		timeout:      options.timeout,
	}
}

// Tokens returns the store the client reads bearer tokens from.
func (c *Client) Tokens() tokens.Store {
	return c.tokens
}

// Endpoint returns the base URL of the finance API.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// bearer injects the stored token into every outbound request.
type bearer struct {
	base   http.RoundTripper
	tokens tokens.Store
}

func (b *bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	// a RoundTripper must not modify the request it was given
	r2 := req.Clone(req.Context())
	token, _ := b.tokens.Get()
	if a, ok := req.Context().Value(attachedKey{}).(*attached); ok {
		a.token = token
	}
	finweb.SetBearerAuth(r2, token)
	return b.base.RoundTrip(r2)
}

type attachedKey struct{}

// attached is the token the transport sent with a request, nil when the
// request went out without one.
type attached struct {
	token *conceal.Text
}

// call is one request/response exchange with the API.
type call struct {
	method string
	path   string
	params map[string]string
	body   io.Reader
	ctype  finweb.MIMEType
	out    any

	// public calls never trigger the unauthorized hook
	public bool
}

func (c *Client) jsonCall(method, path string, in, out any) (*call, error) {
	cl := &call{method: method, path: path, out: out}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("api: encoding %s %s: %w", method, path, err)
		}
		cl.body = bytes.NewReader(b)
		cl.ctype = finweb.ContentTypeJSON
	}
	return cl, nil
}

func (c *Client) do(ctx context.Context, cl *call) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	sent := new(attached)
	ctx = context.WithValue(ctx, attachedKey{}, sent)

	u := finweb.CreateURL(c.endpoint, cl.path, cl.params)
	request, err := http.NewRequestWithContext(ctx, cl.method, u.String(), cl.body)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}
	request.Header.Set("Accept", string(finweb.ContentTypeJSON))
	if cl.ctype != "" {
		finweb.SetRequestContentType(request, cl.ctype)
	}

	response, err := c.hc.Do(request)
	if err != nil {
		c.log.Debug("request failed", "method", cl.method, "path", cl.path, "error", err)
		return fmt.Errorf("api: %s %s: %w", cl.method, cl.path, err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("api: reading %s %s: %w", cl.method, cl.path, err)
	}

	c.log.Debug("request", "method", cl.method, "path", cl.path, "status", response.StatusCode)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		se := &StatusError{
			Method: cl.method,
			Path:   cl.path,
			Code:   response.StatusCode,
			Detail: detail(body),
		}
		if response.StatusCode == http.StatusUnauthorized && !cl.public {
			if c.unauthorized != nil {
				c.unauthorized(sent.token)
			}
			return fmt.Errorf("%w: %w", ErrUnauthorized, se)
		}
		return se
	}

	if cl.out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, cl.out); err != nil {
		return fmt.Errorf("api: decoding %s %s: %w", cl.method, cl.path, err)
	}
	return nil
}

// detail extracts the human readable reason out of an error body, which the
// API shapes as {"detail": "..."} or {"detail": [{"msg": "..."}]}.
func detail(body []byte) string {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return ""
	}

	value, err := jsonpath.Get("$.detail", data)
	if err != nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case []any:
		// validation errors; keep the first message
		msg, merr := jsonpath.Get("$.detail[0].msg", data)
		if s, ok := first(msg).(string); merr == nil && ok {
			return s
		}
	}
	return ""
}

// first unwraps single element results; jsonpath is not consistent about
// returning a list of one answer or the answer itself.
func first(value any) any {
	if list, ok := value.([]any); ok && len(list) > 0 {
		return list[0]
	}
	return value
}
