package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cattlecloud.net/go/finweb"
	"github.com/PaesslerAG/jsonpath"
	"github.com/shoenig/go-conceal"
)

// The login endpoint is an OAuth2 password form: the email must be sent under
// the key "username", whatever the client calls it.
const (
	IdentifierField = "username"
	SecretField     = "password"
)

const (
	loginPath    = "/login"
	registerPath = "/register/"
)

// tokenPath locates the issued token in the login response.
const tokenPath = "$.access_token"

// Credentials are what a user types into the login form. They are never
// persisted.
type Credentials struct {
	Identifier string
	Secret     *conceal.Text
}

// Registration creates a new account.
type Registration struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token. The token is returned, not
// stored; storing it is the job of the session manager.
//
// A 4xx answer is reported as ErrCredentials.
func (c *Client) Login(ctx context.Context, creds Credentials) (*conceal.Text, error) {
	secret := ""
	if creds.Secret != nil {
		secret = creds.Secret.Unveil()
	}

	form := url.Values{}
	form.Set(IdentifierField, strings.TrimSpace(creds.Identifier))
	form.Set(SecretField, secret)

	var data any
	err := c.do(ctx, &call{
		method: http.MethodPost,
		path:   loginPath,
		body:   strings.NewReader(form.Encode()),
		ctype:  finweb.ContentTypeForm,
		out:    &data,
		public: true,
	})

	var se *StatusError
	switch {
	case errors.As(err, &se) && se.Code >= 400 && se.Code < 500:
		return nil, fmt.Errorf("%w: %w", ErrCredentials, se)
	case err != nil:
		return nil, err
	}

	value, perr := jsonpath.Get(tokenPath, data)
	if perr != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoToken, perr)
	}

	token, ok := first(value).(string)
	if !ok || token == "" {
		return nil, ErrNoToken
	}

	return conceal.New(token), nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	cl, err := c.jsonCall(http.MethodPost, registerPath, reg, nil)
	if err != nil {
		return err
	}
	cl.public = true
	return c.do(ctx, cl)
}
