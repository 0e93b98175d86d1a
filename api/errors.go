package api

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentials indicates the server rejected the login credentials.
	ErrCredentials = errors.New("api: invalid email or password")

	// ErrUnauthorized indicates the server rejected the bearer token of an
	// authenticated call.
	ErrUnauthorized = errors.New("api: unauthorized")

	// ErrNoToken indicates a successful login response carried no token.
	ErrNoToken = errors.New("api: login response has no access token")

	// ErrNoSymbol indicates a prediction was requested without a symbol.
	ErrNoSymbol = errors.New("api: stock symbol is required")

	// ErrPeriod indicates a prediction period the predictor does not offer.
	ErrPeriod = errors.New("api: unsupported prediction period")

	// ErrRisk indicates a risk appetite other than low, medium, or high.
	ErrRisk = errors.New("api: unsupported risk appetite")

	// ErrEmptyQuestion indicates a chat message with no content.
	ErrEmptyQuestion = errors.New("api: question is empty")

	// ErrNoCategory indicates a transaction without a usable category.
	ErrNoCategory = errors.New("api: transaction category is required")

	// ErrPrediction indicates the predictor answered with an error payload.
	ErrPrediction = errors.New("api: prediction failed")
)

// StatusError describes a non-2xx response from the finance API.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: %s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("api: %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Detail)
}

// Message returns the text a view should show for err; the server provided
// detail when there is one, otherwise fallback.
func Message(err error, fallback string) string {
	var se *StatusError
	switch {
	case errors.Is(err, ErrCredentials):
		return "Invalid email or password"
	case errors.As(err, &se) && se.Detail != "":
		return se.Detail
	case err == nil:
		return ""
	default:
		return fallback
	}
}
