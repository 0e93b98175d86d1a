// Package tokens provides the slot holding the bearer token issued by the
// finance API.
//
// A Store never returns errors. Durable storage that becomes unavailable is
// swapped for an in-memory slot, which keeps the current process working but
// does not survive a restart.
package tokens

import (
	"errors"

	"github.com/shoenig/go-conceal"
)

var (
	// ErrUnavailable indicates the durable backing storage could not be used.
	ErrUnavailable = errors.New("tokens: storage unavailable")
)

// Store holds at most one bearer token.
type Store interface {
	Get() (*conceal.Text, bool)
	Set(*conceal.Text)
	Clear()
}

// Backend is durable storage for a single token. Unlike Store, every
// operation may fail.
type Backend interface {
	Load() (*conceal.Text, bool, error)
	Save(*conceal.Text) error
	Delete() error
}

func empty(token *conceal.Text) bool {
	return token == nil || token.Unveil() == ""
}
