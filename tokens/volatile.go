package tokens

import (
	"sync"

	"github.com/shoenig/go-conceal"
)

// NewVolatile creates an in-memory implementation of Store.
func NewVolatile() *Volatile {
	return &Volatile{
		lock: new(sync.Mutex),
	}
}

// Volatile is an in-memory implementation of Store.
//
// Anything stored is lost when the process exits; it is the fallback used
// when durable storage cannot be opened or written.
type Volatile struct {
	lock  *sync.Mutex
	token *conceal.Text
}

func (v *Volatile) Get() (*conceal.Text, bool) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if empty(v.token) {
		return nil, false
	}
	return v.token, true
}

func (v *Volatile) Set(token *conceal.Text) {
	v.lock.Lock()
	defer v.lock.Unlock()

	// an empty token is the same as no token
	if empty(token) {
		v.token = nil
		return
	}
	v.token = token
}

func (v *Volatile) Clear() {
	v.lock.Lock()
	v.token = nil
	v.lock.Unlock()
}
