// Package nonces issues one-shot tokens embedded in the login and register
// forms, so that a form can only be submitted once and only from a page this
// server rendered.
package nonces

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-set/v3"
	"github.com/shoenig/go-conceal"
)

var (
	ErrNonceNotValid = errors.New("nonces: form token not valid")
)

// Field is the name of the hidden form input carrying the nonce.
const Field = "nonce"

// DefaultTTL is how long a rendered form stays submittable.
const DefaultTTL = 30 * time.Minute

// limit bounds the nonces outstanding at once; past it the oldest are
// forgotten first.
const limit = 4096

type Mint interface {
	Create() *conceal.Text
	Consume(*conceal.Text) error
	Check(*http.Request) error
}

// New creates a Mint whose nonces expire after ttl, DefaultTTL when zero.
// A nil clock means time.Now.
func New(ttl time.Duration, clock func() time.Time) Mint {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &mint{
		lock:   new(sync.Mutex),
		clock:  clock,
		ttl:    ttl,
		active: set.NewHashSet[*conceal.Text](4),
	}
}

type mint struct {
	lock   *sync.Mutex
	clock  func() time.Time
	ttl    time.Duration
	active *set.HashSet[*conceal.Text, int]

	// issued in creation order; with a fixed ttl that is also expiry order
	issued []issue
}

type issue struct {
	token   *conceal.Text
	expires time.Time
}

func (m *mint) Create() *conceal.Text {
	token := conceal.UUIDv4()
	now := m.clock()

	m.lock.Lock()
	m.prune(now)
	m.active.Insert(token)
	m.issued = append(m.issued, issue{token: token, expires: now.Add(m.ttl)})
	for len(m.issued) > limit {
		m.forget()
	}
	m.lock.Unlock()
	return token
}

// prune forgets expired nonces; called with the lock held.
func (m *mint) prune(now time.Time) {
	for len(m.issued) > 0 && !now.Before(m.issued[0].expires) {
		m.forget()
	}
}

func (m *mint) forget() {
	m.active.Remove(m.issued[0].token)
	m.issued[0] = issue{}
	m.issued = m.issued[1:]
}

func (m *mint) Consume(proposal *conceal.Text) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.prune(m.clock())

	if !m.active.Contains(proposal) {
		return ErrNonceNotValid
	}

	m.active.Remove(proposal)
	return nil
}

// Check consumes the nonce submitted with the form in r.
func (m *mint) Check(r *http.Request) error {
	value := r.PostFormValue(Field)
	if value == "" {
		return ErrNonceNotValid
	}
	return m.Consume(conceal.New(value))
}
