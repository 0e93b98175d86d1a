package session

import (
	"context"
	"sync"
	"time"

	"cattlecloud.net/go/finweb/api"
	"cattlecloud.net/go/finweb/tokens"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-hclog"
	"github.com/shoenig/go-conceal"
)

// Authenticator exchanges credentials for a bearer token; implemented by
// *api.Client.
type Authenticator interface {
	Login(context.Context, api.Credentials) (*conceal.Text, error)
}

type Option func(*Manager)

func WithLogger(log hclog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithExpiryCheck makes Initialize discard a stored JWT whose exp claim has
// already passed. The token is decoded locally; no request is made.
func WithExpiryCheck(enabled bool) Option {
	return func(m *Manager) { m.expiryCheck = enabled }
}

// Manager owns the Session and the token store.
type Manager struct {
	lock  *sync.Mutex
	once  *sync.Once
	store tokens.Store
	auth  Authenticator
	log   hclog.Logger
	clock func() time.Time

	expiryCheck bool

	current Session

	// epoch increments on every logout; a login only lands if the epoch it
	// started in is still current
	epoch uint64

	subscribers map[int]func(Session)
	nextID      int
}

// NewManager creates a Manager in the Unresolved state. Call Initialize
// before serving any view.
func NewManager(store tokens.Store, auth Authenticator, opts ...Option) *Manager {
	m := &Manager{
		lock:        new(sync.Mutex),
		once:        new(sync.Once),
		store:       store,
		auth:        auth,
		log:         hclog.NewNullLogger(),
		clock:       time.Now,
		current:     Session{loading: true},
		subscribers: make(map[int]func(Session)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Initialize resolves the session from the token store. Only the first call
// has any effect. A stored token is trusted as is.
func (m *Manager) Initialize() {
	m.once.Do(func() {
		m.lock.Lock()
		token, exists := m.store.Get()
		if exists && m.expiryCheck && m.expired(token) {
			m.log.Info("stored token has expired, discarding")
			m.store.Clear()
			exists = false
		}
		m.current = Session{present: exists, loading: false}
		snapshot := m.current
		m.lock.Unlock()

		m.log.Debug("session resolved", "state", snapshot.State())
		m.notify(snapshot)
	})
}

func (m *Manager) expired(token *conceal.Text) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token.Unveil(), claims); err != nil {
		// opaque, not a jwt; nothing to check
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(m.clock())
}

// Login authenticates and, on success, stores the issued token. On failure
// the session is left unchanged and the error is returned for display.
func (m *Manager) Login(ctx context.Context, creds api.Credentials) error {
	m.lock.Lock()
	if m.current.loading {
		m.lock.Unlock()
		return ErrUnresolved
	}
	epoch := m.epoch
	m.lock.Unlock()

	token, err := m.auth.Login(ctx, creds)
	if err != nil {
		m.log.Debug("login failed", "error", err)
		return err
	}

	m.lock.Lock()
	if m.epoch != epoch {
		m.lock.Unlock()
		m.log.Info("discarding login answer received after logout")
		return ErrStale
	}
	m.store.Set(token)
	m.current.present = true
	snapshot := m.current
	m.lock.Unlock()

	m.log.Info("logged in")
	m.notify(snapshot)
	return nil
}

// Logout forgets the token. It never fails and may be called any number of
// times.
func (m *Manager) Logout() {
	if m.signOut() {
		m.log.Info("logged out")
	}
}

// Invalidate signs the user out because the server rejected the token.
// Only a rejection of the token still held counts; one answering a request
// sent before a logout, or with a token since replaced, is ignored.
func (m *Manager) Invalidate(rejected *conceal.Text) {
	m.lock.Lock()
	held, exists := m.store.Get()
	if !exists || !same(held, rejected) {
		m.lock.Unlock()
		m.log.Debug("ignoring rejection of a token no longer held")
		return
	}
	changed, snapshot := m.clear()
	m.lock.Unlock()

	if changed {
		m.log.Info("session invalidated by server")
		m.notify(snapshot)
	}
}

func same(a, b *conceal.Text) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Unveil() == b.Unveil()
}

// signOut reports whether the session changed.
func (m *Manager) signOut() bool {
	m.lock.Lock()
	changed, snapshot := m.clear()
	m.lock.Unlock()

	if changed {
		m.notify(snapshot)
	}
	return changed
}

// clear must be called with the lock held.
func (m *Manager) clear() (bool, Session) {
	m.store.Clear()
	m.epoch++
	changed := m.current.present
	m.current.present = false
	return changed, m.current
}

// Session returns the current snapshot.
func (m *Manager) Session() Session {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.current
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return m.Session().State()
}

// Subscribe registers f to be called after every change of the session. The
// returned func removes the subscription.
func (m *Manager) Subscribe(f func(Session)) func() {
	m.lock.Lock()
	id := m.nextID
	m.nextID++
	m.subscribers[id] = f
	m.lock.Unlock()

	return func() {
		m.lock.Lock()
		delete(m.subscribers, id)
		m.lock.Unlock()
	}
}

func (m *Manager) notify(s Session) {
	m.lock.Lock()
	fns := make([]func(Session), 0, len(m.subscribers))
	for _, f := range m.subscribers {
		fns = append(fns, f)
	}
	m.lock.Unlock()

	for _, f := range fns {
		f(s)
	}
}
