package tokens

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shoenig/go-conceal"
	"github.com/shoenig/test/must"
)

// brokenBackend fails every operation after the configured number of
// successful calls.
type brokenBackend struct {
	remaining int
	token     *conceal.Text
}

func (b *brokenBackend) ok() bool {
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

func (b *brokenBackend) Load() (*conceal.Text, bool, error) {
	if !b.ok() {
		return nil, false, ErrUnavailable
	}
	return b.token, b.token != nil, nil
}

func (b *brokenBackend) Save(token *conceal.Text) error {
	if !b.ok() {
		return ErrUnavailable
	}
	b.token = token
	return nil
}

func (b *brokenBackend) Delete() error {
	if !b.ok() {
		return ErrUnavailable
	}
	b.token = nil
	return nil
}

func TestResilient_healthy(t *testing.T) {
	t.Parallel()

	backend := &brokenBackend{remaining: 100}
	r := NewResilient(backend, nil)

	r.Set(conceal.New("abc"))
	must.Eq(t, "abc", backend.token.Unveil())

	token, ok := r.Get()
	must.True(t, ok)
	must.Eq(t, "abc", token.Unveil())
	must.False(t, r.Degraded())

	r.Clear()
	must.Nil(t, backend.token)
	_, ok = r.Get()
	must.False(t, ok)
}

func TestResilient_degradesOnWrite(t *testing.T) {
	t.Parallel()

	backend := &brokenBackend{remaining: 0}
	r := NewResilient(backend, nil)

	// the write fails, but the caller never sees it
	r.Set(conceal.New("abc"))
	must.True(t, r.Degraded())

	token, ok := r.Get()
	must.True(t, ok)
	must.Eq(t, "abc", token.Unveil())

	r.Clear()
	_, ok = r.Get()
	must.False(t, ok)
}

func TestResilient_degradesOnRead(t *testing.T) {
	t.Parallel()

	backend := &brokenBackend{remaining: 1}
	r := NewResilient(backend, nil)

	r.Set(conceal.New("abc")) // consumes the only successful call

	token, ok := r.Get()
	must.True(t, r.Degraded())
	must.True(t, ok)
	must.Eq(t, "abc", token.Unveil())
}

func TestOpen_unavailable(t *testing.T) {
	t.Parallel()

	// a regular file where a directory is expected makes the database
	// impossible to create
	blocker := filepath.Join(t.TempDir(), "blocker")
	must.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	r := Open(filepath.Join(blocker, "sub", "tokens.db"), "http://localhost:8000", nil)
	must.True(t, r.Degraded())

	r.Set(conceal.New("abc"))
	token, ok := r.Get()
	must.True(t, ok)
	must.Eq(t, "abc", token.Unveil())
	must.NoError(t, r.Close())
}

func TestOpen_durable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "tokens.db")

	r := Open(path, "http://localhost:8000", nil)
	must.False(t, r.Degraded())
	r.Set(conceal.New("persisted"))
	must.NoError(t, r.Close())

	r2 := Open(path, "http://localhost:8000", nil)
	t.Cleanup(func() { _ = r2.Close() })

	token, ok := r2.Get()
	must.True(t, ok)
	must.Eq(t, "persisted", token.Unveil())
}
