package tokens

import (
	"path/filepath"
	"testing"

	"github.com/shoenig/go-conceal"
	"github.com/shoenig/test/must"
)

func TestDurable_roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.db")

	d, err := OpenDurable(path, "http://localhost:8000")
	must.NoError(t, err)

	_, exists, lerr := d.Load()
	must.NoError(t, lerr)
	must.False(t, exists)

	must.NoError(t, d.Save(conceal.New("abc")))
	must.NoError(t, d.Close())

	// a second process sees the same token
	d2, err2 := OpenDurable(path, "http://localhost:8000")
	must.NoError(t, err2)
	t.Cleanup(func() { _ = d2.Close() })

	token, exists2, lerr2 := d2.Load()
	must.NoError(t, lerr2)
	must.True(t, exists2)
	must.Eq(t, "abc", token.Unveil())

	must.NoError(t, d2.Delete())
	_, exists3, lerr3 := d2.Load()
	must.NoError(t, lerr3)
	must.False(t, exists3)
}

func TestDurable_scopedByOrigin(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.db")

	a, err := OpenDurable(path, "https://a.example.org")
	must.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	b, err := OpenDurable(path, "https://b.example.org")
	must.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	must.NoError(t, a.Save(conceal.New("token-a")))

	_, exists, lerr := b.Load()
	must.NoError(t, lerr)
	must.False(t, exists)

	token, exists2, lerr2 := a.Load()
	must.NoError(t, lerr2)
	must.True(t, exists2)
	must.Eq(t, "token-a", token.Unveil())
}
