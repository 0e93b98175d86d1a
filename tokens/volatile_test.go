package tokens

import (
	"testing"

	"github.com/shoenig/go-conceal"
	"github.com/shoenig/test/must"
)

func TestVolatile_Get(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		v := NewVolatile()

		token, ok := v.Get()
		must.False(t, ok)
		must.Nil(t, token)
	})

	t.Run("set then get", func(t *testing.T) {
		v := NewVolatile()
		v.Set(conceal.New("token-1"))

		token, ok := v.Get()
		must.True(t, ok)
		must.Eq(t, "token-1", token.Unveil())
	})

	t.Run("overwrite", func(t *testing.T) {
		v := NewVolatile()
		v.Set(conceal.New("token-1"))
		v.Set(conceal.New("token-2"))

		token, ok := v.Get()
		must.True(t, ok)
		must.Eq(t, "token-2", token.Unveil())
	})

	t.Run("empty string is no token", func(t *testing.T) {
		v := NewVolatile()
		v.Set(conceal.New("token-1"))
		v.Set(conceal.New(""))

		_, ok := v.Get()
		must.False(t, ok)
	})
}

func TestVolatile_Clear(t *testing.T) {
	t.Parallel()

	v := NewVolatile()
	v.Set(conceal.New("token-1"))
	v.Clear()
	v.Clear()

	_, ok := v.Get()
	must.False(t, ok)
}
