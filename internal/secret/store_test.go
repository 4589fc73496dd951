package secret_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsfdw/internal/fdw"
	"sheetsfdw/internal/secret"
)

func TestEnvName(t *testing.T) {
	assert.Equal(t, "SHEETSFDW_SECRET_SQUARE_TOKEN", secret.EnvName("square-token"))
	assert.Equal(t, "SHEETSFDW_SECRET_PG_PASSWORD", secret.EnvName("pg.password"))
}

func TestEnvStore(t *testing.T) {
	t.Setenv("SHEETSFDW_SECRET_API_KEY", "abc")
	s := secret.NewEnvStore()

	v, err := s.Get("api_key")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))

	v, err = s.Get("nothing_here")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestResolve(t *testing.T) {
	t.Setenv("SHEETSFDW_SECRET_SQUARE", "tok-123")
	store := secret.NewEnvStore()

	v, err := secret.Resolve(store, "plain-value")
	require.NoError(t, err)
	assert.Equal(t, "plain-value", v)

	v, err = secret.Resolve(store, "secret:square")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", v)

	_, err = secret.Resolve(store, "secret:missing")
	assert.ErrorContains(t, err, "not found")

	_, err = secret.Resolve(nil, "secret:square")
	assert.Error(t, err)
}

func TestResolveOptions(t *testing.T) {
	t.Setenv("SHEETSFDW_SECRET_SQUARE", "tok-123")
	in := fdw.Options{"access_token": "secret:square", "base_url": "http://x"}

	out, err := secret.ResolveOptions(secret.NewEnvStore(), in)
	require.NoError(t, err)
	assert.Equal(t, fdw.Options{"access_token": "tok-123", "base_url": "http://x"}, out)
	assert.Equal(t, "secret:square", in["access_token"], "input must not be modified")

	_, err = secret.ResolveOptions(secret.NewEnvStore(), fdw.Options{"access_token": "secret:gone"})
	assert.ErrorContains(t, err, "access_token")
}

type mapStore map[string]string

func (m mapStore) Get(k string) ([]byte, error) { return []byte(m[k]), nil }
func (m mapStore) Set(k string, v []byte) error { m[k] = string(v); return nil }
func (m mapStore) Delete(k string) error        { delete(m, k); return nil }

func TestChainStore(t *testing.T) {
	first := mapStore{}
	second := mapStore{"k": "from-second"}
	chain := secret.ChainStore{first, second}

	v, err := chain.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "from-second", string(v))

	require.NoError(t, chain.Set("k", []byte("from-first")))
	v, err = chain.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "from-first", string(v))

	require.NoError(t, chain.Delete("k"))
	v, err = chain.Get("k")
	require.NoError(t, err)
	assert.Empty(t, v)
}
