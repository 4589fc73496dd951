package secret

import (
	"os"
	"strings"
)

// EnvPrefix is prepended to the normalized key to form the variable name.
const EnvPrefix = "SHEETSFDW_SECRET_"

// EnvStore implements SecretStore on process environment variables.
// Key "square-token" maps to SHEETSFDW_SECRET_SQUARE_TOKEN.
type EnvStore struct{}

// NewEnvStore creates a new EnvStore.
func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

// EnvName returns the variable that holds key.
func EnvName(key string) string {
	key = strings.ToUpper(key)
	key = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, key)
	return EnvPrefix + key
}

func (s *EnvStore) Get(key string) ([]byte, error) {
	v, ok := os.LookupEnv(EnvName(key))
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

// Set only lasts for the life of the process.
func (s *EnvStore) Set(key string, value []byte) error {
	return os.Setenv(EnvName(key), string(value))
}

func (s *EnvStore) Delete(key string) error {
	return os.Unsetenv(EnvName(key))
}

// ChainStore reads from each store in order and writes to the first.
type ChainStore []SecretStore

func (c ChainStore) Get(key string) ([]byte, error) {
	for _, s := range c {
		v, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		if len(v) > 0 {
			return v, nil
		}
	}
	return nil, nil
}

func (c ChainStore) Set(key string, value []byte) error {
	if len(c) == 0 {
		return nil
	}
	return c[0].Set(key, value)
}

func (c ChainStore) Delete(key string) error {
	for _, s := range c {
		if err := s.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
